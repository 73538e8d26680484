package http

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/redis"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
)

const (
	contextUserKey  = "auth.user"
	contextTokenKey = "auth.token"
)

// RequireAuth resolves the bearer token to a live user and stashes it on the
// context. Token, subject and freshness failures are 401; role and active
// checks live in the route-level middleware below.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return apperr.New(apperr.InvalidToken, "missing authorization header")
			}
			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}
			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

// AllowedTo restricts a route group to the given roles. It assumes
// RequireAuth ran earlier in the chain.
func AllowedTo(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return apperr.New(apperr.InvalidToken, "authentication required")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return apperr.New(apperr.Forbidden, "you are not allowed to perform this action")
		}
	}
}

// CheckActive rejects deactivated accounts after authentication.
func CheckActive() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return apperr.New(apperr.InvalidToken, "authentication required")
			}
			if !user.Active {
				return apperr.New(apperr.Forbidden, "account is deactivated")
			}
			return next(c)
		}
	}
}

// RateLimit caps attempts per client IP and route within the limiter's
// window. The limiter fails open when the counter is unreachable.
func RateLimit(limiter *redis.RateLimiter, limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP() + ":" + c.Path()
			ok, err := limiter.Allow(c.Request().Context(), key, limit)
			if err != nil {
				c.Logger().Warnf("rate limit check: %v", err)
			}
			if !ok {
				return apperr.New(apperr.RateLimited, "too many requests, please try again later")
			}
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextUserKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := c.Cookie(accessCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// refreshToken pulls the refresh credential from the Refresh authorization
// scheme or the session cookie.
func refreshToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "refresh") {
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := c.Cookie(refreshCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

func resetToken(c echo.Context) string {
	if cookie, err := c.Cookie(resetCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
