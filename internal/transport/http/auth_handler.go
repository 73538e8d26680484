package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/token"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/util"
)

const (
	accessCookie  = "token"
	refreshCookie = "refresh"
	resetCookie   = "reset"
)

type AuthHandler struct {
	auth   *service.AuthService
	secure bool
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, secureCookies bool, limit echo.MiddlewareFunc) {
	h := &AuthHandler{auth: auth, secure: secureCookies}

	g := e.Group("/api/v1/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/signup", h.signup)
	g.POST("/login", h.login)
	g.POST("/admin-login", h.adminLogin)
	g.POST("/google", h.google)
	g.GET("/logout", h.logout)
	g.POST("/refresh-token", h.refresh)
	g.POST("/forget-password", h.forgotPassword)
	g.POST("/verify-code", h.verifyCode)
	g.PATCH("/reset-password", h.resetPassword)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AuthHandler) signup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	user, pair, err := h.auth.Signup(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookies(c, pair)
	return c.JSON(http.StatusCreated, util.Envelope{
		"data":         user.Sanitized(),
		"token":        pair.Token,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) login(c echo.Context) error {
	return h.handleLogin(c, h.auth.Login)
}

func (h *AuthHandler) adminLogin(c echo.Context) error {
	return h.handleLogin(c, h.auth.AdminLogin)
}

func (h *AuthHandler) handleLogin(c echo.Context, login func(ctx context.Context, email, password string) (*domain.User, service.TokenPair, error)) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	user, pair, err := login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookies(c, pair)
	return c.JSON(http.StatusOK, util.Envelope{
		"data":         user.Sanitized(),
		"token":        pair.Token,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) google(c echo.Context) error {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	user, pair, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	h.setSessionCookies(c, pair)
	return c.JSON(http.StatusOK, util.Envelope{
		"data":         user.Sanitized(),
		"token":        pair.Token,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) logout(c echo.Context) error {
	h.clearCookie(c, accessCookie)
	h.clearCookie(c, refreshCookie)
	h.clearCookie(c, resetCookie)
	return c.JSON(http.StatusOK, util.Envelope{"message": "logged out"})
}

func (h *AuthHandler) refresh(c echo.Context) error {
	access, err := h.auth.Refresh(refreshToken(c))
	if err != nil {
		h.clearCookie(c, accessCookie)
		h.clearCookie(c, refreshCookie)
		return err
	}
	h.setCookie(c, accessCookie, access, token.AccessTTL)
	return c.JSON(http.StatusOK, util.Envelope{"token": access})
}

func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	reset, err := h.auth.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	h.setCookie(c, resetCookie, reset, token.ResetTTL)
	return c.JSON(http.StatusOK, util.Envelope{
		"message":    "reset code sent to email",
		"resetToken": reset,
	})
}

func (h *AuthHandler) verifyCode(c echo.Context) error {
	var req struct {
		Code       string `json:"code"`
		ResetToken string `json:"resetToken"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	reset := req.ResetToken
	if reset == "" {
		reset = resetToken(c)
	}
	if err := h.auth.VerifyResetCode(c.Request().Context(), reset, req.Code); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "code verified"})
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req struct {
		Password   string `json:"password"`
		ResetToken string `json:"resetToken"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	reset := req.ResetToken
	if reset == "" {
		reset = resetToken(c)
	}
	user, pair, err := h.auth.ResetPassword(c.Request().Context(), reset, req.Password)
	if err != nil {
		return err
	}
	h.clearCookie(c, resetCookie)
	h.setSessionCookies(c, pair)
	return c.JSON(http.StatusOK, util.Envelope{
		"data":         user.Sanitized(),
		"token":        pair.Token,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) setSessionCookies(c echo.Context, pair service.TokenPair) {
	h.setCookie(c, accessCookie, pair.Token, token.AccessTTL)
	h.setCookie(c, refreshCookie, pair.RefreshToken, token.RefreshTTL)
}

func (h *AuthHandler) setCookie(c echo.Context, name, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
