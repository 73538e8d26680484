package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/token"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/util"
)

type ProfileHandler struct {
	profile  *service.ProfileService
	uploader *service.ImageUploader
	secure   bool
}

// RegisterProfile mounts the self-service account routes. Any authenticated
// active user can manage their own record here regardless of role.
func RegisterProfile(e *echo.Echo, auth *service.AuthService, profile *service.ProfileService, uploader *service.ImageUploader, secureCookies bool) {
	h := &ProfileHandler{profile: profile, uploader: uploader, secure: secureCookies}

	g := e.Group("/api/v1/profile", RequireAuth(auth), CheckActive())
	g.GET("", h.get)
	g.PATCH("", h.update)
	g.PATCH("/create-password", h.createPassword)
	g.PATCH("/change-password", h.changePassword)
}

func (h *ProfileHandler) get(c echo.Context) error {
	user, _ := CurrentUser(c)
	return c.JSON(http.StatusOK, util.Data(user.Sanitized()))
}

// update changes the caller's display name and avatar. A multipart form may
// carry the new avatar file; a JSON body may carry an image URL directly.
func (h *ProfileHandler) update(c echo.Context) error {
	current, _ := CurrentUser(c)

	var name, image *string
	contentType := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if v := strings.TrimSpace(c.FormValue("name")); v != "" {
			name = &v
		}
		if header, err := c.FormFile("image"); err == nil {
			upload, closer, err := openUpload(header)
			if err != nil {
				return err
			}
			defer closer.Close()
			url, err := h.uploader.Upload(c.Request().Context(), upload)
			if err != nil {
				return err
			}
			image = &url
		}
	} else {
		var req struct {
			Name  *string `json:"name"`
			Image *string `json:"image"`
		}
		if err := c.Bind(&req); err != nil {
			return apperr.New(apperr.Validation, "invalid request body")
		}
		name, image = req.Name, req.Image
	}

	if name == nil && image == nil {
		return apperr.New(apperr.Validation, "nothing to update")
	}

	user, err := h.profile.Update(c.Request().Context(), current.ID, name, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Data(user.Sanitized()))
}

func (h *ProfileHandler) createPassword(c echo.Context) error {
	current, _ := CurrentUser(c)
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	user, err := h.profile.CreatePassword(c.Request().Context(), current.ID, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Data(user.Sanitized()))
}

// changePassword rotates the caller's password. The response carries a fresh
// access token since the old one is invalidated by the change.
func (h *ProfileHandler) changePassword(c echo.Context) error {
	current, _ := CurrentUser(c)
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	user, access, err := h.profile.ChangePassword(c.Request().Context(), current.ID, req.Password)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     accessCookie,
		Value:    access,
		Path:     "/",
		Expires:  time.Now().Add(token.AccessTTL),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, util.Envelope{
		"data":  user.Sanitized(),
		"token": access,
	})
}
