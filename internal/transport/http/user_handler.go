package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/util"
)

type UserHandler struct {
	*CrudHandler[domain.User]
	users *service.UserService
}

// RegisterUsers mounts the admin account-management routes. Admins manage
// other accounts here; their own account goes through the profile routes, so
// every mutating route refuses the caller's own id.
func RegisterUsers(e *echo.Echo, auth *service.AuthService, users *service.UserService) {
	h := &UserHandler{
		CrudHandler: NewCrudHandler(users.Crud()),
		users:       users,
	}

	g := e.Group("/api/v1/users", RequireAuth(auth), CheckActive(), AllowedTo(domain.RoleAdmin))
	g.GET("", h.List)
	g.GET("/list", h.ListAll)
	g.POST("", h.create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PATCH("/:id/change-password", h.changePassword)
}

func (h *UserHandler) create(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	user, err := h.users.Create(c.Request().Context(), req.Email, req.Name, req.Password, domain.ParseRole(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, util.Data(user.Sanitized()))
}

func (h *UserHandler) update(c echo.Context) error {
	if err := h.notSelf(c); err != nil {
		return err
	}
	return h.Update(c)
}

func (h *UserHandler) delete(c echo.Context) error {
	if err := h.notSelf(c); err != nil {
		return err
	}
	return h.Delete(c)
}

func (h *UserHandler) changePassword(c echo.Context) error {
	if err := h.notSelf(c); err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	user, err := h.users.ChangePassword(c.Request().Context(), id, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Data(user.Sanitized()))
}

func (h *UserHandler) notSelf(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return apperr.New(apperr.InvalidToken, "authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.Validation, "id must be a valid UUID")
	}
	if id == user.ID {
		return apperr.New(apperr.Forbidden, "use the profile routes to modify your own account")
	}
	return nil
}
