package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/util"
)

// CrudHandler exposes the shared list and single-record operations of a
// resource. Concrete handlers mount the routes they want and add their own
// on top; shaping per resource stays in the service layer.
type CrudHandler[T any] struct {
	crud *service.CrudService[T]
}

func NewCrudHandler[T any](crud *service.CrudService[T]) *CrudHandler[T] {
	return &CrudHandler[T]{crud: crud}
}

func (h *CrudHandler[T]) List(c echo.Context) error {
	result, err := h.crud.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"data":       result.Data,
		"length":     result.Length,
		"pagination": result.Pagination,
	})
}

func (h *CrudHandler[T]) ListAll(c echo.Context) error {
	documents, err := h.crud.ListAll(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"data":   documents,
		"length": len(documents),
	})
}

func (h *CrudHandler[T]) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	record, err := h.crud.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Data(record))
}

func (h *CrudHandler[T]) Create(c echo.Context) error {
	fields, err := bindFields(c)
	if err != nil {
		return err
	}
	record, err := h.crud.Create(c.Request().Context(), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, util.Data(record))
}

func (h *CrudHandler[T]) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}
	record, err := h.crud.Update(c.Request().Context(), id, fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Data(record))
}

func (h *CrudHandler[T]) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.crud.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.New(apperr.Validation, "id must be a valid UUID")
	}
	return id, nil
}

func bindFields(c echo.Context) (map[string]any, error) {
	fields := map[string]any{}
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
		return nil, apperr.New(apperr.Validation, "invalid request body")
	}
	if len(fields) == 0 {
		return nil, apperr.New(apperr.Validation, "request body must not be empty")
	}
	return fields, nil
}
