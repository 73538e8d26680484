package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
)

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

// NewErrorHandler builds the central echo error handler. Every handler and
// middleware returns plain errors; classification happens in one place so the
// wire format stays uniform. In development the underlying error rides along
// in a detail field; in production untyped errors collapse to a generic
// message.
func NewErrorHandler(log zerolog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := apperr.KindOf(err).StatusCode()
		message := apperr.MessageOf(err)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
			if code == http.StatusNotFound {
				message = "route not found"
			}
		}

		body := errorBody{
			StatusCode: code,
			Status:     statusWord(code),
			Message:    message,
		}
		if development {
			body.Detail = err.Error()
		}

		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("uri", c.Request().RequestURI).Int("status", code).Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

func statusWord(code int) string {
	if code >= http.StatusInternalServerError {
		return "error"
	}
	return "fail"
}
