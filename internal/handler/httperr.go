package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bar-ordering-platform/internal/apperr"
	"bar-ordering-platform/internal/dto"
)

// statusForError maps the closed error taxonomy to HTTP statuses. Upstream
// failures are 500s toward the original caller: the platform, not the
// customer, has to act on them.
func statusForError(err error) int {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Configuration, apperr.Upstream, apperr.Persistence:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	msg := err.Error()
	var e *apperr.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	return c.JSON(statusForError(err), dto.ErrorResponse{Error: msg})
}
