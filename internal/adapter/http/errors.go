package http

import (
	"errors"
	"net/http"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/filestore"
	"loan-origination/internal/infrastructure/logger"

	"github.com/labstack/echo/v4"
)

// fail writes the error envelope for a usecase error. Unknown errors are
// logged and hidden behind a 500.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, filestore.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error(c.Request().Context(), "%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(status, ErrorResponse{Error: "internal error"})
	}

	resp := ErrorResponse{Error: apperr.MessageOf(err)}
	if f := apperr.FieldOf(err); f != "" {
		resp.Details = []FieldError{{Field: f, Message: apperr.MessageOf(err)}}
	}
	return c.JSON(status, resp)
}

// bindAndValidate answers 400 for a body that does not parse and for one
// that breaks the request shape; the latter carries per-field details. ok
// is false when a response was already written.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// HTTPErrorHandler renders echo's own errors (404 route, 405, body limit)
// with the same envelope as handler errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = fail(c, err)
		return
	}
	msg := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		msg = s
	}
	_ = c.JSON(he.Code, ErrorResponse{Error: msg})
}
