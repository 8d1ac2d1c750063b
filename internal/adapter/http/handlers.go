package http

import (
	"net/http"
	"time"

	"loan-origination/internal/adapter/middleware"
	"loan-origination/internal/domain/user"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// caller is the authenticated principal; zero when the route is public.
func caller(c echo.Context) user.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

func pathID(c echo.Context, name string) (string, bool) {
	v := c.Param(name)
	return v, reHex32.MatchString(v)
}

func badPathID(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid path parameter",
		Details: []FieldError{{Field: name, Message: "must be 32-char lowercase hex"}},
	})
}
