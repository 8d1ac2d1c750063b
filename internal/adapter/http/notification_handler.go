package http

import (
	"net/http"
	"strconv"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/usecase/notification"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct{ uc *notification.Usecase }

func NewNotificationHandler(uc *notification.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fail(c, apperr.Validation("limit", "must be a positive integer"))
		}
		limit = n
	}
	out, err := h.uc.List(c.Request().Context(), caller(c), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
