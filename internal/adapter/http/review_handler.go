package http

import (
	"net/http"

	"loan-origination/internal/usecase/review"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct{ uc *review.Usecase }

func NewReviewHandler(uc *review.Usecase) *ReviewHandler { return &ReviewHandler{uc: uc} }

type reviewReq struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// text prefers the field the action documents, then the other one.
func (r reviewReq) text(primary string) string {
	if primary == "reason" {
		if r.Reason != "" {
			return r.Reason
		}
		return r.Message
	}
	if r.Message != "" {
		return r.Message
	}
	return r.Reason
}

// bind reads the path id and the optional body. ok is false when a
// response was already written.
func (h *ReviewHandler) bind(c echo.Context) (string, reviewReq, bool, error) {
	id, ok := pathID(c, "id")
	if !ok {
		return "", reviewReq{}, false, badPathID(c, "id")
	}
	var req reviewReq
	// an empty body is a valid "no message"
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return "", reviewReq{}, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		}
	}
	return id, req, true, nil
}

func (h *ReviewHandler) Approve(c echo.Context) error {
	id, req, ok, err := h.bind(c)
	if !ok {
		return err
	}
	out, err := h.uc.Approve(c.Request().Context(), caller(c), id, req.text("message"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) Reject(c echo.Context) error {
	id, req, ok, err := h.bind(c)
	if !ok {
		return err
	}
	out, err := h.uc.Reject(c.Request().Context(), caller(c), id, req.text("reason"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) RequestInfo(c echo.Context) error {
	id, req, ok, err := h.bind(c)
	if !ok {
		return err
	}
	out, err := h.uc.RequestInfo(c.Request().Context(), caller(c), id, req.text("message"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
