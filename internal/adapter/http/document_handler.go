package http

import (
	"net/http"

	domain "loan-origination/internal/domain/document"
	"loan-origination/internal/usecase/document"

	"github.com/labstack/echo/v4"
)

type DocumentHandler struct{ uc *document.Usecase }

func NewDocumentHandler(uc *document.Usecase) *DocumentHandler { return &DocumentHandler{uc: uc} }

// Upload takes multipart fields file, type and optional loan_application_id.
func (h *DocumentHandler) Upload(c echo.Context) error {
	appID := c.FormValue("loan_application_id")
	if appID != "" && !reHex32.MatchString(appID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid loan_application_id",
			Details: []FieldError{{Field: "loan_application_id", Message: "must be 32-char lowercase hex"}},
		})
	}
	file, err := formFile(c)
	if err != nil {
		return fail(c, err)
	}
	defer file.body.Close()

	doc, err := h.uc.Upload(c.Request().Context(), caller(c), document.UploadInput{
		Type:          domain.Type(c.FormValue("type")),
		FileName:      file.name,
		ContentType:   file.contentType,
		Size:          file.size,
		Body:          file.body,
		ApplicationID: appID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	if err := h.uc.Remove(c.Request().Context(), caller(c), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns the documents of an application, or the caller's unscoped
// documents when loan_application_id is absent.
func (h *DocumentHandler) List(c echo.Context) error {
	appID := c.QueryParam("loan_application_id")
	if appID != "" && !reHex32.MatchString(appID) {
		return badPathID(c, "loan_application_id")
	}
	docs, err := h.uc.List(c.Request().Context(), caller(c), appID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) Checklist(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	out, err := h.uc.Checklist(c.Request().Context(), caller(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type reviewDocumentReq struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Reason string `json:"reason"`
}

func (h *DocumentHandler) Review(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	var req reviewDocumentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	doc, err := h.uc.Review(c.Request().Context(), caller(c), document.ReviewInput{
		DocumentID: id,
		Status:     domain.Status(req.Status),
		Reason:     req.Reason,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}
