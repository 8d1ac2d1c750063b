package http

import (
	"fmt"
	"mime"
	"net/http"
	"path"

	"loan-origination/internal/usecase/contract"

	"github.com/labstack/echo/v4"
)

type ContractHandler struct{ uc *contract.Usecase }

func NewContractHandler(uc *contract.Usecase) *ContractHandler { return &ContractHandler{uc: uc} }

func (h *ContractHandler) ForApplication(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	out, err := h.uc.ForApplication(c.Request().Context(), caller(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	out, err := h.uc.Get(c.Request().Context(), caller(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Document streams the generated agreement.
func (h *ContractHandler) Document(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	rc, ct, err := h.uc.Open(c.Request().Context(), caller(c), id)
	if err != nil {
		return fail(c, err)
	}
	defer rc.Close()

	ext := path.Ext(ct.FileURL)
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		mt = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", ct.ContractNumber+ext))
	return c.Stream(http.StatusOK, mt, rc)
}

type signReq struct {
	SignedFileURL string `json:"signed_file_url" validate:"required,url"`
}

func (h *ContractHandler) Sign(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	var req signReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Sign(c.Request().Context(), caller(c), id, req.SignedFileURL)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// SignedUpload takes the signed PDF as multipart field "file".
func (h *ContractHandler) SignedUpload(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	file, err := formFile(c)
	if err != nil {
		return fail(c, err)
	}
	defer file.body.Close()

	out, err := h.uc.UploadSigned(c.Request().Context(), caller(c), id, contract.SignedUpload{
		FileName:    file.name,
		ContentType: file.contentType,
		Size:        file.size,
		Body:        file.body,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) Send(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	out, err := h.uc.Send(c.Request().Context(), caller(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type verifyReq struct {
	Decision string `json:"decision" validate:"required,oneof=verified rejected"`
	Reason   string `json:"reason"`
}

func (h *ContractHandler) Verify(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	var req verifyReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Verify(c.Request().Context(), caller(c), contract.VerifyInput{
		ContractID: id,
		Decision:   req.Decision,
		Reason:     req.Reason,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
