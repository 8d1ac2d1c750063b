package http

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"loan-origination/internal/domain/apperr"

	"github.com/labstack/echo/v4"
)

type uploadedFile struct {
	name        string
	contentType string
	size        int64
	body        multipart.File
}

// formFile opens the "file" part. The content type is sniffed from the
// first bytes; the client's declared type is ignored.
func formFile(c echo.Context) (*uploadedFile, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, apperr.Validation("file", "is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, err
	}
	ct, _, _ := mime.ParseMediaType(http.DetectContentType(head[:n]))
	return &uploadedFile{name: fh.Filename, contentType: ct, size: fh.Size, body: f}, nil
}
