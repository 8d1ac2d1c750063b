package filestore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("filestore: object not found")

// FileStore keeps uploaded and generated files. Put returns an opaque
// location that Open and Delete accept back.
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (location string, err error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Delete(ctx context.Context, location string) error
}
