package storemock

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"loan-origination/internal/domain/filestore"
)

var _ filestore.FileStore = (*Memory)(nil)

// Memory keeps objects in a map keyed by "mem://<key>".
type Memory struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
	PutErr  error
	Deleted []string
}

func New() *Memory {
	return &Memory{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func (m *Memory) Put(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	loc := "mem://" + key
	m.mu.Lock()
	m.Objects[loc] = b
	m.Types[loc] = contentType
	m.mu.Unlock()
	return loc, nil
}

func (m *Memory) Open(_ context.Context, location string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Objects[location]
	if !ok {
		return nil, filestore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *Memory) Delete(_ context.Context, location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[location]; !ok {
		return filestore.ErrNotFound
	}
	delete(m.Objects, location)
	delete(m.Types, location)
	m.Deleted = append(m.Deleted, location)
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// ErrBoom is a convenience failure for PutErr.
var ErrBoom = errors.New("storemock: put failed")
