package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"loan-origination/internal/domain/filestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	loc, err := store.Put(ctx, "documents/u1/abc.pdf", bytes.NewReader([]byte("%PDF-1.4")), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "local://documents/u1/abc.pdf", loc)
	assert.FileExists(t, filepath.Join(dir, "documents", "u1", "abc.pdf"))

	rc, err := store.Open(ctx, loc)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "%PDF-1.4", string(body))

	require.NoError(t, store.Delete(ctx, loc))
	_, err = store.Open(ctx, loc)
	assert.ErrorIs(t, err, filestore.ErrNotFound)

	// second delete is fine
	assert.NoError(t, store.Delete(ctx, loc))
}

func TestLocal_KeysStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocal(root)
	require.NoError(t, err)

	loc, err := store.Put(ctx, "../../escape.txt", bytes.NewReader([]byte("x")), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "local://escape.txt", loc)
	assert.FileExists(t, filepath.Join(root, "escape.txt"))

	_, err = os.Stat(filepath.Join(filepath.Dir(root), "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_RejectsForeignLocations(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "gs://bucket/key")
	assert.Error(t, err)
	assert.Error(t, store.Delete(context.Background(), "gs://bucket/key"))

	_, err = store.Put(context.Background(), "", bytes.NewReader(nil), "")
	assert.Error(t, err)
}
