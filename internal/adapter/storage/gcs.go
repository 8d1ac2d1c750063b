package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"loan-origination/internal/domain/filestore"
	"loan-origination/internal/infrastructure/logger"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores objects in one bucket. Locations are gs://<bucket>/<key>.
type GCS struct {
	Client     *gcs.Client
	BucketName string
}

func NewGCS(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCS, error) {
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCS{Client: client, BucketName: bucket}, nil
}

func (g *GCS) Close(ctx context.Context) {
	if g.Client == nil {
		return
	}
	if err := g.Client.Close(); err != nil {
		logger.Error(ctx, "closing gcs client: %v", err)
	}
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	w := g.Client.Bucket(g.BucketName).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		logger.Error(ctx, "uploading %s to gcs: %v", key, err)
		return "", err
	}
	if err := w.Close(); err != nil {
		logger.Error(ctx, "closing gcs writer for %s: %v", key, err)
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", g.BucketName, key), nil
}

func (g *GCS) object(location string) (*gcs.ObjectHandle, error) {
	rest, ok := strings.CutPrefix(location, "gs://")
	if !ok {
		return nil, fmt.Errorf("not a gcs location: %q", location)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || key == "" {
		return nil, fmt.Errorf("not a gcs location: %q", location)
	}
	return g.Client.Bucket(bucket).Object(key), nil
}

func (g *GCS) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	obj, err := g.object(location)
	if err != nil {
		return nil, err
	}
	rc, err := obj.NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, filestore.ErrNotFound
	}
	return rc, err
}

func (g *GCS) Delete(ctx context.Context, location string) error {
	obj, err := g.object(location)
	if err != nil {
		return err
	}
	if err := obj.Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return err
	}
	return nil
}
