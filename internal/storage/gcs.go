package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
)

// GCS is a Provider backed by Google Cloud Storage
type GCS struct {
	client  *gcs.Client
	urlBase string
}

// NewGCS wraps an authenticated storage client
func NewGCS(client *gcs.Client, urlBase string) *GCS {
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	return &GCS{client: client, urlBase: urlBase}
}

func (g *GCS) BucketExists(ctx context.Context, name string) (bool, error) {
	_, err := g.client.Bucket(name).Attrs(ctx)
	if errors.Is(err, gcs.ErrBucketNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (g *GCS) Bucket(name string) Bucket {
	return &gcsBucket{handle: g.client.Bucket(name), name: name, urlBase: g.urlBase}
}

type gcsBucket struct {
	handle  *gcs.BucketHandle
	name    string
	urlBase string
}

func (b *gcsBucket) Name() string {
	return b.name
}

func (b *gcsBucket) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	obj := b.handle.Object(key)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = CacheControl
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("failed to make %s public: %w", key, err)
	}

	return PublicURL(b.urlBase, b.name, key), nil
}
