// Package backend assembles the catalog store and object storage for the
// configured backend.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bimbi-gallery/gallery/internal/catalog"
	"github.com/bimbi-gallery/gallery/internal/config"
	"github.com/bimbi-gallery/gallery/internal/firebase"
	"github.com/bimbi-gallery/gallery/internal/storage"
)

// LocalProject names the local bucket when no project id is configured
const LocalProject = "gallery"

// Backend is an open catalog store plus its object storage
type Backend struct {
	Name      string
	ProjectID string
	Store     catalog.Store
	Objects   storage.Provider
	// Media is set for the local backend, whose objects the server exposes
	Media *storage.Local

	bucketOverride string
	close          func() error
}

// Open connects to the backend selected by cfg
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		return openLocal(cfg)
	case config.BackendFirebase:
		return openFirebase(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}

func openFirebase(ctx context.Context, cfg *config.Config) (*Backend, error) {
	app, err := firebase.New(ctx, cfg.CredentialsFile, cfg.ProjectID)
	if err != nil {
		return nil, err
	}

	slog.Info("Connected to Firebase", "project", app.ProjectID, "collection", cfg.Collection)
	return &Backend{
		Name:           config.BackendFirebase,
		ProjectID:      app.ProjectID,
		Store:          catalog.NewFirestoreStore(app.Firestore, cfg.Collection),
		Objects:        storage.NewGCS(app.Storage, cfg.URLBase()),
		bucketOverride: cfg.StorageBucket,
		close:          app.Close,
	}, nil
}

// openLocal keeps the catalog under <LocalDir>/catalog and objects under
// <LocalDir>/objects. The first bucket candidate is created on open.
func openLocal(cfg *config.Config) (*Backend, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = LocalProject
	}

	store, err := catalog.NewLocalStore(filepath.Join(cfg.LocalDir, "catalog"), cfg.Collection)
	if err != nil {
		return nil, err
	}

	objects, err := storage.NewLocal(filepath.Join(cfg.LocalDir, "objects"), cfg.URLBase())
	if err != nil {
		return nil, err
	}

	b := &Backend{
		Name:           config.BackendLocal,
		ProjectID:      projectID,
		Store:          store,
		Objects:        objects,
		Media:          objects,
		bucketOverride: cfg.StorageBucket,
		close:          store.Close,
	}
	if err := objects.CreateBucket(b.BucketCandidates()[0]); err != nil {
		return nil, fmt.Errorf("failed to create local bucket: %w", err)
	}

	slog.Info("Using local backend", "dir", cfg.LocalDir, "collection", cfg.Collection)
	return b, nil
}

// BucketCandidates lists the bucket names to try for this project
func (b *Backend) BucketCandidates() []string {
	return storage.BucketCandidates(b.ProjectID, b.bucketOverride)
}

// ResolveBucket picks the first existing bucket candidate
func (b *Backend) ResolveBucket(ctx context.Context) (storage.Bucket, error) {
	return storage.ResolveBucket(ctx, b.Objects, b.BucketCandidates())
}

func (b *Backend) Close() error {
	return b.close()
}
