package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bimbi-gallery/gallery/internal/models"
)

// LocalStore keeps one JSON document per painting in a directory
type LocalStore struct {
	dir string
}

// NewLocalStore creates <root>/<collection>
func NewLocalStore(root, collection string) (*LocalStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	dir := filepath.Join(root, collection)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid catalog identifier %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *LocalStore) Exists(ctx context.Context, id string) (bool, error) {
	path, err := s.path(id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check catalog item: %w", err)
	}
	return true, nil
}

func (s *LocalStore) Put(ctx context.Context, item *models.CatalogItem) error {
	path, err := s.path(item.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog item: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog item: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit catalog item: %w", err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, id string) (*models.CatalogItem, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.read(path)
}

func (s *LocalStore) read(path string) (*models.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read catalog item: %w", err)
	}

	var item models.CatalogItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to decode catalog item %s: %w", filepath.Base(path), err)
	}
	return &item, nil
}

func (s *LocalStore) List(ctx context.Context) ([]models.CatalogItem, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		item, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			// Skip corrupted documents but keep listing
			slog.Warn("Skipping unreadable catalog document", "file", entry.Name(), "err", err)
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

func (s *LocalStore) ListNewestFirst(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(items)
	return items, nil
}

func (s *LocalStore) Close() error {
	return nil
}
