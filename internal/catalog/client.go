package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/bimbi-gallery/gallery/internal/models"
)

// DefaultCollection holds one document per painting
const DefaultCollection = "paintings"

var (
	// ErrNotFound is returned when no record exists for an identifier
	ErrNotFound = errors.New("catalog item not found")
	// ErrOrderingUnavailable is returned when the store cannot order a query
	ErrOrderingUnavailable = errors.New("ordered query unavailable")
)

// Registry is the write side used by the publisher
type Registry interface {
	Exists(ctx context.Context, id string) (bool, error)
	Put(ctx context.Context, item *models.CatalogItem) error
}

// Reader is the read side used by the browser
type Reader interface {
	Get(ctx context.Context, id string) (*models.CatalogItem, error)
	// ListNewestFirst asks the store to order by createdAt descending
	ListNewestFirst(ctx context.Context) ([]models.CatalogItem, error)
	// List returns every record in store order
	List(ctx context.Context) ([]models.CatalogItem, error)
}

// Store is a complete catalog backend
type Store interface {
	Registry
	Reader
	Close() error
}

// SortNewestFirst orders items by createdAt descending, keeping ties stable
func SortNewestFirst(items []models.CatalogItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// ListOrdered returns every record newest first. When the store cannot order
// the query the records are fetched unordered and sorted locally.
func ListOrdered(ctx context.Context, r Reader) ([]models.CatalogItem, error) {
	items, err := r.ListNewestFirst(ctx)
	if err == nil {
		return items, nil
	}

	slog.Warn("Ordered catalog query failed, sorting locally", "err", err)
	items, err = r.List(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(items)
	return items, nil
}
