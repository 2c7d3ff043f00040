package catalog

import (
	"context"
	"sync"

	"github.com/bimbi-gallery/gallery/internal/models"
)

// MemoryStore keeps the catalog in process memory
type MemoryStore struct {
	items     map[string]models.CatalogItem
	unordered bool
	mu        sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]models.CatalogItem),
	}
}

// WithoutOrdering makes ListNewestFirst fail like a store missing its index
func (s *MemoryStore) WithoutOrdering() *MemoryStore {
	s.unordered = true
	return s
}

func (s *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.items[id]
	return exists, nil
}

func (s *MemoryStore) Put(ctx context.Context, item *models.CatalogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, exists := s.items[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]models.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.CatalogItem, 0, len(s.items))
	for _, v := range s.items {
		result = append(result, v)
	}
	return result, nil
}

func (s *MemoryStore) ListNewestFirst(ctx context.Context) ([]models.CatalogItem, error) {
	if s.unordered {
		return nil, ErrOrderingUnavailable
	}
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(items)
	return items, nil
}

// Len returns the number of stored records
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) Close() error {
	return nil
}
