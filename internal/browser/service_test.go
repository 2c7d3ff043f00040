package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bimbi-gallery/gallery/internal/catalog"
	"github.com/bimbi-gallery/gallery/internal/models"
)

func item(id string, status models.Status, created time.Time) *models.CatalogItem {
	return &models.CatalogItem{
		ID:           id,
		Title:        "Painting " + id,
		Status:       status,
		Available:    status == models.StatusAvailable,
		ImageURL:     "https://example.test/" + id + ".jpg",
		ThumbnailURL: "https://example.test/thumbs/" + id + ".jpg",
		CreatedAt:    created,
	}
}

func seed(t *testing.T, store *catalog.MemoryStore) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, it := range []*models.CatalogItem{
		item("old", models.StatusAvailable, base),
		item("sold", models.StatusSold, base.Add(time.Hour)),
		item("new", models.StatusAvailable, base.Add(2*time.Hour)),
		item("held", models.StatusReserved, base.Add(3*time.Hour)),
	} {
		if err := store.Put(context.Background(), it); err != nil {
			t.Fatal(err)
		}
	}
	hidden := item("hidden", models.StatusAvailable, base.Add(4*time.Hour))
	hidden.ThumbnailURL = ""
	if err := store.Put(context.Background(), hidden); err != nil {
		t.Fatal(err)
	}
}

func ids(items []models.CatalogItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestList(t *testing.T) {
	tests := []struct {
		name  string
		store *catalog.MemoryStore
	}{
		{"ordered", catalog.NewMemoryStore()},
		{"fallback", catalog.NewMemoryStore().WithoutOrdering()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed(t, tt.store)
			view := NewService(tt.store).List(context.Background())

			if view.State != StateReady {
				t.Fatalf("expected ready, got %q", view.State)
			}
			if got := ids(view.Items); !equal(got, []string{"held", "new", "sold", "old"}) {
				t.Errorf("unexpected order %v", got)
			}
			if got := ids(view.Available); !equal(got, []string{"new", "old"}) {
				t.Errorf("unexpected available %v", got)
			}
			if got := ids(view.Unavailable); !equal(got, []string{"held", "sold"}) {
				t.Errorf("unexpected unavailable %v", got)
			}
		})
	}
}

func TestListEmpty(t *testing.T) {
	view := NewService(catalog.NewMemoryStore()).List(context.Background())
	if view.State != StateEmpty {
		t.Errorf("expected empty, got %q", view.State)
	}
	if view.Items == nil {
		t.Error("expected non-nil items slice")
	}
}

type brokenReader struct{}

func (brokenReader) Get(ctx context.Context, id string) (*models.CatalogItem, error) {
	return nil, errors.New("permission denied")
}

func (brokenReader) ListNewestFirst(ctx context.Context) ([]models.CatalogItem, error) {
	return nil, errors.New("permission denied")
}

func (brokenReader) List(ctx context.Context) ([]models.CatalogItem, error) {
	return nil, errors.New("permission denied")
}

func TestListError(t *testing.T) {
	view := NewService(brokenReader{}).List(context.Background())
	if view.State != StateError {
		t.Errorf("expected error state, got %q", view.State)
	}
	if view.Error == "" {
		t.Error("expected error message")
	}
	if len(view.Items) != 0 {
		t.Error("error view must not carry items")
	}
}

func TestDetail(t *testing.T) {
	store := catalog.NewMemoryStore()
	seed(t, store)
	svc := NewService(store)

	view := svc.Detail(context.Background(), "sold")
	if view.State != StateReady || view.Item == nil || view.Item.ID != "sold" {
		t.Fatalf("unexpected view %+v", view)
	}

	if view := svc.Detail(context.Background(), "missing"); view.State != StateNotFound {
		t.Errorf("expected not_found, got %q", view.State)
	}

	if view := svc.Detail(context.Background(), "hidden"); view.State != StateNotFound || view.Item != nil {
		t.Errorf("expected record without a thumbnail to be not_found, got %+v", view)
	}

	if view := NewService(brokenReader{}).Detail(context.Background(), "x"); view.State != StateError {
		t.Errorf("expected error, got %q", view.State)
	}
}

func TestZeroViewIsLoading(t *testing.T) {
	var view ListView
	if view.State != StateLoading {
		t.Errorf("expected loading zero state, got %q", view.State)
	}
}
