// Package browser builds the read-only views of the public gallery.
//
// Every view is fetched fresh from the catalog on request. A view is either
// exactly one of ready, empty, not found or error, never a mix.
package browser

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bimbi-gallery/gallery/internal/catalog"
	"github.com/bimbi-gallery/gallery/internal/models"
)

// State is the render state of a view
type State string

const (
	// StateLoading is the zero state before a fetch resolves
	StateLoading  State = ""
	StateReady    State = "ready"
	StateEmpty    State = "empty"
	StateNotFound State = "not_found"
	StateError    State = "error"
)

// Message shown when the catalog holds nothing visible
const EmptyMessage = "No paintings available yet."

// ListView is the gallery overview
type ListView struct {
	State       State                `json:"state"`
	Items       []models.CatalogItem `json:"items"`
	Available   []models.CatalogItem `json:"available"`
	Unavailable []models.CatalogItem `json:"unavailable"`
	Error       string               `json:"error,omitempty"`
}

// DetailView is a single painting page
type DetailView struct {
	State State               `json:"state"`
	Item  *models.CatalogItem `json:"item,omitempty"`
	Error string              `json:"error,omitempty"`
}

// Service reads the catalog for the browser
type Service struct {
	reader catalog.Reader
}

func NewService(reader catalog.Reader) *Service {
	return &Service{reader: reader}
}

// List returns all visible items newest first, split by availability
func (s *Service) List(ctx context.Context) ListView {
	items, err := catalog.ListOrdered(ctx, s.reader)
	if err != nil {
		slog.Error("Failed to load catalog", "err", err)
		return ListView{State: StateError, Error: "Failed to load paintings. Please try again later."}
	}

	view := ListView{
		Items:       []models.CatalogItem{},
		Available:   []models.CatalogItem{},
		Unavailable: []models.CatalogItem{},
	}
	for _, item := range items {
		if !item.Visible() {
			slog.Debug("Hiding painting without images", "id", item.ID)
			continue
		}
		view.Items = append(view.Items, item)
		if item.IsAvailable() {
			view.Available = append(view.Available, item)
		} else {
			view.Unavailable = append(view.Unavailable, item)
		}
	}

	if len(view.Items) == 0 {
		view.State = StateEmpty
		return view
	}
	view.State = StateReady
	return view
}

// Detail returns one painting. Unknown ids and records without image URLs
// yield StateNotFound.
func (s *Service) Detail(ctx context.Context, id string) DetailView {
	item, err := s.reader.Get(ctx, id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return DetailView{State: StateNotFound}
	case err != nil:
		slog.Error("Failed to load painting", "id", id, "err", err)
		return DetailView{State: StateError, Error: "Failed to load painting. Please try again later."}
	case !item.Visible():
		return DetailView{State: StateNotFound}
	}
	return DetailView{State: StateReady, Item: item}
}
