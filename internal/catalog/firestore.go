package catalog

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/bimbi-gallery/gallery/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps the catalog in a Firestore collection
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) Exists(ctx context.Context, id string) (bool, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", id, err)
	}
	return snap.Exists(), nil
}

func (s *FirestoreStore) Put(ctx context.Context, item *models.CatalogItem) error {
	if _, err := s.client.Collection(s.collection).Doc(item.ID).Set(ctx, item); err != nil {
		return fmt.Errorf("failed to write %s: %w", item.ID, err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*models.CatalogItem, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", id, err)
	}
	return decode(snap)
}

func (s *FirestoreStore) ListNewestFirst(ctx context.Context) ([]models.CatalogItem, error) {
	query := s.client.Collection(s.collection).OrderBy("createdAt", firestore.Desc)
	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		if code := status.Code(err); code == codes.FailedPrecondition || code == codes.Unimplemented {
			return nil, fmt.Errorf("%w: %v", ErrOrderingUnavailable, err)
		}
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	return decodeAll(snaps)
}

func (s *FirestoreStore) List(ctx context.Context) ([]models.CatalogItem, error) {
	snaps, err := s.client.Collection(s.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	return decodeAll(snaps)
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func decode(snap *firestore.DocumentSnapshot) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := snap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", snap.Ref.ID, err)
	}
	// The document key is authoritative for the identifier
	item.ID = snap.Ref.ID
	return &item, nil
}

func decodeAll(snaps []*firestore.DocumentSnapshot) ([]models.CatalogItem, error) {
	items := make([]models.CatalogItem, 0, len(snaps))
	for _, snap := range snaps {
		item, err := decode(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}
