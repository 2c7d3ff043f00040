package models

import "time"

// Status is the sale state of a painting
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
)

// StatusFor maps the sidecar availability flag onto a catalog status
func StatusFor(available bool) Status {
	if available {
		return StatusAvailable
	}
	return StatusSold
}

// CatalogItem represents one published painting
type CatalogItem struct {
	ID            string     `firestore:"id" json:"id" yaml:"id"`
	Title         string     `firestore:"title" json:"title" yaml:"title"`
	Price         float64    `firestore:"price" json:"price" yaml:"price"`
	Currency      string     `firestore:"currency" json:"currency" yaml:"currency"`
	Width         float64    `firestore:"width" json:"width" yaml:"width"`   // cm
	Height        float64    `firestore:"height" json:"height" yaml:"height"` // cm
	Medium        string     `firestore:"medium" json:"medium" yaml:"medium"`
	Year          int        `firestore:"year" json:"year" yaml:"year"`
	Description   string     `firestore:"description" json:"description" yaml:"description"`
	Tags          []string   `firestore:"tags,omitempty" json:"tags,omitempty" yaml:"tags,omitempty"`
	Available     bool       `firestore:"available" json:"available" yaml:"available"`
	Status        Status     `firestore:"status" json:"status" yaml:"status"`
	ImageURL      string     `firestore:"imageUrl" json:"imageUrl" yaml:"imageUrl"`
	ThumbnailURL  string     `firestore:"thumbnailUrl" json:"thumbnailUrl" yaml:"thumbnailUrl"`
	CreatedAt     time.Time  `firestore:"createdAt" json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time  `firestore:"updatedAt" json:"updatedAt" yaml:"updatedAt"`
	ReservedUntil *time.Time `firestore:"reservedUntil,omitempty" json:"reservedUntil,omitempty" yaml:"reservedUntil,omitempty"`
}

// IsAvailable reports whether the painting can still be bought.
// Records without a status fall back to the availability flag.
func (c *CatalogItem) IsAvailable() bool {
	if c.Status == "" {
		return c.Available
	}
	return c.Status == StatusAvailable
}

// Visible reports whether both image variants have been published
func (c *CatalogItem) Visible() bool {
	return c.ImageURL != "" && c.ThumbnailURL != ""
}
