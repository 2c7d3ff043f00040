// Package publisher turns a directory of painting images and sidecar
// metadata into catalog records plus two stored image variants per item.
//
// Items are processed strictly one after another. A failing item is counted
// and the batch moves on; nothing is rolled back, so objects uploaded for an
// item whose catalog write failed stay in the bucket until a later run
// overwrites them under the same keys.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bimbi-gallery/gallery/internal/catalog"
	"github.com/bimbi-gallery/gallery/internal/images"
	"github.com/bimbi-gallery/gallery/internal/metadata"
	"github.com/bimbi-gallery/gallery/internal/models"
	"github.com/bimbi-gallery/gallery/internal/providers"
	"github.com/bimbi-gallery/gallery/internal/storage"
)

// ErrNoSources is returned when image discovery finds nothing to publish
var ErrNoSources = errors.New("no source images found")

// Layout locates the source files
type Layout struct {
	ImagesDir   string
	MetadataDir string
}

// Archive locates the directories consumed files are moved to.
// An empty ImagesDir disables archival.
type Archive struct {
	ImagesDir   string
	MetadataDir string
}

func (a Archive) Enabled() bool {
	return a.ImagesDir != ""
}

// Options configures a Publisher
type Options struct {
	Layout    Layout
	Archive   Archive
	Discovery Discovery
	Policy    metadata.Policy
	Keys      storage.KeyScheme
	Describer providers.Describer
	DryRun    bool
	Now       func() time.Time
}

// Publisher runs the per-item publish procedure over a batch
type Publisher struct {
	registry catalog.Registry
	bucket   storage.Bucket
	opts     Options
	resolver metadata.Resolver
}

// New creates a publisher writing records to registry and images to bucket
func New(registry catalog.Registry, bucket storage.Bucket, opts Options) *Publisher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Keys == "" {
		opts.Keys = storage.ThumbnailsDir
	}
	return &Publisher{
		registry: registry,
		bucket:   bucket,
		opts:     opts,
		resolver: metadata.Resolver{Policy: opts.Policy, Now: opts.Now},
	}
}

// Outcome is the result class of one item
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
	OutcomePlanned   Outcome = "planned"
)

// ItemResult describes what happened to one item
type ItemResult struct {
	ID      string
	Outcome Outcome
	Reason  string
	Err     error
	Item    *models.CatalogItem
}

// Report summarises a batch
type Report struct {
	Published int
	Skipped   int
	Failed    int
	Planned   int
	Items     []ItemResult
}

func (r *Report) add(res ItemResult) {
	switch res.Outcome {
	case OutcomePublished:
		r.Published++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	case OutcomePlanned:
		r.Planned++
	}
	r.Items = append(r.Items, res)
}

// Total returns the number of processed items
func (r *Report) Total() int {
	return len(r.Items)
}

// Run discovers the source items and processes them in order
func (p *Publisher) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	ids, err := p.discover()
	if err != nil {
		return report, err
	}

	if len(ids) == 0 {
		if p.opts.Discovery == DiscoverImages {
			return report, fmt.Errorf("%w in %s", ErrNoSources, p.opts.Layout.ImagesDir)
		}
		slog.Warn("No painting metadata files found", "dir", p.opts.Layout.MetadataDir, "hint", "create YAML files like painting-001.yaml")
		return report, nil
	}

	slog.Info("Found paintings to process", "count", len(ids), "policy", p.opts.Policy.String(), "dry_run", p.opts.DryRun)

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		slog.Info("Processing painting", "index", i+1, "total", len(ids), "id", id)
		res := p.ProcessItem(ctx, id)

		switch res.Outcome {
		case OutcomeSkipped:
			slog.Warn("Skipping painting", "id", id, "reason", res.Reason)
		case OutcomeFailed:
			slog.Error("Failed to publish painting", "id", id, "err", res.Err)
		case OutcomePlanned:
			slog.Info("Painting would be published", "id", id)
		case OutcomePublished:
			slog.Info("Published painting", "id", id, "title", res.Item.Title, "price", res.Item.Price, "currency", res.Item.Currency)
		}
		report.add(res)
	}

	return report, nil
}

// ProcessItem runs the publish procedure for a single identifier
func (p *Publisher) ProcessItem(ctx context.Context, id string) ItemResult {
	res := ItemResult{ID: id}

	skip := func(reason string) ItemResult {
		res.Outcome = OutcomeSkipped
		res.Reason = reason
		return res
	}
	fail := func(err error) ItemResult {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	imagePath, err := images.Locate(p.opts.Layout.ImagesDir, id)
	if err != nil {
		return skip("image not found")
	}

	sidecarPath := filepath.Join(p.opts.Layout.MetadataDir, id+metadata.Extension)
	sc, err := metadata.Load(sidecarPath)
	switch {
	case errors.Is(err, os.ErrNotExist) && p.opts.Policy == metadata.Strict:
		return skip("metadata not found: " + sidecarPath)
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("No metadata file, using defaults", "id", id)
		sc, sidecarPath = nil, ""
	case err != nil:
		return fail(err)
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fail(fmt.Errorf("failed to read image: %w", err))
	}

	fields, err := p.resolver.Resolve(sc, func() (int, int, error) {
		return images.Dimensions(data)
	})
	if err != nil {
		return fail(err)
	}

	exists, err := p.registry.Exists(ctx, id)
	if err != nil {
		return fail(fmt.Errorf("failed to check catalog: %w", err))
	}
	if exists {
		return skip("already published")
	}

	if p.opts.DryRun {
		res.Outcome = OutcomePlanned
		return res
	}

	contentType := images.ContentType(data, imagePath)
	if fields.DescriptionDefaulted && p.opts.Describer != nil {
		p.describe(ctx, id, data, contentType, fields)
	}

	thumb, err := images.Thumbnail(data)
	if err != nil {
		return fail(err)
	}

	imageURL, err := p.bucket.Upload(ctx, p.opts.Keys.OriginalKey(id, filepath.Ext(imagePath)), data, contentType)
	if err != nil {
		return fail(fmt.Errorf("failed to upload image: %w", err))
	}
	slog.Debug("Uploaded image", "id", id, "url", imageURL)

	thumbnailURL, err := p.bucket.Upload(ctx, p.opts.Keys.ThumbnailKey(id), thumb, "image/jpeg")
	if err != nil {
		return fail(fmt.Errorf("failed to upload thumbnail: %w", err))
	}
	slog.Debug("Uploaded thumbnail", "id", id, "url", thumbnailURL)

	now := p.opts.Now()
	item := &models.CatalogItem{
		ID:           id,
		Title:        fields.Title,
		Price:        fields.Price,
		Currency:     fields.Currency,
		Width:        fields.Width,
		Height:       fields.Height,
		Medium:       fields.Medium,
		Year:         fields.Year,
		Description:  fields.Description,
		Tags:         fields.Tags,
		Available:    fields.Available,
		Status:       models.StatusFor(fields.Available),
		ImageURL:     imageURL,
		ThumbnailURL: thumbnailURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := p.registry.Put(ctx, item); err != nil {
		return fail(fmt.Errorf("failed to write catalog record: %w", err))
	}

	res.Outcome = OutcomePublished
	res.Item = item

	if p.opts.Archive.Enabled() {
		if err := p.archive(imagePath, sidecarPath); err != nil {
			// The record is written; a later run skips the item via the catalog
			slog.Error("Failed to archive source files", "id", id, "err", err)
		}
	}

	return res
}

func (p *Publisher) describe(ctx context.Context, id string, data []byte, contentType string, fields *metadata.Fields) {
	format := strings.TrimPrefix(contentType, "image/")
	text, err := p.opts.Describer.Describe(ctx, providers.Image{Data: data, Format: format})
	if err != nil {
		slog.Warn("Failed to draft description, keeping placeholder", "id", id, "err", err)
		return
	}
	if text == "" {
		return
	}
	fields.Description = text
	fields.DescriptionDefaulted = false
	slog.Info("Drafted description", "id", id, "length", len(text))
}
