// Package export writes catalog snapshots to disk as YAML or Parquet
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bimbi-gallery/gallery/internal/catalog"
	"github.com/bimbi-gallery/gallery/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Row is the flat Parquet representation of a catalog item
type Row struct {
	ID           string   `parquet:"id"`
	Title        string   `parquet:"title"`
	Price        float64  `parquet:"price"`
	Currency     string   `parquet:"currency"`
	Width        float64  `parquet:"width"`
	Height       float64  `parquet:"height"`
	Medium       string   `parquet:"medium"`
	Year         int64    `parquet:"year"`
	Description  string   `parquet:"description"`
	Tags         []string `parquet:"tags"`
	Available    bool     `parquet:"available"`
	Status       string   `parquet:"status"`
	ImageURL     string   `parquet:"image_url"`
	ThumbnailURL string   `parquet:"thumbnail_url"`
	CreatedAtMs  int64    `parquet:"created_at_ms"`
	UpdatedAtMs  int64    `parquet:"updated_at_ms"`
}

func rowFrom(item models.CatalogItem) Row {
	return Row{
		ID:           item.ID,
		Title:        item.Title,
		Price:        item.Price,
		Currency:     item.Currency,
		Width:        item.Width,
		Height:       item.Height,
		Medium:       item.Medium,
		Year:         int64(item.Year),
		Description:  item.Description,
		Tags:         item.Tags,
		Available:    item.Available,
		Status:       string(item.Status),
		ImageURL:     item.ImageURL,
		ThumbnailURL: item.ThumbnailURL,
		CreatedAtMs:  item.CreatedAt.UnixMilli(),
		UpdatedAtMs:  item.UpdatedAt.UnixMilli(),
	}
}

func (r Row) item() models.CatalogItem {
	return models.CatalogItem{
		ID:           r.ID,
		Title:        r.Title,
		Price:        r.Price,
		Currency:     r.Currency,
		Width:        r.Width,
		Height:       r.Height,
		Medium:       r.Medium,
		Year:         int(r.Year),
		Description:  r.Description,
		Tags:         r.Tags,
		Available:    r.Available,
		Status:       models.Status(r.Status),
		ImageURL:     r.ImageURL,
		ThumbnailURL: r.ThumbnailURL,
		CreatedAt:    time.UnixMilli(r.CreatedAtMs).UTC(),
		UpdatedAt:    time.UnixMilli(r.UpdatedAtMs).UTC(),
	}
}

// Snapshot writes every catalog record, newest first, to path.
// The format follows the file extension.
func Snapshot(ctx context.Context, reader catalog.Reader, path string) (int, error) {
	items, err := catalog.ListOrdered(ctx, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog: %w", err)
	}
	if err := Write(path, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// Write encodes items to path as .yaml/.yml or .parquet
func Write(path string, items []models.CatalogItem) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".parquet":
		return writeParquet(path, items)
	case ".yaml", ".yml":
		return writeYAML(path, items)
	default:
		return fmt.Errorf("unsupported file format: %s (supported: .parquet, .yaml)", ext)
	}
}

// Load reads a snapshot written by Write
func Load(path string) ([]models.CatalogItem, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".parquet":
		return loadParquet(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .yaml)", ext)
	}
}

func writeYAML(path string, items []models.CatalogItem) error {
	data, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	slog.Debug("Wrote YAML snapshot", "path", path, "items", len(items))
	return nil
}

func loadYAML(path string) ([]models.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var items []models.CatalogItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return items, nil
}

func writeParquet(path string, items []models.CatalogItem) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer file.Close()

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, rowFrom(item))
	}

	writer := parquet.NewGenericWriter[Row](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	slog.Debug("Wrote Parquet snapshot", "path", path, "items", len(items))
	return file.Close()
}

func loadParquet(path string) ([]models.CatalogItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	var items []models.CatalogItem
	for {
		rows := make([]Row, 64)
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			items = append(items, row.item())
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return items, nil
}
