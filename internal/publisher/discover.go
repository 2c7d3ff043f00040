package publisher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bimbi-gallery/gallery/internal/images"
	"github.com/bimbi-gallery/gallery/internal/metadata"
)

// Discovery selects which directory drives a batch
type Discovery int

const (
	// DiscoverImages walks the images directory
	DiscoverImages Discovery = iota
	// DiscoverMetadata walks the metadata directory
	DiscoverMetadata
)

// ParseDiscovery maps a flag value onto a Discovery
func ParseDiscovery(s string) (Discovery, error) {
	switch strings.ToLower(s) {
	case "images", "":
		return DiscoverImages, nil
	case "metadata":
		return DiscoverMetadata, nil
	default:
		return DiscoverImages, fmt.Errorf("unsupported discovery mode: %s (supported: images, metadata)", s)
	}
}

func (p *Publisher) discover() ([]string, error) {
	if p.opts.Discovery == DiscoverMetadata {
		return discoverIDs(p.opts.Layout.MetadataDir, func(name string) bool {
			return filepath.Ext(name) == metadata.Extension
		})
	}
	return discoverIDs(p.opts.Layout.ImagesDir, images.IsImage)
}

// discoverIDs lists base names of matching files in dir, in name order,
// ignoring files starting with "_" or "." and collapsing duplicates.
func discoverIDs(dir string, match func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || !match(name) {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
