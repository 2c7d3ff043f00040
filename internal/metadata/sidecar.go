package metadata

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Extension is the file extension of sidecar metadata files
const Extension = ".yaml"

// Sidecar is the authorial metadata supplied next to a painting image.
// Pointer fields distinguish an absent key from a zero value.
type Sidecar struct {
	Title       *string  `yaml:"title" strict:"required,notblank" validate:"omitempty"`
	Price       *float64 `yaml:"price" strict:"required,gte=0" validate:"omitempty,gte=0"`
	Currency    string   `yaml:"currency,omitempty" strict:"omitempty,len=3" validate:"omitempty,len=3"`
	Width       *float64 `yaml:"width" strict:"required,gte=0" validate:"omitempty,gte=0"`
	Height      *float64 `yaml:"height" strict:"required,gte=0" validate:"omitempty,gte=0"`
	Medium      *string  `yaml:"medium" strict:"required,notblank" validate:"omitempty"`
	Year        *int     `yaml:"year" strict:"required" validate:"omitempty"`
	Description *string  `yaml:"description" strict:"required,notblank" validate:"omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Available   *bool    `yaml:"available,omitempty"`
}

// Load reads a sidecar file. A missing file is reported with os.ErrNotExist.
func Load(path string) (*Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("metadata not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	return Parse(data)
}

// Parse decodes sidecar YAML
func Parse(data []byte) (*Sidecar, error) {
	var sc Sidecar
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse metadata YAML: %w", err)
	}
	return &sc, nil
}
