package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/image/draw"
)

const (
	// ThumbnailBound is the maximum length of the longest thumbnail side
	ThumbnailBound = 400
	// ThumbnailQuality is the JPEG quality of generated thumbnails
	ThumbnailQuality = 85
)

// Extensions lists accepted image extensions in lookup priority order
var Extensions = []string{".jpg", ".jpeg", ".png", ".JPG", ".JPEG", ".PNG"}

// ErrNotFound is returned when no candidate image exists for an identifier
var ErrNotFound = errors.New("image not found")

// IsImage reports whether name carries an accepted extension
func IsImage(name string) bool {
	ext := filepath.Ext(name)
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// Locate returns the first existing <dir>/<id><ext> following Extensions
func Locate(dir, id string) (string, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, id+ext)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w for %s in %s", ErrNotFound, id, dir)
}

// Dimensions returns the pixel dimensions of an encoded image
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// FitWithin scales w x h so the longest side is at most bound, never upscaling
func FitWithin(w, h, bound int) (int, int) {
	if w <= bound && h <= bound {
		return w, h
	}

	scale := math.Min(float64(bound)/float64(w), float64(bound)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return max(nw, 1), max(nh, 1)
}

// Thumbnail produces a JPEG rendition of data fitting within ThumbnailBound
func Thumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := FitWithin(bounds.Dx(), bounds.Dy(), ThumbnailBound)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: ThumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType sniffs the MIME type of data, falling back on the file extension
func ContentType(data []byte, filename string) string {
	kind, err := filetype.Match(data)
	if err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return "application/octet-stream"
}
