package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	// CacheControl is attached to every uploaded object
	CacheControl = "public, max-age=31536000"
	// DefaultURLBase is the public host of Google Cloud Storage objects
	DefaultURLBase = "https://storage.googleapis.com"

	keyPrefix = "paintings"
)

// Bucket stores publicly readable objects
type Bucket interface {
	Name() string
	// Upload stores data under key and returns its public URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Provider opens buckets and checks whether they exist
type Provider interface {
	BucketExists(ctx context.Context, name string) (bool, error)
	Bucket(name string) Bucket
}

// PublicURL joins the storage host, bucket name and object key.
// Key segments are path-escaped.
func PublicURL(base, bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

// KeyScheme decides the object keys of a painting's image variants
type KeyScheme string

const (
	// ThumbnailsDir stores thumbnails as paintings/thumbnails/{id}.jpg
	ThumbnailsDir KeyScheme = "thumbnails"
	// ThumbsSuffix stores thumbnails as paintings/thumbs/{id}_thumb.jpg
	ThumbsSuffix KeyScheme = "thumbs"
)

// ParseKeyScheme maps a flag value onto a KeyScheme
func ParseKeyScheme(s string) (KeyScheme, error) {
	switch KeyScheme(s) {
	case ThumbnailsDir, "":
		return ThumbnailsDir, nil
	case ThumbsSuffix:
		return ThumbsSuffix, nil
	default:
		return "", fmt.Errorf("unsupported thumbnail layout: %s (supported: thumbnails, thumbs)", s)
	}
}

// OriginalKey returns the key of the original image, keeping its extension
func (k KeyScheme) OriginalKey(id, ext string) string {
	return keyPrefix + "/" + id + ext
}

// ThumbnailKey returns the key of the JPEG thumbnail
func (k KeyScheme) ThumbnailKey(id string) string {
	if k == ThumbsSuffix {
		return keyPrefix + "/thumbs/" + id + "_thumb.jpg"
	}
	return keyPrefix + "/thumbnails/" + id + ".jpg"
}
