package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrBucketNotFound is returned when none of the bucket candidates exist
var ErrBucketNotFound = errors.New("storage bucket not found")

// BucketNotFoundError lists the names that were tried
type BucketNotFoundError struct {
	Tried []string
}

func (e *BucketNotFoundError) Error() string {
	return fmt.Sprintf(`%s (tried: %s)

Check the bucket name in the Firebase console (Storage section) and set it explicitly:
  GALLERY_STORAGE_BUCKET=<bucket-name> gallery publish
or pass --bucket <bucket-name>`, ErrBucketNotFound, strings.Join(e.Tried, ", "))
}

func (e *BucketNotFoundError) Unwrap() error {
	return ErrBucketNotFound
}

// BucketCandidates returns the bucket names to try, in order.
// An explicit override replaces the default appspot name; the
// firebasestorage.app convention is always tried last.
func BucketCandidates(projectID, override string) []string {
	var names []string
	add := func(name string) {
		if name == "" {
			return
		}
		for _, existing := range names {
			if existing == name {
				return
			}
		}
		names = append(names, name)
	}

	if override != "" {
		add(override)
	} else if projectID != "" {
		add(projectID + ".appspot.com")
	}
	if projectID != "" {
		add(projectID + ".firebasestorage.app")
	}
	return names
}

// ResolveBucket returns the first candidate bucket that exists
func ResolveBucket(ctx context.Context, p Provider, candidates []string) (Bucket, error) {
	for _, name := range candidates {
		exists, err := p.BucketExists(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check bucket %s: %w", name, err)
		}
		if exists {
			slog.Info("Using storage bucket", "bucket", name)
			return p.Bucket(name), nil
		}
		slog.Warn("Storage bucket does not exist", "bucket", name)
	}
	return nil, &BucketNotFoundError{Tried: candidates}
}
