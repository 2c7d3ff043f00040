package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	tempDirName = ".tmp"
	metaDirName = ".meta"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

// ObjectMeta is persisted next to every locally stored object
type ObjectMeta struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	Sha256       string    `json:"sha256"`
	ContentType  string    `json:"contentType"`
	CacheControl string    `json:"cacheControl"`
	Public       bool      `json:"public"`
	ModifiedAt   time.Time `json:"modifiedAt"`
}

// Local keeps buckets as directories under a root directory.
// A bucket exists when its directory exists.
type Local struct {
	root    string
	urlBase string
}

// NewLocal creates the root directory layout
func NewLocal(root, urlBase string) (*Local, error) {
	root = filepath.Clean(root)
	for _, dir := range []string{root, filepath.Join(root, tempDirName), filepath.Join(root, metaDirName)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &Local{root: root, urlBase: urlBase}, nil
}

func (l *Local) BucketExists(ctx context.Context, name string) (bool, error) {
	if err := validateBucketName(name); err != nil {
		return false, err
	}
	info, err := os.Stat(filepath.Join(l.root, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// CreateBucket creates the bucket directory
func (l *Local) CreateBucket(name string) error {
	if err := validateBucketName(name); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(l.root, name), 0755)
}

func (l *Local) Bucket(name string) Bucket {
	return &localBucket{store: l, name: name}
}

// Open returns the object data and its metadata
func (l *Local) Open(bucket, key string) (*os.File, *ObjectMeta, error) {
	if err := validateBucketName(bucket); err != nil {
		return nil, nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, nil, err
	}

	meta, err := l.readMeta(bucket, key)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(l.root, bucket, filepath.FromSlash(key)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("object %s/%s: %w", bucket, key, ErrObjectNotFound)
		}
		return nil, nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, meta, nil
}

func (l *Local) metaPath(bucket, key string) string {
	return filepath.Join(l.root, metaDirName, bucket, filepath.FromSlash(key)+".json")
}

func (l *Local) readMeta(bucket, key string) (*ObjectMeta, error) {
	data, err := os.ReadFile(l.metaPath(bucket, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("object %s/%s: %w", bucket, key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to read object metadata: %w", err)
	}

	var meta ObjectMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode object metadata: %w", err)
	}
	return &meta, nil
}

type localBucket struct {
	store *Local
	name  string
}

func (b *localBucket) Name() string {
	return b.name
}

// Upload writes to a temp file first and renames it into place so readers
// never observe a partial object.
func (b *localBucket) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dataPath := filepath.Join(b.store.root, b.name, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dataPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Join(b.store.root, tempDirName), "upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	sum := sha256.Sum256(data)
	meta := ObjectMeta{
		Key:          key,
		Size:         int64(len(data)),
		Sha256:       hex.EncodeToString(sum[:]),
		ContentType:  contentType,
		CacheControl: CacheControl,
		Public:       true,
		ModifiedAt:   time.Now(),
	}
	metaPath := b.store.metaPath(b.name, key)
	if err := os.MkdirAll(filepath.Dir(metaPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}
	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode object metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, encoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write object metadata: %w", err)
	}

	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return "", fmt.Errorf("failed to commit object: %w", err)
	}

	return PublicURL(b.store.urlBase, b.name, key), nil
}

func validateBucketName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return fmt.Errorf("bucket %q: %w", name, ErrInvalidKey)
	}
	return nil
}

// validateKey rejects keys that would escape the bucket directory.
// Any other UTF-8 name is accepted, as it is by Cloud Storage.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty key: %w", ErrInvalidKey)
	}
	if !utf8.ValidString(key) || strings.ContainsAny(key, "\x00\\") {
		return fmt.Errorf("key %q: %w", key, ErrInvalidKey)
	}
	for _, segment := range strings.Split(key, "/") {
		switch segment {
		case "":
			return fmt.Errorf("key %q has misplaced slashes: %w", key, ErrInvalidKey)
		case ".", "..":
			return fmt.Errorf("key %q: %w", key, ErrInvalidKey)
		}
	}
	return nil
}
