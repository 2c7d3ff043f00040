package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestKeyScheme(t *testing.T) {
	tests := []struct {
		scheme    KeyScheme
		original  string
		thumbnail string
	}{
		{ThumbnailsDir, "paintings/A.jpg", "paintings/thumbnails/A.jpg"},
		{ThumbsSuffix, "paintings/A.jpg", "paintings/thumbs/A_thumb.jpg"},
	}

	for _, tt := range tests {
		if got := tt.scheme.OriginalKey("A", ".jpg"); got != tt.original {
			t.Errorf("%s original key = %s, want %s", tt.scheme, got, tt.original)
		}
		if got := tt.scheme.ThumbnailKey("A"); got != tt.thumbnail {
			t.Errorf("%s thumbnail key = %s, want %s", tt.scheme, got, tt.thumbnail)
		}
	}

	if _, err := ParseKeyScheme("flat"); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL(DefaultURLBase+"/", "demo.appspot.com", "paintings/A.jpg")
	want := "https://storage.googleapis.com/demo.appspot.com/paintings/A.jpg"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBucketCandidates(t *testing.T) {
	tests := []struct {
		name      string
		project   string
		override  string
		candidate []string
	}{
		{"defaults", "demo", "", []string{"demo.appspot.com", "demo.firebasestorage.app"}},
		{"override first", "demo", "custom", []string{"custom", "demo.firebasestorage.app"}},
		{"override equals alternative", "demo", "demo.firebasestorage.app", []string{"demo.firebasestorage.app"}},
		{"no project", "", "custom", []string{"custom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BucketCandidates(tt.project, tt.override)
			if !reflect.DeepEqual(got, tt.candidate) {
				t.Errorf("got %v, want %v", got, tt.candidate)
			}
		})
	}
}

func TestResolveBucket(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "http://localhost/media")
	if err != nil {
		t.Fatal(err)
	}
	candidates := BucketCandidates("demo", "")

	_, err = ResolveBucket(context.Background(), local, candidates)
	if !errors.Is(err, ErrBucketNotFound) {
		t.Fatalf("expected ErrBucketNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "GALLERY_STORAGE_BUCKET") {
		t.Errorf("expected remediation in error, got %q", err.Error())
	}

	if err := local.CreateBucket("demo.firebasestorage.app"); err != nil {
		t.Fatal(err)
	}
	b, err := ResolveBucket(context.Background(), local, candidates)
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != "demo.firebasestorage.app" {
		t.Errorf("expected alternative bucket, got %s", b.Name())
	}

	if err := local.CreateBucket("demo.appspot.com"); err != nil {
		t.Fatal(err)
	}
	b, err = ResolveBucket(context.Background(), local, candidates)
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != "demo.appspot.com" {
		t.Errorf("expected first candidate to win, got %s", b.Name())
	}
}

func TestLocalUploadAndOpen(t *testing.T) {
	root := t.TempDir()
	local, err := NewLocal(root, "http://localhost:8888/media")
	if err != nil {
		t.Fatal(err)
	}
	if err := local.CreateBucket("gallery"); err != nil {
		t.Fatal(err)
	}

	url, err := local.Bucket("gallery").Upload(context.Background(), "paintings/A.jpg", []byte("pixels"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if url != "http://localhost:8888/media/gallery/paintings/A.jpg" {
		t.Errorf("unexpected url %s", url)
	}

	f, meta, err := local.Open("gallery", "paintings/A.jpg")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pixels" {
		t.Errorf("unexpected content %q", data)
	}
	if meta.ContentType != "image/jpeg" || meta.CacheControl != CacheControl || !meta.Public || meta.Size != 6 {
		t.Errorf("unexpected meta %+v", meta)
	}

	entries, err := os.ReadDir(filepath.Join(root, tempDirName))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp files left behind: %d", len(entries))
	}
}

func TestLocalOverwrite(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	b := local.Bucket("gallery")
	ctx := context.Background()

	if _, err := b.Upload(ctx, "paintings/A.jpg", []byte("one"), "image/jpeg"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Upload(ctx, "paintings/A.jpg", []byte("second"), "image/jpeg"); err != nil {
		t.Fatal(err)
	}

	f, meta, err := local.Open("gallery", "paintings/A.jpg")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "second" || meta.Size != 6 {
		t.Errorf("expected overwritten object, got %q (%d)", data, meta.Size)
	}
}

func TestLocalAcceptsSpacesAndAccents(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "http://localhost:8888/media")
	if err != nil {
		t.Fatal(err)
	}
	b := local.Bucket("gallery")
	ctx := context.Background()

	tests := []struct {
		key string
		url string
	}{
		{"paintings/Blue Sea.jpg", "http://localhost:8888/media/gallery/paintings/Blue%20Sea.jpg"},
		{"paintings/Pôr do Sol.jpg", "http://localhost:8888/media/gallery/paintings/P%C3%B4r%20do%20Sol.jpg"},
	}
	for _, tt := range tests {
		got, err := b.Upload(ctx, tt.key, []byte("pixels"), "image/jpeg")
		if err != nil {
			t.Fatalf("key %q: %v", tt.key, err)
		}
		if got != tt.url {
			t.Errorf("key %q: expected url %s, got %s", tt.key, tt.url, got)
		}

		f, _, err := local.Open("gallery", tt.key)
		if err != nil {
			t.Fatalf("key %q: %v", tt.key, err)
		}
		f.Close()
	}
}

func TestLocalRejectsInvalidKeys(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	b := local.Bucket("gallery")

	for _, key := range []string{"", "/abs", "a/../b", "a//b", "a/", "./a", "a\\b", "nul\x00"} {
		if _, err := b.Upload(context.Background(), key, []byte("x"), "text/plain"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}

	if _, _, err := local.Open("gallery", "missing.jpg"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
	if _, err := local.BucketExists(context.Background(), "../etc"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey for traversal bucket, got %v", err)
	}
}
