package config

import (
	"os"
	"testing"
)

// unsetenv clears key for the duration of the test
func unsetenv(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"GALLERY_BACKEND", "GALLERY_PUBLIC_URL_BASE", "PORT", "GOOGLE_APPLICATION_CREDENTIALS", "GALLERY_COLLECTION", "GALLERY_IMAGES_DIR", "GALLERY_METADATA_DIR"} {
		unsetenv(t, key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend != BackendFirebase {
		t.Errorf("expected firebase backend, got %s", cfg.Backend)
	}
	if cfg.CredentialsFile == "" || cfg.Collection != "paintings" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.ImagesDir != "paintings-data/images" || cfg.MetadataDir != "paintings-data/metadata" {
		t.Errorf("unexpected source dirs %s, %s", cfg.ImagesDir, cfg.MetadataDir)
	}
	if got := cfg.URLBase(); got != "https://storage.googleapis.com" {
		t.Errorf("unexpected URL base %s", got)
	}
}

func TestLoadLocal(t *testing.T) {
	t.Setenv("GALLERY_BACKEND", "local")
	unsetenv(t, "GALLERY_PUBLIC_URL_BASE")
	t.Setenv("PORT", "3000")
	t.Setenv("GALLERY_STORAGE_BUCKET", "gallery")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StorageBucket != "gallery" {
		t.Errorf("expected bucket override, got %s", cfg.StorageBucket)
	}
	if got := cfg.URLBase(); got != "http://localhost:3000/media" {
		t.Errorf("unexpected URL base %s", got)
	}

	t.Setenv("GALLERY_PUBLIC_URL_BASE", "https://cdn.example.com")
	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.URLBase(); got != "https://cdn.example.com" {
		t.Errorf("expected explicit URL base, got %s", got)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("GALLERY_BACKEND", "s3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg.Backend = BackendLocal
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected an override to fix the backend, got %v", err)
	}
}
