// Package config maps environment variables onto the gallery settings.
// Command flags override the loaded values.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	BackendFirebase = "firebase"
	BackendLocal    = "local"
)

// Config holds the runtime configuration shared by every command
type Config struct {
	Backend string `env:"GALLERY_BACKEND" envDefault:"firebase"`

	// Firebase project
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS" envDefault:"admin/service-account.json"`
	ProjectID       string `env:"GALLERY_PROJECT_ID"`
	StorageBucket   string `env:"GALLERY_STORAGE_BUCKET"`
	Collection      string `env:"GALLERY_COLLECTION" envDefault:"paintings"`

	// Source and archive directories
	ImagesDir            string `env:"GALLERY_IMAGES_DIR" envDefault:"paintings-data/images"`
	MetadataDir          string `env:"GALLERY_METADATA_DIR" envDefault:"paintings-data/metadata"`
	ProcessedImagesDir   string `env:"GALLERY_PROCESSED_IMAGES_DIR"`
	ProcessedMetadataDir string `env:"GALLERY_PROCESSED_METADATA_DIR"`

	// Local backend
	LocalDir string `env:"GALLERY_LOCAL_DIR" envDefault:"data"`

	PublicURLBase string `env:"GALLERY_PUBLIC_URL_BASE"`
	Port          string `env:"PORT" envDefault:"8888"`

	// Description drafting
	Describer    string `env:"GALLERY_DESCRIBER" envDefault:"gemini"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	OllamaURL    string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel  string `env:"OLLAMA_MODEL" envDefault:"llava"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIURL    string `env:"OPENAI_URL"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// Load parses the environment into a Config. Callers apply their flag
// overrides and then call Validate.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFirebase, BackendLocal:
		return nil
	default:
		return fmt.Errorf("unsupported backend: %s (supported: firebase, local)", c.Backend)
	}
}

// URLBase returns the host prefix of public object URLs
func (c *Config) URLBase() string {
	if c.PublicURLBase != "" {
		return c.PublicURLBase
	}
	if c.Backend == BackendLocal {
		return "http://localhost:" + c.Port + "/media"
	}
	return "https://storage.googleapis.com"
}
