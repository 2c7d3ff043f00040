package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bimbi-gallery/gallery/internal/backend"
	"github.com/bimbi-gallery/gallery/internal/config"
	"github.com/bimbi-gallery/gallery/internal/gemini"
	"github.com/bimbi-gallery/gallery/internal/metadata"
	"github.com/bimbi-gallery/gallery/internal/ollama"
	"github.com/bimbi-gallery/gallery/internal/openai"
	"github.com/bimbi-gallery/gallery/internal/providers"
	"github.com/bimbi-gallery/gallery/internal/publisher"
	"github.com/bimbi-gallery/gallery/internal/storage"
	"github.com/spf13/cobra"
)

type publishFlags struct {
	backend              string
	bucket               string
	imagesDir            string
	metadataDir          string
	processedImagesDir   string
	processedMetadataDir string
	policy               string
	discover             string
	thumbs               string
	dryRun               bool
	describe             bool
	describer            string
}

func newPublishCmd() *cobra.Command {
	var flags publishFlags

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload new paintings and register them in the catalog",
		Long: `Publishes every painting found in the images directory.

For each painting the metadata file <metadata-dir>/<id>.yaml is validated, a
400px JPEG thumbnail is generated, the original and the thumbnail are uploaded
to the storage bucket and a catalog record is written. Paintings that already
have a record are skipped, so the command can be re-run safely.`,
		Example: `  # Publish with strict metadata validation
  gallery publish

  # Fill missing metadata with defaults and derive sizes from pixels
  gallery publish --policy lenient

  # Walk the metadata directory and use the thumbs/{id}_thumb.jpg layout
  gallery publish --discover metadata --thumbs thumbs

  # Check what would be published without uploading anything
  gallery publish --dry-run

  # Publish into ./data instead of Firebase
  gallery publish --backend local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags.apply(cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return executePublish(cmd.Context(), cmd.OutOrStdout(), cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.backend, "backend", "", "Storage backend: firebase or local (default from GALLERY_BACKEND)")
	cmd.Flags().StringVar(&flags.bucket, "bucket", "", "Storage bucket name (default from GALLERY_STORAGE_BUCKET or the project id)")
	cmd.Flags().StringVar(&flags.imagesDir, "images-dir", "", "Directory of painting images")
	cmd.Flags().StringVar(&flags.metadataDir, "metadata-dir", "", "Directory of YAML metadata files")
	cmd.Flags().StringVar(&flags.processedImagesDir, "processed-images-dir", "", "Move published images here")
	cmd.Flags().StringVar(&flags.processedMetadataDir, "processed-metadata-dir", "", "Move published metadata files here")
	cmd.Flags().StringVar(&flags.policy, "policy", "strict", "Metadata policy: strict or lenient")
	cmd.Flags().StringVar(&flags.discover, "discover", "images", "Discover paintings from: images or metadata")
	cmd.Flags().StringVar(&flags.thumbs, "thumbs", "thumbnails", "Thumbnail key layout: thumbnails or thumbs")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate and report without uploading or writing records")
	cmd.Flags().BoolVar(&flags.describe, "describe", false, "Draft missing descriptions with a vision model (lenient policy)")
	cmd.Flags().StringVar(&flags.describer, "describer", "", "Vision model provider: gemini, ollama or openai (default from GALLERY_DESCRIBER)")

	return cmd
}

func (f publishFlags) apply(cfg *config.Config) {
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	if f.bucket != "" {
		cfg.StorageBucket = f.bucket
	}
	if f.imagesDir != "" {
		cfg.ImagesDir = f.imagesDir
	}
	if f.metadataDir != "" {
		cfg.MetadataDir = f.metadataDir
	}
	if f.processedImagesDir != "" {
		cfg.ProcessedImagesDir = f.processedImagesDir
	}
	if f.processedMetadataDir != "" {
		cfg.ProcessedMetadataDir = f.processedMetadataDir
	}
	if f.describer != "" {
		cfg.Describer = f.describer
	}
}

func executePublish(ctx context.Context, out io.Writer, cfg *config.Config, flags publishFlags) error {
	policy, err := metadata.ParsePolicy(flags.policy)
	if err != nil {
		return err
	}
	discovery, err := publisher.ParseDiscovery(flags.discover)
	if err != nil {
		return err
	}
	keys, err := storage.ParseKeyScheme(flags.thumbs)
	if err != nil {
		return err
	}

	opts := publisher.Options{
		Layout: publisher.Layout{
			ImagesDir:   cfg.ImagesDir,
			MetadataDir: cfg.MetadataDir,
		},
		Archive: publisher.Archive{
			ImagesDir:   cfg.ProcessedImagesDir,
			MetadataDir: cfg.ProcessedMetadataDir,
		},
		Discovery: discovery,
		Policy:    policy,
		Keys:      keys,
		DryRun:    flags.dryRun,
	}

	if flags.describe {
		if policy != metadata.Lenient {
			slog.Warn("Ignoring --describe, descriptions are only drafted under the lenient policy")
		} else {
			describer, err := newDescriber(cfg)
			if err != nil {
				return fmt.Errorf("failed to set up description drafting: %w", err)
			}
			opts.Describer = describer
		}
	}

	slog.Info("Starting publish", "backend", cfg.Backend, "images", cfg.ImagesDir, "metadata", cfg.MetadataDir, "policy", policy.String())

	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	bucket, err := b.ResolveBucket(ctx)
	if err != nil {
		return err
	}

	report, err := publisher.New(b.Store, bucket, opts).Run(ctx)
	if err != nil {
		return err
	}

	printReport(out, report, bucket.Name(), flags.dryRun)
	return nil
}

func newDescriber(cfg *config.Config) (providers.Describer, error) {
	switch cfg.Describer {
	case "gemini", "":
		return gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	case "ollama":
		return ollama.New(cfg.OllamaURL, cfg.OllamaModel), nil
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIURL, cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("unsupported describer: %s (supported: gemini, ollama, openai)", cfg.Describer)
	}
}

func printReport(out io.Writer, report *publisher.Report, bucket string, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "\nDry run complete!\n")
		fmt.Fprintf(out, "  Would publish: %d\n", report.Planned)
	} else {
		fmt.Fprintf(out, "\nPublish complete!\n")
		fmt.Fprintf(out, "  Published: %d\n", report.Published)
	}
	fmt.Fprintf(out, "  Skipped (already published or incomplete): %d\n", report.Skipped)
	fmt.Fprintf(out, "  Errors: %d\n", report.Failed)
	fmt.Fprintf(out, "  Bucket: %s\n", bucket)

	if report.Failed > 0 {
		fmt.Fprintf(out, "\nFailed paintings:\n")
		for _, item := range report.Items {
			if item.Outcome == publisher.OutcomeFailed {
				fmt.Fprintf(out, "  - %s: %v\n", item.ID, item.Err)
			}
		}
	}

	if report.Published > 0 {
		fmt.Fprintf(out, "\nNext steps:\n")
		fmt.Fprintf(out, "  1. Browse the gallery: gallery serve\n")
	}
}
