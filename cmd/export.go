package cmd

import (
	"fmt"

	"github.com/bimbi-gallery/gallery/internal/backend"
	"github.com/bimbi-gallery/gallery/internal/config"
	"github.com/bimbi-gallery/gallery/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var output, backendName string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the catalog to a file",
		Long: `Writes every catalog record, newest first, to a YAML or Parquet file.
The format follows the extension of --output.`,
		Example: `  # Back up the catalog as YAML
  gallery export --output catalog.yaml

  # Export the local catalog as Parquet
  gallery export --backend local --output catalog.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if backendName != "" {
				cfg.Backend = backendName
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			b, err := backend.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := export.Snapshot(cmd.Context(), b.Store, output)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d paintings to %s\n", n, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "catalog.yaml", "Output file (.yaml or .parquet)")
	cmd.Flags().StringVar(&backendName, "backend", "", "Storage backend: firebase or local (default from GALLERY_BACKEND)")

	return cmd
}
