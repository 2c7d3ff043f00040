package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bimbi-gallery/gallery/internal/backend"
	"github.com/bimbi-gallery/gallery/internal/browser"
	"github.com/bimbi-gallery/gallery/internal/config"
	"github.com/bimbi-gallery/gallery/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port, backendName string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the public gallery web server",
		Long: `Serves the painting catalog as a public gallery.

The gallery page lists available and sold works, newest first. Each painting
has a detail page at /painting/{id}. The same views are available as JSON
under /api/paintings. With the local backend, uploaded images are served
under /media.`,
		Example: `  # Start server on default port 8888
  gallery serve

  # Serve the local catalog on a custom port
  gallery serve --backend local --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
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

			handler := handlers.New(browser.NewService(b.Store), b.Media)

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Gallery available", "addr", addr, "url", "http://localhost"+addr, "backend", b.Name)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from PORT or 8888)")
	cmd.Flags().StringVar(&backendName, "backend", "", "Storage backend: firebase or local (default from GALLERY_BACKEND)")

	return cmd
}
