package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bimbi-gallery/gallery/internal/browser"
	"github.com/bimbi-gallery/gallery/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	browser *browser.Service
	media   *storage.Local
}

// New returns the gallery handler. media may be nil when objects are
// served by the cloud bucket directly.
func New(svc *browser.Service, media *storage.Local) *Handler {
	return &Handler{
		browser: svc,
		media:   media,
	}
}

// Routes mounts every gallery endpoint on a chi router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.HandleGallery)
	r.Get("/painting/{id}", h.HandleDetail)
	r.Get("/api/paintings", h.HandleListAPI)
	r.Get("/api/paintings/{id}", h.HandleDetailAPI)
	if h.media != nil {
		r.Get("/media/{bucket}/*", h.HandleMedia)
	}
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.NotFound(h.HandleNotFound)

	return r
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
