package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bimbi-gallery/gallery/internal/storage"
	"github.com/go-chi/chi/v5"
)

// HandleMedia serves objects of the local object store with their stored
// content type and cache directive.
func (h *Handler) HandleMedia(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	key := chi.URLParam(r, "*")

	f, meta, err := h.media.Open(bucket, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			http.NotFound(w, r)
			return
		}
		slog.Error("Unable to open media object", "bucket", bucket, "key", key, "err", err)
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Cache-Control", meta.CacheControl)
	http.ServeContent(w, r, key, meta.ModifiedAt, f)
}
