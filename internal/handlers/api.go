package handlers

import (
	"net/http"

	"github.com/bimbi-gallery/gallery/internal/browser"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) HandleListAPI(w http.ResponseWriter, r *http.Request) {
	view := h.browser.List(r.Context())

	code := http.StatusOK
	if view.State == browser.StateError {
		code = http.StatusInternalServerError
	}
	h.writeJSON(w, code, view)
}

func (h *Handler) HandleDetailAPI(w http.ResponseWriter, r *http.Request) {
	view := h.browser.Detail(r.Context(), chi.URLParam(r, "id"))

	code := http.StatusOK
	switch view.State {
	case browser.StateNotFound:
		code = http.StatusNotFound
	case browser.StateError:
		code = http.StatusInternalServerError
	}
	h.writeJSON(w, code, view)
}
