package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/bimbi-gallery/gallery/internal/browser"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"price":        FormatPrice,
	"cm":           formatCentimeters,
	"emptyMessage": func() string { return browser.EmptyMessage },
	"title": func(v browser.DetailView) string {
		if v.Item != nil {
			return v.Item.Title
		}
		return "Painting not found"
	},
}).ParseFS(templateFS, "templates/*.html"))

func (h *Handler) HandleGallery(w http.ResponseWriter, r *http.Request) {
	view := h.browser.List(r.Context())

	code := http.StatusOK
	if view.State == browser.StateError {
		code = http.StatusInternalServerError
	}
	h.render(w, "gallery.html", code, view)
}

func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	view := h.browser.Detail(r.Context(), chi.URLParam(r, "id"))

	code := http.StatusOK
	switch view.State {
	case browser.StateNotFound:
		code = http.StatusNotFound
	case browser.StateError:
		code = http.StatusInternalServerError
	}
	h.render(w, "detail.html", code, view)
}

func (h *Handler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, "detail.html", http.StatusNotFound, browser.DetailView{State: browser.StateNotFound})
}

// render executes into a buffer first so a template error still yields a clean 500
func (h *Handler) render(w http.ResponseWriter, name string, code int, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Unable to render page", "template", name, "err", err)
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Unable to write page", "template", name, "err", err)
	}
}
