package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bimbi-gallery/gallery/internal/browser"
	"github.com/bimbi-gallery/gallery/internal/catalog"
	"github.com/bimbi-gallery/gallery/internal/models"
	"github.com/bimbi-gallery/gallery/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func painting(id, title string, status models.Status, created time.Time) *models.CatalogItem {
	return &models.CatalogItem{
		ID:           id,
		Title:        title,
		Price:        450,
		Currency:     "EUR",
		Width:        40,
		Height:       30,
		Medium:       "Oil on canvas",
		Year:         2023,
		Description:  "Warm evening light.",
		Available:    status == models.StatusAvailable,
		Status:       status,
		ImageURL:     "https://storage.googleapis.com/b/paintings/" + id + ".jpg",
		ThumbnailURL: "https://storage.googleapis.com/b/paintings/thumbnails/" + id + ".jpg",
		CreatedAt:    created,
	}
}

func newServer(t *testing.T, reader catalog.Reader, media *storage.Local) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(browser.NewService(reader), media).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func seededStore(t *testing.T) *catalog.MemoryStore {
	t.Helper()
	store := catalog.NewMemoryStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range []*models.CatalogItem{
		painting("A", "Sunset", models.StatusAvailable, base),
		painting("B", "Harbour", models.StatusSold, base.Add(time.Hour)),
	} {
		require.NoError(t, store.Put(context.Background(), p))
	}
	return store
}

func getDoc(t *testing.T, url string) (*http.Response, *goquery.Document) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return resp, doc
}

func TestGalleryPage(t *testing.T) {
	srv := newServer(t, seededStore(t), nil)

	resp, doc := getDoc(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Available Works", doc.Find("section.available h2").Text())
	assert.Equal(t, "Sold Works", doc.Find("section.unavailable h2").Text())

	available := doc.Find("section.available .painting-card")
	require.Equal(t, 1, available.Length())
	href, _ := available.Attr("href")
	assert.Equal(t, "/painting/A", href)
	assert.Equal(t, "Sunset", available.Find(".painting-title").Text())
	assert.Equal(t, "€450", available.Find(".painting-price").Text())
	assert.Equal(t, "40 × 30 cm", available.Find(".painting-details").Text())

	sold := doc.Find("section.unavailable .painting-card")
	require.Equal(t, 1, sold.Length())
	assert.Equal(t, "Sold", sold.Find(".sold-badge").Text())
	assert.Equal(t, 0, sold.Find(".painting-price").Length())
	assert.Equal(t, 0, doc.Find(".empty-state").Length())
}

func TestGalleryPageEmpty(t *testing.T) {
	srv := newServer(t, catalog.NewMemoryStore(), nil)

	resp, doc := getDoc(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "No paintings available yet.", strings.TrimSpace(doc.Find(".empty-state").Text()))
	assert.Equal(t, 0, doc.Find(".gallery-section").Length())
}

type failingReader struct{}

func (failingReader) Get(ctx context.Context, id string) (*models.CatalogItem, error) {
	return nil, errors.New("unavailable")
}

func (failingReader) ListNewestFirst(ctx context.Context) ([]models.CatalogItem, error) {
	return nil, errors.New("unavailable")
}

func (failingReader) List(ctx context.Context) ([]models.CatalogItem, error) {
	return nil, errors.New("unavailable")
}

func TestGalleryPageError(t *testing.T) {
	srv := newServer(t, failingReader{}, nil)

	resp, doc := getDoc(t, srv.URL+"/")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, doc.Find(".error").Text())
	assert.Equal(t, 0, doc.Find(".empty-state").Length())
}

func TestDetailPage(t *testing.T) {
	srv := newServer(t, seededStore(t), nil)

	resp, doc := getDoc(t, srv.URL+"/painting/A")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sunset", doc.Find(".detail-title").Text())
	assert.Equal(t, "Oil on canvas", doc.Find(".detail-medium").Text())
	assert.Equal(t, "2023", doc.Find(".detail-year").Text())
	assert.Equal(t, "€450", doc.Find(".detail-price").Text())
	assert.Equal(t, 1, doc.Find(".inquiry").Length())
	assert.Equal(t, 0, doc.Find(".sold-badge").Length())
	src, _ := doc.Find(".detail-image").Attr("src")
	assert.Equal(t, "https://storage.googleapis.com/b/paintings/A.jpg", src)

	_, doc = getDoc(t, srv.URL+"/painting/B")
	assert.Equal(t, "Sold", doc.Find(".sold-badge").Text())
	assert.Equal(t, "This painting has been sold.", doc.Find(".sold-message").Text())
	assert.Equal(t, 0, doc.Find(".inquiry").Length())
}

func TestDetailPageNotFound(t *testing.T) {
	srv := newServer(t, seededStore(t), nil)

	resp, doc := getDoc(t, srv.URL+"/painting/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Painting not found", doc.Find(".error").Text())
	href, _ := doc.Find("a.back-link").Attr("href")
	assert.Equal(t, "/", href)
}

func TestAPI(t *testing.T) {
	srv := newServer(t, seededStore(t), nil)

	resp, err := http.Get(srv.URL + "/api/paintings")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var list browser.ListView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, browser.StateReady, list.State)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "B", list.Items[0].ID)
	assert.Equal(t, "A", list.Items[1].ID)

	resp, err = http.Get(srv.URL + "/api/paintings/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var detail browser.DetailView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.Equal(t, browser.StateNotFound, detail.State)
}

func TestHealthcheck(t *testing.T) {
	srv := newServer(t, catalog.NewMemoryStore(), nil)

	resp, err := http.Get(srv.URL + "/healthcheck")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMedia(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir(), "http://localhost:8888/media")
	require.NoError(t, err)
	require.NoError(t, local.CreateBucket("gallery"))
	_, err = local.Bucket("gallery").Upload(context.Background(), "paintings/A.jpg", []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	srv := newServer(t, catalog.NewMemoryStore(), local)

	resp, err := http.Get(srv.URL + "/media/gallery/paintings/A.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, storage.CacheControl, resp.Header.Get("Cache-Control"))

	resp, err = http.Get(srv.URL + "/media/gallery/paintings/missing.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{450, "EUR", "€450"},
		{450.5, "eur", "€450,5"},
		{99.99, "", "€99,99"},
		{120, "USD", "USD 120"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.amount, tt.currency))
	}
}

func TestMediaEscapedKey(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir(), "http://localhost:8888/media")
	require.NoError(t, err)
	require.NoError(t, local.CreateBucket("gallery"))
	publicURL, err := local.Bucket("gallery").Upload(context.Background(), "paintings/Pôr do Sol.jpg", []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	srv := newServer(t, catalog.NewMemoryStore(), local)

	resp, err := http.Get(strings.Replace(publicURL, "http://localhost:8888", srv.URL, 1))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
}
