package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// GoogleVolume is a minimal Google Books volume for the fake catalog.
type GoogleVolume struct {
	ID          string
	Title       string
	Authors     []string
	Publisher   string
	Published   string
	Description string
	ISBN13      string
}

// OpenLibraryDoc is a minimal OpenLibrary search document for the fake catalog.
type OpenLibraryDoc struct {
	Key         string
	Title       string
	Authors     []string
	Year        int
	Publisher   string
	ISBN        string
	Description string
}

// CatalogServer fakes the Google Books and OpenLibrary HTTP APIs.
type CatalogServer struct {
	server *httptest.Server

	mu          sync.Mutex
	volumes     []GoogleVolume
	docs        []OpenLibraryDoc
	googleCode  int
	openLibCode int
	requests    []string
}

// NewCatalogServer starts a fake catalog and closes it with the test.
func NewCatalogServer(t testing.TB) *CatalogServer {
	t.Helper()
	c := &CatalogServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /books/v1/volumes", c.serveVolumes)
	mux.HandleFunc("GET /openlibrary/search.json", c.serveSearch)
	mux.HandleFunc("GET /openlibrary/works/{id}", c.serveWork)
	c.server = httptest.NewServer(mux)
	t.Cleanup(c.server.Close)
	return c
}

// GoogleBooksURL is the base URL for the Google Books provider.
func (c *CatalogServer) GoogleBooksURL() string { return c.server.URL + "/books/v1" }

// OpenLibraryURL is the base URL for the OpenLibrary provider.
func (c *CatalogServer) OpenLibraryURL() string { return c.server.URL + "/openlibrary" }

// SetVolumes replaces the Google Books result set.
func (c *CatalogServer) SetVolumes(volumes ...GoogleVolume) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volumes = volumes
}

// SetDocs replaces the OpenLibrary result set.
func (c *CatalogServer) SetDocs(docs ...OpenLibraryDoc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = docs
}

// FailGoogleBooks makes every Google Books request answer with status.
func (c *CatalogServer) FailGoogleBooks(status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.googleCode = status
}

// FailOpenLibrary makes every OpenLibrary request answer with status.
func (c *CatalogServer) FailOpenLibrary(status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openLibCode = status
}

// Requests returns the request paths served so far.
func (c *CatalogServer) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

func (c *CatalogServer) record(r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, r.URL.Path)
}

func (c *CatalogServer) serveVolumes(w http.ResponseWriter, r *http.Request) {
	c.record(r)
	c.mu.Lock()
	status, volumes := c.googleCode, append([]GoogleVolume(nil), c.volumes...)
	c.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		return
	}

	type identifier struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	}
	items := make([]map[string]any, 0, len(volumes))
	for _, v := range volumes {
		info := map[string]any{
			"title":         v.Title,
			"authors":       v.Authors,
			"publisher":     v.Publisher,
			"publishedDate": v.Published,
			"description":   v.Description,
		}
		if v.ISBN13 != "" {
			info["industryIdentifiers"] = []identifier{{Type: "ISBN_13", Identifier: v.ISBN13}}
		}
		items = append(items, map[string]any{"id": v.ID, "volumeInfo": info})
	}
	payload := map[string]any{"kind": "books#volumes", "totalItems": len(items)}
	if len(items) > 0 {
		payload["items"] = items
	}
	writeJSON(w, payload)
}

func (c *CatalogServer) serveSearch(w http.ResponseWriter, r *http.Request) {
	c.record(r)
	c.mu.Lock()
	status, docs := c.openLibCode, append([]OpenLibraryDoc(nil), c.docs...)
	c.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		return
	}

	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		doc := map[string]any{
			"key":                "/works/" + d.Key,
			"title":              d.Title,
			"author_name":        d.Authors,
			"first_publish_year": d.Year,
		}
		if d.Publisher != "" {
			doc["publisher"] = []string{d.Publisher}
		}
		if d.ISBN != "" {
			doc["isbn"] = []string{d.ISBN}
		}
		out = append(out, doc)
	}
	writeJSON(w, map[string]any{"numFound": len(out), "docs": out})
}

func (c *CatalogServer) serveWork(w http.ResponseWriter, r *http.Request) {
	c.record(r)
	key := strings.TrimSuffix(r.PathValue("id"), ".json")
	c.mu.Lock()
	status, docs := c.openLibCode, append([]OpenLibraryDoc(nil), c.docs...)
	c.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		return
	}
	for _, d := range docs {
		if d.Key == key {
			writeJSON(w, map[string]any{
				"key":         "/works/" + d.Key,
				"description": map[string]string{"type": "/type/text", "value": d.Description},
			})
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
