package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookfinder/internal/config"
	"bookfinder/internal/testsupport"
)

func seedLeGuin(catalog *testsupport.CatalogServer) {
	catalog.SetVolumes(testsupport.GoogleVolume{
		ID:          "vol-1",
		Title:       "The Left Hand of Darkness",
		Authors:     []string{"Ursula K. Le Guin"},
		Publisher:   "Ace",
		Published:   "1969-03-01",
		Description: "Genly Ai arrives on Gethen.",
		ISBN13:      "9780441478125",
	})
	catalog.SetDocs(
		testsupport.OpenLibraryDoc{
			Key:     "OL59800W",
			Title:   "The Left Hand of Darkness",
			Authors: []string{"Ursula K. Le Guin"},
			Year:    1969,
			ISBN:    "9780441478125",
		},
		testsupport.OpenLibraryDoc{
			Key:         "OL1W",
			Title:       "The Left Hand of Darkness: 50th Anniversary Edition",
			Authors:     []string{"Ursula K. Le Guin"},
			Year:        2019,
			ISBN:        "9780441007318",
			Description: "Anniversary edition.",
		},
	)
}

func TestSearchPrintsTable(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	seedLeGuin(env.catalog)

	out, _, err := runCLI(t, []string{"search", "--title", "The Left Hand of Darkness", "--author", "Ursula K. Le Guin"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "The Left Hand of Darkness")
	requireContains(t, out, "Owned")
	requireContains(t, out, "Results:")
	requireContains(t, out, "2 books from Google Books, Open Library")

	requests := env.catalog.Requests()
	if countPrefix(requests, "/books/v1/volumes") != 1 || countPrefix(requests, "/openlibrary/search.json") != 1 {
		t.Fatalf("expected one search per catalog, got %v", requests)
	}
}

func TestSearchJSONAndAdd(t *testing.T) {
	// A single catalog keeps result order stable across runs.
	env := setupCLITestEnv(t, func(cfg *config.Config) {
		cfg.OpenLibrary.Enabled = false
	})
	env.catalog.SetVolumes(
		testsupport.GoogleVolume{
			ID:          "vol-1",
			Title:       "The Left Hand of Darkness",
			Authors:     []string{"Ursula K. Le Guin"},
			Published:   "1969",
			Description: "Genly Ai arrives on Gethen.",
			ISBN13:      "9780441478125",
		},
		testsupport.GoogleVolume{
			ID:          "vol-2",
			Title:       "The Dispossessed",
			Authors:     []string{"Ursula K. Le Guin"},
			Published:   "1974",
			Description: "Shevek crosses the wall.",
			ISBN13:      "9780060512750",
		},
	)
	args := []string{"search", "--title", "The Left Hand of Darkness", "--author", "Ursula K. Le Guin", "--json"}

	out, stderr, err := runCLI(t, append(args, "--add", "1"), env.configPath)
	if err != nil {
		t.Fatalf("search --add: %v", err)
	}
	requireContains(t, stderr, "[OK] added")

	var results []struct {
		Index       int    `json:"index"`
		Owned       bool   `json:"owned"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode search json: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "The Left Hand of Darkness" || !results[0].Owned || results[1].Owned {
		t.Fatalf("expected only the added result owned: %+v", results)
	}
	if results[1].Index != 2 || results[1].Description == "" {
		t.Fatalf("unexpected second result: %+v", results[1])
	}

	_, stderr, err = runCLI(t, append(args, "--add", "1"), env.configPath)
	if err != nil {
		t.Fatalf("second search --add: %v", err)
	}
	requireContains(t, stderr, "already in the library")

	out, _, err = runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "The Left Hand of Darkness")
	if strings.Contains(out, "The Dispossessed") {
		t.Fatalf("unexpected book in library:\n%s", out)
	}
}

func TestSearchNoResults(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"search", "--title", "Nonexistent Book"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "no matching books found")
}

func TestSearchSurvivesCatalogOutage(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	seedLeGuin(env.catalog)
	env.catalog.FailGoogleBooks(500)

	out, _, err := runCLI(t, []string{"search", "--isbn", "978-0441007318", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var results []map[string]any
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode search json: %v", err)
	}
	// The fake catalog ignores the isbn filter, so OpenLibrary returns both docs.
	if len(results) != 2 {
		t.Fatalf("expected OpenLibrary results despite the outage, got %d", len(results))
	}
	for _, result := range results {
		if result["provenance"] != "open_library" {
			t.Fatalf("unexpected provenance: %v", result["provenance"])
		}
	}
}

func TestSearchArgumentErrors(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	seedLeGuin(env.catalog)

	if _, _, err := runCLI(t, []string{"search"}, env.configPath); err == nil {
		t.Fatal("expected error without a query")
	}
	if _, _, err := runCLI(t, []string{"search", "--title", "Dune", "--limit", "-1"}, env.configPath); err == nil {
		t.Fatal("expected error for negative limit")
	}
	_, _, err := runCLI(t, []string{"search", "--title", "The Left Hand of Darkness", "--add", "9"}, env.configPath)
	if err == nil {
		t.Fatal("expected out-of-range --add error")
	}
	requireContains(t, err.Error(), "out of range")
}

func TestDotEnvSuppliesGoogleBooksKey(t *testing.T) {
	t.Setenv("GOOGLE_BOOKS_API_KEY", "")
	if err := os.Unsetenv("GOOGLE_BOOKS_API_KEY"); err != nil {
		t.Fatalf("unset env: %v", err)
	}
	env := setupCLITestEnv(t, func(cfg *config.Config) {
		cfg.GoogleBooks.APIKey = ""
	})
	seedLeGuin(env.catalog)

	if _, _, err := runCLI(t, []string{"search", "--title", "The Left Hand of Darkness"}, env.configPath); err != nil {
		t.Fatalf("search: %v", err)
	}
	if n := countPrefix(env.catalog.Requests(), "/books/v1/volumes"); n != 0 {
		t.Fatalf("expected Google Books skipped without a key, got %d requests", n)
	}

	if err := os.WriteFile(filepath.Join(env.workDir, ".env"), []byte("GOOGLE_BOOKS_API_KEY=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	if _, _, err := runCLI(t, []string{"search", "--title", "The Left Hand of Darkness"}, env.configPath); err != nil {
		t.Fatalf("search: %v", err)
	}
	if n := countPrefix(env.catalog.Requests(), "/books/v1/volumes"); n != 1 {
		t.Fatalf("expected Google Books queried with the .env key, got %d requests", n)
	}
}
