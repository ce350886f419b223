package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookfinder/internal/library"
	"bookfinder/internal/metadata"
	"bookfinder/internal/testsupport"
)

func seedLibrary(t *testing.T, env *cliTestEnv, records ...metadata.Record) []*library.Entry {
	t.Helper()
	store := testsupport.MustOpenLibrary(t, env.cfg)
	entries := make([]*library.Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, testsupport.MustAdd(t, store, record))
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	return entries
}

func TestLibraryListEmpty(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "library is empty")
}

func TestLibraryListShowRemove(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	dune := testsupport.Book(metadata.ProvenanceGoogleBooks, "Dune", "Frank Herbert", "9780441013593")
	dune.Description = "Arrakis."
	entries := seedLibrary(t, env,
		dune,
		testsupport.Book(metadata.ProvenanceOpenLibrary, "Solaris", "Stanislaw Lem", ""),
	)

	out, _, err := runCLI(t, []string{"library", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("library list --json: %v", err)
	}
	var views []libraryEntryView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode list json: %v", err)
	}
	if len(views) != 2 || views[0].Title != "Dune" || views[0].Source != "google_books" {
		t.Fatalf("unexpected list: %+v", views)
	}

	out, _, err = runCLI(t, []string{"library", "show", entries[0].ShortID()}, env.configPath)
	if err != nil {
		t.Fatalf("library show: %v", err)
	}
	requireContains(t, out, "Frank Herbert")
	requireContains(t, out, "Arrakis.")

	out, _, err = runCLI(t, []string{"library", "remove", entries[1].ShortID()}, env.configPath)
	if err != nil {
		t.Fatalf("library remove: %v", err)
	}
	requireContains(t, out, `Removed "Solaris"`)

	out, _, err = runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	if strings.Contains(out, "Solaris") || !strings.Contains(out, "Dune") {
		t.Fatalf("unexpected list after remove:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"library", "remove", "zzzzzzzz"}, env.configPath); err == nil {
		t.Fatal("expected error removing unknown id")
	}
}

func TestLibraryExportImport(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	seedLibrary(t, env,
		testsupport.Book(metadata.ProvenanceGoogleBooks, "Dune", "Frank Herbert", "9780441013593"),
		testsupport.Book(metadata.ProvenanceOpenLibrary, "Solaris", "Stanislaw Lem", ""),
	)

	exportPath := filepath.Join(env.workDir, "library.yaml")
	if _, _, err := runCLI(t, []string{"library", "export", "--output", exportPath}, env.configPath); err != nil {
		t.Fatalf("library export: %v", err)
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	requireContains(t, string(data), "title: Solaris")

	out, _, err := runCLI(t, []string{"library", "export", "--format", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("library export json: %v", err)
	}
	requireContains(t, out, `"title": "Dune"`)

	out, _, err = runCLI(t, []string{"library", "import", exportPath}, env.configPath)
	if err != nil {
		t.Fatalf("library import: %v", err)
	}
	requireContains(t, out, "Imported 0 books (2 already present)")

	// A fresh library picks up every book.
	other := setupCLITestEnv(t, nil)
	out, _, err = runCLI(t, []string{"library", "import", "--format", "yaml", exportPath}, other.configPath)
	if err != nil {
		t.Fatalf("library import into fresh library: %v", err)
	}
	requireContains(t, out, "Imported 2 books (0 already present)")
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag, path string
		want       library.Format
		wantErr    bool
	}{
		{flag: "", path: "", want: library.FormatJSON},
		{flag: "", path: "books.yml", want: library.FormatYAML},
		{flag: "", path: "books.txt", want: library.FormatJSON},
		{flag: "yaml", path: "books.json", want: library.FormatYAML},
		{flag: "xml", path: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.flag, tt.path)
		if (err != nil) != tt.wantErr {
			t.Fatalf("resolveFormat(%q, %q) error = %v", tt.flag, tt.path, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("resolveFormat(%q, %q) = %q, want %q", tt.flag, tt.path, got, tt.want)
		}
	}
}
