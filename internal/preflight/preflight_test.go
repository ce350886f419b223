package preflight_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookfinder/internal/config"
	"bookfinder/internal/preflight"
	"bookfinder/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("expected missing dir failure, got %+v", result)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := preflight.CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckGoogleBooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "good-key" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"totalItems": 1}`))
	}))
	defer srv.Close()

	if result := preflight.CheckGoogleBooks(context.Background(), srv.URL, "good-key"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	result := preflight.CheckGoogleBooks(context.Background(), srv.URL, "bad-key")
	if result.Passed || !strings.Contains(result.Detail, "rejected") {
		t.Fatalf("expected rejected key, got %+v", result)
	}
	result = preflight.CheckGoogleBooks(context.Background(), srv.URL, " ")
	if result.Passed || !result.Skipped {
		t.Fatalf("expected skip without key, got %+v", result)
	}
}

func TestCheckOpenLibrary(t *testing.T) {
	agents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		if r.URL.Query().Get("limit") != "1" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"docs": []}`))
	}))
	defer srv.Close()

	result := preflight.CheckOpenLibrary(context.Background(), srv.URL+"/", "bookfinder-test/1.0")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if userAgent := <-agents; userAgent != "bookfinder-test/1.0" {
		t.Fatalf("expected user agent forwarded, got %q", userAgent)
	}
}

func TestCheckOpenLibrary_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	result := preflight.CheckOpenLibrary(context.Background(), base, "")
	if result.Passed || result.Skipped || !strings.Contains(result.Detail, "unreachable") {
		t.Fatalf("expected unreachable failure, got %+v", result)
	}
}

func TestRunAll(t *testing.T) {
	catalog := testsupport.NewCatalogServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(catalog))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %+v", results)
	}
	if n := preflight.Failed(results); n != 0 {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}

	catalog.FailOpenLibrary(http.StatusServiceUnavailable)
	results = preflight.RunAll(context.Background(), cfg)
	if n := preflight.Failed(results); n != 1 {
		t.Fatalf("expected one failure, got %+v", results)
	}
}

func TestRunAllSkipsDisabledCatalogs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithGoogleBooksKey(""))
	cfg.OpenLibrary.Enabled = false
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	skipped := 0
	for _, r := range results {
		if r.Skipped {
			skipped++
		}
	}
	if skipped != 2 || preflight.Failed(results) != 0 {
		t.Fatalf("expected both catalogs skipped, got %+v", results)
	}

	if preflight.RunAll(context.Background(), (*config.Config)(nil)) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
