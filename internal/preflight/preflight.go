package preflight

import (
	"context"
	"path/filepath"
	"strings"

	"bookfinder/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name    string
	Passed  bool
	Skipped bool
	Detail  string
}

// RunAll executes every preflight check for the given config. Catalog checks
// are skipped when the catalog is disabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Library directory", filepath.Dir(cfg.Paths.LibraryDB)))
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	if cfg.GoogleBooks.Enabled {
		results = append(results, CheckGoogleBooks(ctx, cfg.GoogleBooks.BaseURL, cfg.GoogleBooks.APIKey))
	} else {
		results = append(results, Result{Name: googleBooksName, Skipped: true, Detail: "disabled"})
	}

	if cfg.OpenLibrary.Enabled {
		results = append(results, CheckOpenLibrary(ctx, cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.UserAgent))
	} else {
		results = append(results, Result{Name: openLibraryName, Skipped: true, Detail: "disabled"})
	}

	return results
}

// Failed counts results that neither passed nor were skipped.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed && !r.Skipped {
			n++
		}
	}
	return n
}
