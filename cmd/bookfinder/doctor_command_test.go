package main

import (
	"net/http"
	"testing"

	"bookfinder/internal/config"
)

func TestDoctorReportsHealthyCatalogs(t *testing.T) {
	env := setupCLITestEnv(t, func(cfg *config.Config) {
		cfg.GoogleBooks.Language = "en"
	})

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Google Books:")
	requireContains(t, out, "[OK] API reachable")
	requireContains(t, out, "Open Library:")
	requireContains(t, out, "English")
}

func TestDoctorFailsOnCatalogOutage(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	env.catalog.FailGoogleBooks(http.StatusForbidden)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatalf("expected doctor to fail:\n%s", out)
	}
	requireContains(t, out, "[ERROR] API key rejected (403)")
	requireContains(t, err.Error(), "1 of 4 checks failed")
}
