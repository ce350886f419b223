package acquisition_test

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"

	"bookfinder/internal/acquisition"
	"bookfinder/internal/metadata"
	"bookfinder/internal/providers"
	"bookfinder/internal/testsupport"
)

func newStaticService(enrich bool, list ...providers.Provider) *acquisition.Service {
	return acquisition.NewService(acquisition.Options{
		Providers:             list,
		Ranker:                acquisition.Ranker{Threshold: 0.3},
		Enrich:                enrich,
		EnrichmentConcurrency: 2,
	})
}

func TestSearchBooksPipeline(t *testing.T) {
	googleDune := testsupport.Book(metadata.ProvenanceGoogleBooks, "Dune", "Frank Herbert", "9780441013593")
	googleDune.Publisher = "Ace"
	google := &testsupport.StaticProvider{
		Provenance: metadata.ProvenanceGoogleBooks,
		Records: []metadata.Record{
			googleDune,
			testsupport.Book(metadata.ProvenanceGoogleBooks, "Dune Messiah", "Kevin J. Anderson", ""),
		},
	}
	olDune := testsupport.Book(metadata.ProvenanceOpenLibrary, "Dune", "Frank Herbert", "978-0441013593")
	olChildren := testsupport.Book(metadata.ProvenanceOpenLibrary, "Children of Dune", "Frank Herbert", "")
	olChildren.LookupKey = "OL2W"
	openLib := &testsupport.StaticProvider{
		Provenance:   metadata.ProvenanceOpenLibrary,
		Records:      []metadata.Record{olDune, olChildren},
		Delay:        20 * time.Millisecond,
		Descriptions: map[string]string{"OL2W": "Leto II grows up."},
	}

	got := newStaticService(true, google, openLib).SearchBooks(context.Background(),
		acquisition.Request{Title: "Dune", Author: "Frank Herbert"})
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Dune" || got[0].Publisher != "Ace" {
		t.Fatalf("expected the first completed duplicate to win, got %+v", got[0])
	}
	if got[1].Title != "Children of Dune" || got[1].Description != "Leto II grows up." {
		t.Fatalf("expected enriched sequel, got %+v", got[1])
	}
}

func TestSearchBooksEmptyQuery(t *testing.T) {
	provider := &testsupport.StaticProvider{Provenance: metadata.ProvenanceOpenLibrary}
	if got := newStaticService(false, provider).SearchBooks(context.Background(), acquisition.Request{Title: "  "}); got != nil {
		t.Fatalf("expected nil for empty query, got %v", got)
	}
	if provider.Calls() != 0 {
		t.Fatalf("expected no provider calls, got %d", provider.Calls())
	}
}

func TestSearchBooksAppliesDefaultLimit(t *testing.T) {
	records := make([]metadata.Record, 0, 30)
	for i := range 30 {
		records = append(records, testsupport.Book(metadata.ProvenanceOpenLibrary, "Dune", "Frank Herbert", "isbn-"+string(rune('a'+i))))
	}
	provider := &testsupport.StaticProvider{Provenance: metadata.ProvenanceOpenLibrary, Records: records}
	got := newStaticService(false, provider).SearchBooks(context.Background(), acquisition.Request{Title: "Dune"})
	if len(got) != acquisition.DefaultLimit {
		t.Fatalf("expected %d results, got %d", acquisition.DefaultLimit, len(got))
	}
}

func TestSearchBooksISBNOnlyQueryBypassesRelevance(t *testing.T) {
	provider := &testsupport.StaticProvider{
		Provenance: metadata.ProvenanceOpenLibrary,
		Records:    []metadata.Record{testsupport.Book(metadata.ProvenanceOpenLibrary, "Dune (Deluxe Edition)", "Herbert", "9780593099322")},
	}
	got := newStaticService(false, provider).SearchBooks(context.Background(),
		acquisition.Request{ISBN: "9780593099322"})
	if len(got) != 1 {
		t.Fatalf("expected the ISBN match to survive, got %d", len(got))
	}
}

func TestSearchBooksISBNWithTitleStillFiltersByRelevance(t *testing.T) {
	provider := &testsupport.StaticProvider{
		Provenance: metadata.ProvenanceOpenLibrary,
		Records: []metadata.Record{
			testsupport.Book(metadata.ProvenanceOpenLibrary, "Dune", "Frank Herbert", "9780441013593"),
			testsupport.Book(metadata.ProvenanceOpenLibrary, "Salt Fat Acid Heat", "Samin Nosrat", "9781476753836"),
		},
	}
	got := newStaticService(false, provider).SearchBooks(context.Background(),
		acquisition.Request{Title: "Dune", ISBN: "9780441013593"})
	if len(got) != 1 || got[0].Title != "Dune" {
		t.Fatalf("expected only the relevant title to survive, got %+v", got)
	}
}

func TestSearchBooksCancelledYieldsNoResults(t *testing.T) {
	fast := &testsupport.StaticProvider{
		Provenance: metadata.ProvenanceOpenLibrary,
		Records:    []metadata.Record{testsupport.Book(metadata.ProvenanceOpenLibrary, "Dune", "Frank Herbert", "")},
	}
	blocked := &testsupport.StaticProvider{Provenance: metadata.ProvenanceGoogleBooks, Block: true}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	got := newStaticService(false, fast, blocked).SearchBooks(ctx, acquisition.Request{Title: "Dune"})
	if time.Since(start) > 2*time.Second {
		t.Fatal("expected prompt return after cancellation")
	}
	if got != nil {
		t.Fatalf("expected cancelled search to report no results, got %d", len(got))
	}
}

func TestNewServiceFromConfigAgainstCatalog(t *testing.T) {
	catalog := testsupport.NewCatalogServer(t)
	catalog.SetVolumes(testsupport.GoogleVolume{
		ID: "vol1", Title: "The Left Hand of Darkness", Authors: []string{"Ursula K. Le Guin"},
		Published: "1969", ISBN13: "9780441478125", Description: "Genly Ai on Gethen.",
	})
	catalog.SetDocs(
		testsupport.OpenLibraryDoc{Key: "OL59863W", Title: "The Left Hand of Darkness", Authors: []string{"Ursula K. Le Guin"}, Year: 1969, ISBN: "9780441478125"},
		testsupport.OpenLibraryDoc{Key: "OL59864W", Title: "The Left Hand of Darkness: 50th Anniversary", Authors: []string{"Ursula K. Le Guin"}, Year: 2019, Description: "Anniversary edition."},
	)
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(catalog))

	svc := acquisition.NewServiceFromConfig(cfg, nil)
	if names := svc.Providers(); !slices.Equal(names, []metadata.Provenance{metadata.ProvenanceGoogleBooks, metadata.ProvenanceOpenLibrary}) {
		t.Fatalf("unexpected providers: %v", names)
	}
	got := svc.SearchBooks(context.Background(), acquisition.Request{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"})
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(got), got)
	}
	var anniversary metadata.Record
	for _, record := range got {
		if strings.Contains(record.Title, "Anniversary") {
			anniversary = record
		}
	}
	if anniversary.Description != "Anniversary edition." {
		t.Fatalf("expected enriched description, got %+v", anniversary)
	}
}

func TestNewServiceFromConfigToleratesFailingProvider(t *testing.T) {
	catalog := testsupport.NewCatalogServer(t)
	catalog.FailGoogleBooks(http.StatusInternalServerError)
	catalog.SetDocs(testsupport.OpenLibraryDoc{Key: "OL1W", Title: "Dune", Authors: []string{"Frank Herbert"}, Year: 1965})
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(catalog), testsupport.WithEnrichment(false))

	got := acquisition.NewServiceFromConfig(cfg, nil).SearchBooks(context.Background(), acquisition.Request{Title: "Dune"})
	if len(got) != 1 || got[0].Provenance != metadata.ProvenanceOpenLibrary {
		t.Fatalf("expected the OpenLibrary result only, got %+v", got)
	}
	volumeCalls := 0
	for _, path := range catalog.Requests() {
		if strings.HasSuffix(path, "/volumes") {
			volumeCalls++
		}
	}
	if volumeCalls != cfg.GoogleBooks.MaxAttempts {
		t.Fatalf("expected %d Google Books attempts, got %d", cfg.GoogleBooks.MaxAttempts, volumeCalls)
	}
}

func TestNewServiceFromConfigWithoutGoogleKey(t *testing.T) {
	catalog := testsupport.NewCatalogServer(t)
	catalog.SetDocs(testsupport.OpenLibraryDoc{Key: "OL1W", Title: "Dune", Authors: []string{"Frank Herbert"}, Year: 1965})
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(catalog), testsupport.WithGoogleBooksKey(""), testsupport.WithEnrichment(false))

	got := acquisition.NewServiceFromConfig(cfg, nil).SearchBooks(context.Background(), acquisition.Request{Title: "Dune"})
	if len(got) != 1 {
		t.Fatalf("expected OpenLibrary result, got %d", len(got))
	}
	for _, path := range catalog.Requests() {
		if strings.HasSuffix(path, "/volumes") {
			t.Fatalf("Google Books must not be called without a key: %v", catalog.Requests())
		}
	}
}
