package testsupport

import (
	"path/filepath"
	"testing"

	"bookfinder/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test. Backoff
// is disabled and logs stay in the temp dir; options are applied last.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.GoogleBooks.APIKey = "test"
	cfgVal.Paths.LibraryDB = filepath.Join(base, "data", "library.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Search.InitialBackoffMillis = 0
	cfgVal.Search.RequestTimeoutSeconds = 5
	cfgVal.OpenLibrary.RequestsPerSecond = 100

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithGoogleBooksKey sets the Google Books API key on the test config.
func WithGoogleBooksKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GoogleBooks.APIKey = key
	}
}

// WithCatalog points both providers at a fake catalog server.
func WithCatalog(server *CatalogServer) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GoogleBooks.BaseURL = server.GoogleBooksURL()
		b.cfg.OpenLibrary.BaseURL = server.OpenLibraryURL()
	}
}

// WithEnrichment toggles description enrichment.
func WithEnrichment(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.EnrichDescriptions = enabled
	}
}

// BaseDir returns the temp directory backing the config paths.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
