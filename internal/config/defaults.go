package config

const (
	defaultConfigPath                = "~/.config/bookfinder/config.toml"
	projectConfigFile                = "bookfinder.toml"
	defaultLibraryDB                 = "~/.local/share/bookfinder/library.db"
	defaultLogDir                    = "~/.local/share/bookfinder/logs"
	defaultGoogleBooksBaseURL        = "https://www.googleapis.com/books/v1"
	defaultGoogleBooksMaxAttempts    = 3
	defaultOpenLibraryBaseURL        = "https://openlibrary.org"
	defaultOpenLibraryUserAgent      = "bookfinder/dev (+https://openlibrary.org/developers/api)"
	defaultOpenLibraryMaxAttempts    = 1
	defaultOpenLibraryDescAttempts   = 3
	defaultOpenLibraryRequestsPerSec = 3
	defaultSearchLimit               = 10
	defaultRelevanceThreshold        = 0.3
	defaultEnrichmentConcurrency     = 4
	defaultRequestTimeoutSeconds     = 30
	defaultInitialBackoffMillis      = 500
	defaultBackoffFactor             = 1.5
	defaultLogFormat                 = "console"
	defaultLogLevel                  = "info"
	googleBooksAPIKeyEnv             = "GOOGLE_BOOKS_API_KEY"
	maxAttemptsUpperBound            = 10
	maxRequestsPerSecondBound        = 100
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDB: defaultLibraryDB,
			LogDir:    defaultLogDir,
		},
		GoogleBooks: GoogleBooks{
			Enabled:     true,
			BaseURL:     defaultGoogleBooksBaseURL,
			MaxAttempts: defaultGoogleBooksMaxAttempts,
		},
		OpenLibrary: OpenLibrary{
			Enabled:             true,
			BaseURL:             defaultOpenLibraryBaseURL,
			UserAgent:           defaultOpenLibraryUserAgent,
			MaxAttempts:         defaultOpenLibraryMaxAttempts,
			DescriptionAttempts: defaultOpenLibraryDescAttempts,
			RequestsPerSecond:   defaultOpenLibraryRequestsPerSec,
		},
		Search: Search{
			DefaultLimit:          defaultSearchLimit,
			RelevanceThreshold:    defaultRelevanceThreshold,
			EnrichDescriptions:    true,
			EnrichmentConcurrency: defaultEnrichmentConcurrency,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
			InitialBackoffMillis:  defaultInitialBackoffMillis,
			BackoffFactor:         defaultBackoffFactor,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
