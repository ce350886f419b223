package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// A missing Google Books key is not a validation error: that provider fails
// fast at search time and the pipeline continues with OpenLibrary.
func (c *Config) validateProviders() error {
	if !c.GoogleBooks.Enabled && !c.OpenLibrary.Enabled {
		return errors.New("at least one of google_books.enabled or open_library.enabled must be true")
	}
	if lang := c.GoogleBooks.Language; lang != "" && len(lang) != 2 {
		return fmt.Errorf("google_books.language %q is not a recognized language name or ISO 639-1 code", lang)
	}
	if err := ensureRange("google_books.max_attempts", c.GoogleBooks.MaxAttempts, 1, maxAttemptsUpperBound); err != nil {
		return err
	}
	if err := ensureRange("open_library.max_attempts", c.OpenLibrary.MaxAttempts, 1, maxAttemptsUpperBound); err != nil {
		return err
	}
	if err := ensureRange("open_library.description_attempts", c.OpenLibrary.DescriptionAttempts, 1, maxAttemptsUpperBound); err != nil {
		return err
	}
	if c.OpenLibrary.RequestsPerSecond <= 0 || c.OpenLibrary.RequestsPerSecond > maxRequestsPerSecondBound {
		return fmt.Errorf("open_library.requests_per_second must be in (0, %d]", maxRequestsPerSecondBound)
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.DefaultLimit <= 0 {
		return errors.New("search.default_limit must be positive")
	}
	if c.Search.RelevanceThreshold <= 0 || c.Search.RelevanceThreshold > 1 {
		return errors.New("search.relevance_threshold must be in (0, 1]")
	}
	if c.Search.EnrichmentConcurrency <= 0 {
		return errors.New("search.enrichment_concurrency must be positive")
	}
	if c.Search.RequestTimeoutSeconds <= 0 {
		return errors.New("search.request_timeout_seconds must be positive")
	}
	if c.Search.InitialBackoffMillis < 0 {
		return errors.New("search.initial_backoff_ms must not be negative")
	}
	if c.Search.BackoffFactor < 1 {
		return errors.New("search.backoff_factor must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensureRange(name string, value, lower, upper int) error {
	if value < lower || value > upper {
		return fmt.Errorf("%s must be between %d and %d", name, lower, upper)
	}
	return nil
}
