package config

import (
	"fmt"
	"os"
	"strings"

	"bookfinder/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGoogleBooks()
	c.normalizeOpenLibrary()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryDB) == "" {
		c.Paths.LibraryDB = defaultLibraryDB
	}
	if c.Paths.LibraryDB, err = expandPath(c.Paths.LibraryDB); err != nil {
		return fmt.Errorf("paths.library_db: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGoogleBooks() {
	c.GoogleBooks.APIKey = strings.TrimSpace(c.GoogleBooks.APIKey)
	if c.GoogleBooks.APIKey == "" {
		if value, ok := os.LookupEnv(googleBooksAPIKeyEnv); ok {
			c.GoogleBooks.APIKey = strings.TrimSpace(value)
		}
	}
	c.GoogleBooks.BaseURL = strings.TrimRight(strings.TrimSpace(c.GoogleBooks.BaseURL), "/")
	if c.GoogleBooks.BaseURL == "" {
		c.GoogleBooks.BaseURL = defaultGoogleBooksBaseURL
	}
	c.GoogleBooks.Language = strings.ToLower(strings.TrimSpace(c.GoogleBooks.Language))
	if code := language.ToISO2(c.GoogleBooks.Language); code != "" {
		c.GoogleBooks.Language = code
	}
}

func (c *Config) normalizeOpenLibrary() {
	c.OpenLibrary.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenLibrary.BaseURL), "/")
	if c.OpenLibrary.BaseURL == "" {
		c.OpenLibrary.BaseURL = defaultOpenLibraryBaseURL
	}
	c.OpenLibrary.UserAgent = strings.TrimSpace(c.OpenLibrary.UserAgent)
	if c.OpenLibrary.UserAgent == "" {
		c.OpenLibrary.UserAgent = defaultOpenLibraryUserAgent
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
