package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"bookfinder/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains on-disk locations.
type Paths struct {
	LibraryDB string `toml:"library_db"`
	LogDir    string `toml:"log_dir"`
}

// GoogleBooks contains configuration for the Google Books volumes API.
type GoogleBooks struct {
	Enabled     bool   `toml:"enabled"`
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"`
	Language    string `toml:"language"`
	MaxAttempts int    `toml:"max_attempts"`
}

// OpenLibrary contains configuration for the OpenLibrary search and works APIs.
type OpenLibrary struct {
	Enabled             bool    `toml:"enabled"`
	BaseURL             string  `toml:"base_url"`
	UserAgent           string  `toml:"user_agent"`
	MaxAttempts         int     `toml:"max_attempts"`
	DescriptionAttempts int     `toml:"description_attempts"`
	RequestsPerSecond   float64 `toml:"requests_per_second"`
}

// Search contains tuning for the acquisition pipeline.
type Search struct {
	DefaultLimit          int     `toml:"default_limit"`
	RelevanceThreshold    float64 `toml:"relevance_threshold"`
	SortByScore           bool    `toml:"sort_by_score"`
	EnrichDescriptions    bool    `toml:"enrich_descriptions"`
	EnrichmentConcurrency int     `toml:"enrichment_concurrency"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	InitialBackoffMillis  int     `toml:"initial_backoff_ms"`
	BackoffFactor         float64 `toml:"backoff_factor"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for bookfinder.
//
// Configuration sections by subsystem:
//   - Paths: library database and log directory
//   - GoogleBooks: Google Books provider credentials and retry budget
//   - OpenLibrary: OpenLibrary provider, description lookups, and politeness rate
//   - Search: result limit, relevance threshold, enrichment, and backoff tuning
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	GoogleBooks GoogleBooks `toml:"google_books"`
	OpenLibrary OpenLibrary `toml:"open_library"`
	Search      Search      `toml:"search"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigFile)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and the parent of the library database.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if db := strings.TrimSpace(c.Paths.LibraryDB); db != "" {
		dirs = append(dirs, filepath.Dir(db))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the per-attempt HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Search.RequestTimeoutSeconds) * time.Second
}

// InitialBackoff returns the delay before the first retry.
func (c *Config) InitialBackoff() time.Duration {
	return time.Duration(c.Search.InitialBackoffMillis) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
