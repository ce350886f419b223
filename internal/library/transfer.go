package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"bookfinder/internal/metadata"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const exportVersion = 1

// ParseFormat accepts json, yaml, or yml (case-insensitive).
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", value)
	}
}

type document struct {
	Version    int            `json:"version" yaml:"version"`
	ExportedAt time.Time      `json:"exported_at" yaml:"exported_at"`
	Books      []exportedBook `json:"books" yaml:"books"`
}

type exportedBook struct {
	ID              string    `json:"id,omitempty" yaml:"id,omitempty"`
	AddedAt         time.Time `json:"added_at,omitzero" yaml:"added_at,omitempty"`
	metadata.Record `yaml:",inline"`
}

// ImportResult summarizes an Import call.
type ImportResult struct {
	Added   int
	Skipped int
}

// Export writes every entry to w in the requested format.
func (s *Store) Export(ctx context.Context, w io.Writer, format Format) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	doc := document{Version: exportVersion, ExportedAt: s.now(), Books: make([]exportedBook, 0, len(entries))}
	for _, entry := range entries {
		doc.Books = append(doc.Books, exportedBook{ID: entry.ID, AddedAt: entry.AddedAt, Record: entry.Record})
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("encode json export: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml export: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("flush yaml export: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// Import reads a document produced by Export and adds its books. Books already
// present (by identity key or id) are skipped and counted in the result.
func (s *Store) Import(ctx context.Context, r io.Reader, format Format) (ImportResult, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return ImportResult{}, fmt.Errorf("decode json import: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return ImportResult{}, fmt.Errorf("decode yaml import: %w", err)
		}
	default:
		return ImportResult{}, fmt.Errorf("unsupported format %q", format)
	}
	if doc.Version > exportVersion {
		return ImportResult{}, fmt.Errorf("import document version %d is newer than supported version %d", doc.Version, exportVersion)
	}

	var result ImportResult
	for _, book := range doc.Books {
		record := book.Record
		record.Title = metadata.TitleOrUnknown(record.Title)
		if strings.TrimSpace(record.Authors) == "" {
			record.Authors = metadata.UnknownAuthor
		}
		entry := Entry{
			ID:          strings.ToLower(strings.TrimSpace(book.ID)),
			IdentityKey: metadata.IdentityKey(record),
			Record:      record,
			AddedAt:     book.AddedAt,
		}
		if _, err := uuid.Parse(entry.ID); err != nil {
			entry.ID = uuid.NewString()
		}
		if entry.AddedAt.IsZero() {
			entry.AddedAt = s.now()
		}
		if err := s.insert(ctx, entry); err != nil {
			if errors.Is(err, ErrDuplicate) {
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Added++
	}
	return result, nil
}
