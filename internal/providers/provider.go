package providers

import (
	"context"
	"errors"
	"strings"

	"bookfinder/internal/metadata"
)

var (
	// ErrMissingCredential reports that a provider cannot run without a credential
	// the configuration does not supply.
	ErrMissingCredential = errors.New("provider credential missing")
	// ErrEmptyQuery reports a query with no title, author, or ISBN.
	ErrEmptyQuery = errors.New("query must include a title, author, or isbn")
	// ErrNoUsableResult marks a structurally valid payload that carries no
	// result envelope at all (for example a JSON null).
	ErrNoUsableResult = errors.New("response carried no usable result")
)

// Query describes one catalog search.
type Query struct {
	Title  string
	Author string
	ISBN   string
	Limit  int
}

// Normalized returns a copy with surrounding whitespace removed.
func (q Query) Normalized() Query {
	return Query{
		Title:  strings.TrimSpace(q.Title),
		Author: strings.TrimSpace(q.Author),
		ISBN:   strings.TrimSpace(q.ISBN),
		Limit:  q.Limit,
	}
}

// IsEmpty reports whether the query has nothing to search for.
func (q Query) IsEmpty() bool {
	n := q.Normalized()
	return n.Title == "" && n.Author == "" && n.ISBN == ""
}

// Provider searches one external catalog.
type Provider interface {
	Name() metadata.Provenance
	Search(ctx context.Context, query Query) ([]metadata.Record, error)
}

// DescriptionSource fetches a long-form description for a record previously
// returned by the same provider, keyed by Record.LookupKey.
type DescriptionSource interface {
	Description(ctx context.Context, lookupKey string) (string, error)
}
