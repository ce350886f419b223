package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookfinder/internal/metadata"
)

const publishedDateLayout = "2006-01-02"

const selectColumns = `id, identity_key, title, authors, published_date, publisher, genre,
    series, isbn, description, provenance, added_at`

// Entry is a stored book.
type Entry struct {
	ID          string
	IdentityKey string
	Record      metadata.Record
	AddedAt     time.Time
}

// ShortID returns the first eight characters of the id for display.
func (e Entry) ShortID() string {
	if len(e.ID) <= 8 {
		return e.ID
	}
	return e.ID[:8]
}

// Add stores record under a new id. It returns ErrDuplicate when a book with
// the same identity key is already stored.
func (s *Store) Add(ctx context.Context, record metadata.Record) (*Entry, error) {
	entry := Entry{
		ID:          uuid.NewString(),
		IdentityKey: metadata.IdentityKey(record),
		Record:      record,
		AddedAt:     s.now(),
	}
	if err := s.insert(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) insert(ctx context.Context, entry Entry) error {
	r := entry.Record
	_, err := s.execWithRetry(ctx,
		`INSERT INTO books (
            id, identity_key, title, authors, published_date, publisher, genre,
            series, isbn, description, provenance, added_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.IdentityKey,
		metadata.TitleOrUnknown(r.Title),
		nonEmpty(r.Authors, metadata.UnknownAuthor),
		formatDate(r.PublishedDate),
		nullableString(r.Publisher),
		nullableString(r.Genre),
		nullableString(r.Series),
		nullableString(r.ISBN),
		nullableString(r.Description),
		nullableString(string(r.Provenance)),
		timestamp(entry.AddedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, metadata.TitleOrUnknown(r.Title))
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Get returns the entry with exactly id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT "+selectColumns+" FROM books WHERE id = ?", strings.TrimSpace(id))
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Resolve finds the entry whose id equals or starts with prefix.
func (s *Store) Resolve(ctx context.Context, prefix string) (*Entry, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+selectColumns+" FROM books WHERE substr(id, 1, ?) = ? LIMIT 2",
		len(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	switch len(entries) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return &entries[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// List returns every entry ordered by the time it was added.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), "SELECT "+selectColumns+" FROM books ORDER BY added_at, title")
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	return scanEntries(rows)
}

// Count returns the number of stored books.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM books").Scan(&count); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return count, nil
}

// Remove deletes the entry with exactly id.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM books WHERE id = ?", strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Contains reports whether a book with identityKey is stored.
func (s *Store) Contains(ctx context.Context, identityKey string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM books WHERE identity_key = ?", identityKey).Scan(&count); err != nil {
		return false, fmt.Errorf("lookup identity key: %w", err)
	}
	return count > 0, nil
}

// Owned reports, for each record, whether the library already holds it.
func (s *Store) Owned(ctx context.Context, records []metadata.Record) ([]bool, error) {
	owned := make([]bool, len(records))
	for i, record := range records {
		ok, err := s.Contains(ctx, metadata.IdentityKey(record))
		if err != nil {
			return nil, err
		}
		owned[i] = ok
	}
	return owned, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry     Entry
		published sql.NullString
		publisher sql.NullString
		genre     sql.NullString
		series    sql.NullString
		isbn      sql.NullString
		desc      sql.NullString
		provName  sql.NullString
		addedAt   string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.IdentityKey,
		&entry.Record.Title,
		&entry.Record.Authors,
		&published,
		&publisher,
		&genre,
		&series,
		&isbn,
		&desc,
		&provName,
		&addedAt,
	); err != nil {
		return nil, err
	}
	entry.Record.PublishedDate = parseDate(published.String)
	entry.Record.Publisher = publisher.String
	entry.Record.Genre = genre.String
	entry.Record.Series = series.String
	entry.Record.ISBN = isbn.String
	entry.Record.Description = desc.String
	if provenance, ok := metadata.ParseProvenance(provName.String); ok {
		entry.Record.Provenance = provenance
	}
	parsed, err := time.Parse(time.RFC3339Nano, addedAt)
	if err != nil {
		return nil, fmt.Errorf("parse added_at %q: %w", addedAt, err)
	}
	entry.AddedAt = parsed
	return &entry, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return entries, nil
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(publishedDateLayout)
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(publishedDateLayout, value)
	if err != nil {
		return nil
	}
	return &parsed
}
