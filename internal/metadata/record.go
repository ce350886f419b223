package metadata

import (
	"strings"
	"time"
)

const (
	// UnknownTitle is substituted when a provider omits the title.
	UnknownTitle = "Unknown Title"
	// UnknownAuthor is substituted when a provider omits every author.
	UnknownAuthor = "Unknown Author"
)

// Provenance identifies the catalog a record was parsed from.
type Provenance string

const (
	ProvenanceGoogleBooks Provenance = "google_books"
	ProvenanceOpenLibrary Provenance = "open_library"
)

// String returns a display label for the provenance.
func (p Provenance) String() string {
	switch p {
	case ProvenanceGoogleBooks:
		return "Google Books"
	case ProvenanceOpenLibrary:
		return "Open Library"
	default:
		return string(p)
	}
}

// ParseProvenance maps a stored provenance value back to its constant.
func ParseProvenance(value string) (Provenance, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ProvenanceGoogleBooks):
		return ProvenanceGoogleBooks, true
	case string(ProvenanceOpenLibrary):
		return ProvenanceOpenLibrary, true
	default:
		return "", false
	}
}

// Record is the canonical, provider-agnostic book metadata structure.
type Record struct {
	Title         string     `json:"title" yaml:"title"`
	Authors       string     `json:"authors" yaml:"authors"`
	PublishedDate *time.Time `json:"published_date,omitempty" yaml:"published_date,omitempty"`
	Publisher     string     `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Genre         string     `json:"genre,omitempty" yaml:"genre,omitempty"`
	Series        string     `json:"series,omitempty" yaml:"series,omitempty"`
	ISBN          string     `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	Provenance    Provenance `json:"provenance,omitempty" yaml:"provenance,omitempty"`
	// LookupKey is the provider-specific identifier used for secondary lookups
	// such as description enrichment.
	LookupKey string `json:"-" yaml:"-"`
}

// NewRecord builds a record with the title and author sentinels applied.
// Authors are joined in display form.
func NewRecord(provenance Provenance, title string, authors []string) Record {
	return Record{
		Title:      TitleOrUnknown(title),
		Authors:    JoinAuthors(authors),
		Provenance: provenance,
	}
}

// TitleOrUnknown trims the title and substitutes UnknownTitle when empty.
func TitleOrUnknown(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return UnknownTitle
	}
	return title
}

// JoinAuthors returns the comma separated display form of the supplied names,
// skipping blanks. UnknownAuthor is returned when nothing remains.
func JoinAuthors(authors []string) string {
	names := make([]string, 0, len(authors))
	for _, author := range authors {
		if trimmed := strings.TrimSpace(author); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return UnknownAuthor
	}
	return strings.Join(names, ", ")
}

// HasDescription reports whether the record carries a non-blank description.
func (r Record) HasDescription() bool {
	return strings.TrimSpace(r.Description) != ""
}

// Year returns the publication year or 0 when unknown.
func (r Record) Year() int {
	if r.PublishedDate == nil {
		return 0
	}
	return r.PublishedDate.Year()
}

// ParsePublishedDate accepts the partial date forms catalogs publish
// ("2005", "2005-08", "2005-08-02", "August 2, 2005", "Aug 2005") and returns nil
// when none match.
func ParsePublishedDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	layouts := []string{
		"2006-01-02",
		"2006-01",
		"2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"January 2006",
		"Jan 2006",
		"2 January 2006",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}

// DateFromYear returns January 1st of the supplied year, or nil for year <= 0.
func DateFromYear(year int) *time.Time {
	if year <= 0 {
		return nil
	}
	date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &date
}
