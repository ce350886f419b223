package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"bookfinder/internal/fetch"
	"bookfinder/internal/logging"
	"bookfinder/internal/metadata"
	"bookfinder/internal/providers"
)

const maxResultsCap = 40

// Config holds the settings for the volumes endpoint.
type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	Policy   fetch.Policy
}

// Client queries Google Books.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	policy   fetch.Policy
	executor *fetch.Executor
	logger   *slog.Logger
}

var _ providers.Provider = (*Client)(nil)

// New creates a Google Books client. A blank API key is accepted here so the
// provider can be registered; Search then fails with ErrMissingCredential.
func New(cfg Config, executor *fetch.Executor, logger *slog.Logger) *Client {
	if executor == nil {
		executor = fetch.NewExecutor(fetch.WithLogger(logger))
	}
	return &Client{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		language: strings.TrimSpace(cfg.Language),
		policy:   cfg.Policy,
		executor: executor,
		logger:   logging.NewComponentLogger(logger, "googlebooks"),
	}
}

// Name identifies the catalog.
func (c *Client) Name() metadata.Provenance {
	return metadata.ProvenanceGoogleBooks
}

// Search runs a volumes query and maps each item into a record.
func (c *Client) Search(ctx context.Context, query providers.Query) ([]metadata.Record, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("google books api key: %w", providers.ErrMissingCredential)
	}
	query = query.Normalized()
	if query.IsEmpty() {
		return nil, providers.ErrEmptyQuery
	}
	endpoint, err := c.searchURL(query)
	if err != nil {
		return nil, err
	}

	records, err := fetch.Execute(ctx, c.executor, fetch.Request{URL: endpoint, Policy: c.policy}, parseVolumes)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, c.logger).Debug("google books search complete",
		logging.String(logging.FieldEventType, "provider_search_complete"),
		logging.Int("results", len(records)),
	)
	return records, nil
}

func (c *Client) searchURL(query providers.Query) (string, error) {
	endpoint, err := url.Parse(c.baseURL + "/volumes")
	if err != nil {
		return "", fmt.Errorf("parse google books url: %w", err)
	}
	params := url.Values{}
	params.Set("q", searchTerms(query))
	if limit := clampLimit(query.Limit); limit > 0 {
		params.Set("maxResults", strconv.Itoa(limit))
	}
	if c.language != "" {
		params.Set("langRestrict", c.language)
	}
	params.Set("printType", "books")
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()
	return endpoint.String(), nil
}

// searchTerms prefers an exact ISBN lookup over free-text terms.
func searchTerms(query providers.Query) string {
	if query.ISBN != "" {
		return "isbn:" + metadata.NormalizeISBN(query.ISBN)
	}
	terms := make([]string, 0, 2)
	if term := fieldTerm("intitle", query.Title); term != "" {
		terms = append(terms, term)
	}
	if term := fieldTerm("inauthor", query.Author); term != "" {
		terms = append(terms, term)
	}
	return strings.Join(terms, " ")
}

// fieldTerm quotes multi-word values so every word stays bound to the field.
func fieldTerm(field, value string) string {
	words := strings.Fields(strings.ReplaceAll(value, `"`, ""))
	switch len(words) {
	case 0:
		return ""
	case 1:
		return field + ":" + words[0]
	default:
		return field + `:"` + strings.Join(words, " ") + `"`
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	return min(limit, maxResultsCap)
}

type volumesResponse struct {
	TotalItems *int     `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string       `json:"title"`
	Authors             []string     `json:"authors"`
	Publisher           string       `json:"publisher"`
	PublishedDate       string       `json:"publishedDate"`
	Description         string       `json:"description"`
	Categories          []string     `json:"categories"`
	IndustryIdentifiers []identifier `json:"industryIdentifiers"`
}

type identifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

func parseVolumes(body []byte) ([]metadata.Record, error) {
	var payload *volumesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode google books response: %w", err)
	}
	if payload == nil || (payload.TotalItems == nil && payload.Items == nil) {
		return nil, providers.ErrNoUsableResult
	}
	records := make([]metadata.Record, 0, len(payload.Items))
	for _, item := range payload.Items {
		records = append(records, item.record())
	}
	return records, nil
}

func (v volume) record() metadata.Record {
	info := v.VolumeInfo
	record := metadata.NewRecord(metadata.ProvenanceGoogleBooks, info.Title, info.Authors)
	record.PublishedDate = metadata.ParsePublishedDate(info.PublishedDate)
	record.Publisher = strings.TrimSpace(info.Publisher)
	if len(info.Categories) > 0 {
		record.Genre = strings.TrimSpace(info.Categories[0])
	}
	record.ISBN = pickISBN(info.IndustryIdentifiers)
	record.Description = strings.TrimSpace(info.Description)
	record.LookupKey = v.ID
	return record
}

// pickISBN prefers ISBN-13 over ISBN-10 and ignores other identifier kinds.
func pickISBN(ids []identifier) string {
	var isbn10 string
	for _, id := range ids {
		value := strings.TrimSpace(id.Identifier)
		switch strings.ToUpper(id.Type) {
		case "ISBN_13":
			if value != "" {
				return value
			}
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = value
			}
		}
	}
	return isbn10
}
