package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"bookfinder/internal/fetch"
	"bookfinder/internal/logging"
	"bookfinder/internal/metadata"
	"bookfinder/internal/providers"
)

const searchFields = "key,title,author_name,first_publish_year,publisher,isbn,subject,series"

// Config holds the OpenLibrary endpoint settings and retry budgets.
type Config struct {
	BaseURL           string
	UserAgent         string
	SearchPolicy      fetch.Policy
	DescriptionPolicy fetch.Policy
}

// Client queries OpenLibrary.
type Client struct {
	baseURL           string
	userAgent         string
	searchPolicy      fetch.Policy
	descriptionPolicy fetch.Policy
	executor          *fetch.Executor
	logger            *slog.Logger
}

var (
	_ providers.Provider          = (*Client)(nil)
	_ providers.DescriptionSource = (*Client)(nil)
)

// NewLimiter returns a limiter allowing requestsPerSecond with no burst.
func NewLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
}

// New creates an OpenLibrary client.
func New(cfg Config, executor *fetch.Executor, logger *slog.Logger) *Client {
	if executor == nil {
		executor = fetch.NewExecutor(fetch.WithLogger(logger))
	}
	return &Client{
		baseURL:           strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userAgent:         strings.TrimSpace(cfg.UserAgent),
		searchPolicy:      cfg.SearchPolicy,
		descriptionPolicy: cfg.DescriptionPolicy,
		executor:          executor,
		logger:            logging.NewComponentLogger(logger, "openlibrary"),
	}
}

// Name identifies the catalog.
func (c *Client) Name() metadata.Provenance {
	return metadata.ProvenanceOpenLibrary
}

// Search runs a search.json query. ISBN queries use the isbn parameter alone.
func (c *Client) Search(ctx context.Context, query providers.Query) ([]metadata.Record, error) {
	query = query.Normalized()
	if query.IsEmpty() {
		return nil, providers.ErrEmptyQuery
	}
	endpoint, err := url.Parse(c.baseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("parse openlibrary url: %w", err)
	}
	params := url.Values{}
	if query.ISBN != "" {
		params.Set("isbn", metadata.NormalizeISBN(query.ISBN))
	} else {
		if query.Title != "" {
			params.Set("title", query.Title)
		}
		if query.Author != "" {
			params.Set("author", query.Author)
		}
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	params.Set("fields", searchFields)
	endpoint.RawQuery = params.Encode()

	records, err := fetch.Execute(ctx, c.executor, c.request(endpoint.String(), c.searchPolicy), parseSearch)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, c.logger).Debug("openlibrary search complete",
		logging.String(logging.FieldEventType, "provider_search_complete"),
		logging.Int("results", len(records)),
	)
	return records, nil
}

// Description fetches the description of the work identified by lookupKey
// ("OL45804W" or "/works/OL45804W"). A work without a description yields "".
func (c *Client) Description(ctx context.Context, lookupKey string) (string, error) {
	workID := WorkID(lookupKey)
	if workID == "" {
		return "", errors.New("openlibrary work id required")
	}
	endpoint := c.baseURL + "/works/" + url.PathEscape(workID) + ".json"
	return fetch.Execute(ctx, c.executor, c.request(endpoint, c.descriptionPolicy), parseWork)
}

func (c *Client) request(endpoint string, policy fetch.Policy) fetch.Request {
	header := http.Header{}
	if c.userAgent != "" {
		header.Set("User-Agent", c.userAgent)
	}
	return fetch.Request{URL: endpoint, Header: header, Policy: policy}
}

// WorkID strips the "/works/" prefix from an OpenLibrary work key.
func WorkID(key string) string {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, "/works/")
	key = strings.TrimPrefix(key, "works/")
	return strings.Trim(key, "/")
}

type searchResponse struct {
	NumFound *int  `json:"numFound"`
	Docs     []doc `json:"docs"`
}

type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	Publishers       []string `json:"publisher"`
	ISBN             []string `json:"isbn"`
	Subjects         []string `json:"subject"`
	Series           []string `json:"series"`
}

func parseSearch(body []byte) ([]metadata.Record, error) {
	var payload *searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode openlibrary search: %w", err)
	}
	if payload == nil || (payload.NumFound == nil && payload.Docs == nil) {
		return nil, providers.ErrNoUsableResult
	}
	records := make([]metadata.Record, 0, len(payload.Docs))
	for _, d := range payload.Docs {
		records = append(records, d.record())
	}
	return records, nil
}

func (d doc) record() metadata.Record {
	record := metadata.NewRecord(metadata.ProvenanceOpenLibrary, d.Title, d.AuthorNames)
	record.PublishedDate = metadata.DateFromYear(d.FirstPublishYear)
	record.Publisher = first(d.Publishers)
	record.Genre = first(d.Subjects)
	record.Series = first(d.Series)
	record.ISBN = pickISBN(d.ISBN)
	record.LookupKey = WorkID(d.Key)
	return record
}

// pickISBN prefers the first 13 digit ISBN, falling back to the first entry.
func pickISBN(values []string) string {
	for _, value := range values {
		if len(metadata.NormalizeISBN(value)) == 13 {
			return strings.TrimSpace(value)
		}
	}
	return first(values)
}

func first(values []string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type work struct {
	Description json.RawMessage `json:"description"`
}

// parseWork accepts both description encodings: a bare string or a
// {"type": "/type/text", "value": "..."} object.
func parseWork(body []byte) (string, error) {
	var payload *work
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode openlibrary work: %w", err)
	}
	if payload == nil {
		return "", providers.ErrNoUsableResult
	}
	raw := payload.Description
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text), nil
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err != nil {
		return "", fmt.Errorf("decode openlibrary description: %w", err)
	}
	return strings.TrimSpace(typed.Value), nil
}
