package acquisition

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"bookfinder/internal/config"
	"bookfinder/internal/fetch"
	"bookfinder/internal/logging"
	"bookfinder/internal/metadata"
	"bookfinder/internal/providers"
	"bookfinder/internal/providers/googlebooks"
	"bookfinder/internal/providers/openlibrary"
)

// DefaultLimit caps results when a request does not specify a limit.
const DefaultLimit = 10

// Request is one user search.
type Request struct {
	Title  string
	Author string
	ISBN   string
	Limit  int
}

// Service runs the acquisition pipeline.
type Service struct {
	fetcher      *Fetcher
	ranker       Ranker
	enricher     *Enricher
	defaultLimit int
	logger       *slog.Logger
}

// Options configures NewService.
type Options struct {
	Providers    []providers.Provider
	Ranker       Ranker
	DefaultLimit int
	// Enrich turns on description enrichment for records that lack one.
	Enrich                bool
	EnrichmentConcurrency int
	Logger                *slog.Logger
}

// NewService wires a pipeline over the supplied providers.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	limit := opts.DefaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	svc := &Service{
		fetcher:      NewFetcher(logger, opts.Providers...),
		ranker:       opts.Ranker,
		defaultLimit: limit,
		logger:       logging.NewComponentLogger(logger, "acquisition"),
	}
	if opts.Enrich {
		svc.enricher = NewEnricher(logger, opts.EnrichmentConcurrency, opts.Providers...)
	}
	return svc
}

// ServiceOption customizes NewServiceFromConfig.
type ServiceOption func(*serviceSettings)

type serviceSettings struct {
	httpClient *http.Client
	sleeper    func(context.Context, time.Duration) error
}

// WithHTTPClient shares client across every provider.
func WithHTTPClient(client *http.Client) ServiceOption {
	return func(s *serviceSettings) {
		s.httpClient = client
	}
}

// WithBackoffSleeper overrides how retry pauses are taken.
func WithBackoffSleeper(sleeper func(context.Context, time.Duration) error) ServiceOption {
	return func(s *serviceSettings) {
		s.sleeper = sleeper
	}
}

// NewServiceFromConfig builds the enabled providers and the pipeline from cfg.
func NewServiceFromConfig(cfg *config.Config, logger *slog.Logger, opts ...ServiceOption) *Service {
	settings := serviceSettings{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(&settings)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	basePolicy := fetch.DefaultPolicy()
	basePolicy.InitialDelay = cfg.InitialBackoff()
	basePolicy.BackoffFactor = cfg.Search.BackoffFactor
	basePolicy.AttemptTimeout = cfg.RequestTimeout()
	withAttempts := func(n int) fetch.Policy {
		p := basePolicy
		p.MaxAttempts = n
		return p
	}
	executorOpts := func(extra ...fetch.Option) []fetch.Option {
		list := []fetch.Option{fetch.WithHTTPClient(settings.httpClient), fetch.WithLogger(logger)}
		if settings.sleeper != nil {
			list = append(list, fetch.WithSleeper(settings.sleeper))
		}
		return append(list, extra...)
	}

	var list []providers.Provider
	if cfg.GoogleBooks.Enabled {
		list = append(list, googlebooks.New(googlebooks.Config{
			APIKey:   cfg.GoogleBooks.APIKey,
			BaseURL:  cfg.GoogleBooks.BaseURL,
			Language: cfg.GoogleBooks.Language,
			Policy:   withAttempts(cfg.GoogleBooks.MaxAttempts),
		}, fetch.NewExecutor(executorOpts()...), logger))
	}
	if cfg.OpenLibrary.Enabled {
		limiter := openlibrary.NewLimiter(cfg.OpenLibrary.RequestsPerSecond)
		list = append(list, openlibrary.New(openlibrary.Config{
			BaseURL:           cfg.OpenLibrary.BaseURL,
			UserAgent:         cfg.OpenLibrary.UserAgent,
			SearchPolicy:      withAttempts(cfg.OpenLibrary.MaxAttempts),
			DescriptionPolicy: withAttempts(cfg.OpenLibrary.DescriptionAttempts),
		}, fetch.NewExecutor(executorOpts(fetch.WithLimiter(limiter))...), logger))
	}

	return NewService(Options{
		Providers: list,
		Ranker: Ranker{
			Threshold:   cfg.Search.RelevanceThreshold,
			SortByScore: cfg.Search.SortByScore,
		},
		DefaultLimit:          cfg.Search.DefaultLimit,
		Enrich:                cfg.Search.EnrichDescriptions,
		EnrichmentConcurrency: cfg.Search.EnrichmentConcurrency,
		Logger:                logger,
	})
}

// Providers lists the catalogs this service queries.
func (s *Service) Providers() []metadata.Provenance {
	list := s.fetcher.Providers()
	names := make([]metadata.Provenance, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name())
	}
	return names
}

// SearchBooks fetches, deduplicates, filters, and enriches candidates for req.
// It never fails: an empty query, total provider failure, or cancellation all
// yield an empty list.
func (s *Service) SearchBooks(ctx context.Context, req Request) []metadata.Record {
	query := providers.Query{Title: req.Title, Author: req.Author, ISBN: req.ISBN, Limit: req.Limit}.Normalized()
	if query.Limit <= 0 {
		query.Limit = s.defaultLimit
	}
	if query.IsEmpty() {
		return nil
	}
	if _, ok := logging.CorrelationIDFromContext(ctx); !ok {
		ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, s.logger)
	started := time.Now()

	candidates := s.fetcher.FetchCandidates(ctx, query)
	if ctx.Err() != nil {
		logger.Info("search cancelled",
			logging.String(logging.FieldEventType, "search_cancelled"),
			logging.Int("partial_candidates", len(candidates)),
		)
		return nil
	}

	unique := Dedupe(candidates)
	// An ISBN-only query has no title or author to score, so the ranker keeps every match.
	results := s.ranker.FilterAndRank(unique, query.Title, query.Author, query.Limit)

	if s.enricher != nil && len(results) > 0 {
		results = s.enricher.Enrich(ctx, results)
		if ctx.Err() != nil {
			logger.Info("search cancelled during enrichment",
				logging.String(logging.FieldEventType, "search_cancelled"),
			)
			return nil
		}
	}

	logger.Info("search complete",
		logging.String(logging.FieldEventType, "search_complete"),
		logging.Int("candidates", len(candidates)),
		logging.Int("unique", len(unique)),
		logging.Int("results", len(results)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return results
}
