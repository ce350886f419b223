package acquisition

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"bookfinder/internal/logging"
	"bookfinder/internal/metadata"
	"bookfinder/internal/providers"
)

const defaultEnrichmentConcurrency = 4

// Enricher fills missing descriptions from provider description sources.
type Enricher struct {
	sources     map[metadata.Provenance]providers.DescriptionSource
	concurrency int
	logger      *slog.Logger
}

// NewEnricher builds an enricher. Providers that also implement
// providers.DescriptionSource are registered under their provenance.
func NewEnricher(logger *slog.Logger, concurrency int, list ...providers.Provider) *Enricher {
	if concurrency <= 0 {
		concurrency = defaultEnrichmentConcurrency
	}
	sources := make(map[metadata.Provenance]providers.DescriptionSource)
	for _, p := range list {
		if source, ok := p.(providers.DescriptionSource); ok {
			sources[p.Name()] = source
		}
	}
	return &Enricher{
		sources:     sources,
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(logger, "enricher"),
	}
}

// Candidates reports how many records would trigger a description lookup.
func (e *Enricher) Candidates(records []metadata.Record) int {
	count := 0
	for _, record := range records {
		if _, ok := e.sourceFor(record); ok {
			count++
		}
	}
	return count
}

func (e *Enricher) sourceFor(record metadata.Record) (providers.DescriptionSource, bool) {
	if record.HasDescription() || strings.TrimSpace(record.LookupKey) == "" {
		return nil, false
	}
	source, ok := e.sources[record.Provenance]
	return source, ok
}

// Enrich returns a copy of records with missing descriptions filled where a
// lookup succeeds. Lookups run concurrently up to the configured limit. A
// failed lookup leaves that record's description empty; it never removes the
// record or stops other lookups.
func (e *Enricher) Enrich(ctx context.Context, records []metadata.Record) []metadata.Record {
	out := append([]metadata.Record(nil), records...)
	if len(out) == 0 || len(e.sources) == 0 {
		return out
	}
	candidates := e.Candidates(out)
	if candidates == 0 {
		return out
	}
	logger := logging.WithContext(ctx, e.logger)
	logger.Debug("enriching descriptions",
		logging.String(logging.FieldEventType, "enrichment_start"),
		logging.Int("candidates", candidates),
		logging.Int("concurrency", e.concurrency),
	)

	// Plain Group rather than WithContext: one failure must not cancel siblings.
	var group errgroup.Group
	group.SetLimit(e.concurrency)
	for i := range out {
		source, ok := e.sourceFor(out[i])
		if !ok {
			continue
		}
		lookupKey := out[i].LookupKey
		provider := out[i].Provenance
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			description, err := source.Description(ctx, lookupKey)
			if err != nil {
				logger.Debug("description lookup failed",
					logging.String(logging.FieldEventType, "enrichment_failed"),
					logging.String(logging.FieldProvider, string(provider)),
					logging.String("lookup_key", lookupKey),
					logging.Error(err),
				)
				return nil
			}
			// Each goroutine owns exactly one slot.
			out[i].Description = strings.TrimSpace(description)
			return nil
		})
	}
	_ = group.Wait()
	return out
}
