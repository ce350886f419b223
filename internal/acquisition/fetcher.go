package acquisition

import (
	"context"
	"errors"
	"log/slog"

	"bookfinder/internal/fetch"
	"bookfinder/internal/logging"
	"bookfinder/internal/metadata"
	"bookfinder/internal/providers"
)

// Fetcher queries every provider concurrently.
type Fetcher struct {
	providers []providers.Provider
	logger    *slog.Logger
}

// NewFetcher builds a fetcher over the supplied providers. Nil providers are skipped.
func NewFetcher(logger *slog.Logger, list ...providers.Provider) *Fetcher {
	kept := make([]providers.Provider, 0, len(list))
	for _, p := range list {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return &Fetcher{
		providers: kept,
		logger:    logging.NewComponentLogger(logger, "fetcher"),
	}
}

// Providers returns the configured providers in registration order.
func (f *Fetcher) Providers() []providers.Provider {
	return append([]providers.Provider(nil), f.providers...)
}

type providerOutcome struct {
	name    metadata.Provenance
	records []metadata.Record
	err     error
}

// FetchCandidates runs one search per provider and concatenates the successful
// results in completion order. Provider errors are logged and dropped. When ctx
// is cancelled it returns immediately with whatever has already completed;
// outstanding requests observe the same ctx and are abandoned.
func (f *Fetcher) FetchCandidates(ctx context.Context, query providers.Query) []metadata.Record {
	if len(f.providers) == 0 {
		return nil
	}
	logger := logging.WithContext(ctx, f.logger)

	// Buffered so late senders never block after an early return.
	outcomes := make(chan providerOutcome, len(f.providers))
	for _, p := range f.providers {
		go func() {
			records, err := p.Search(ctx, query)
			outcomes <- providerOutcome{name: p.Name(), records: records, err: err}
		}()
	}

	var combined []metadata.Record
	for pending := len(f.providers); pending > 0; pending-- {
		select {
		case <-ctx.Done():
			logger.Debug("candidate fetch cancelled",
				logging.String(logging.FieldEventType, "fetch_cancelled"),
				logging.Int("pending_providers", pending),
				logging.Int("collected", len(combined)),
			)
			return combined
		case outcome := <-outcomes:
			if outcome.err != nil {
				logProviderFailure(logger, outcome)
				continue
			}
			logger.Debug("provider returned candidates",
				logging.String(logging.FieldProvider, string(outcome.name)),
				logging.Int("count", len(outcome.records)),
			)
			combined = append(combined, outcome.records...)
		}
	}
	return combined
}

func logProviderFailure(logger *slog.Logger, outcome providerOutcome) {
	provider := logging.String(logging.FieldProvider, string(outcome.name))
	switch {
	case errors.Is(outcome.err, providers.ErrMissingCredential):
		logger.Info("provider skipped: credential not configured",
			provider,
			logging.String(logging.FieldEventType, "provider_skipped"),
		)
	case fetch.KindOf(outcome.err) == fetch.KindCanceled:
		logger.Debug("provider search cancelled", provider)
	default:
		logging.WarnWithContext(logger, "provider search failed", "provider_failed",
			provider,
			logging.String("kind", string(fetch.KindOf(outcome.err))),
			logging.Error(outcome.err),
			logging.String(logging.FieldImpact, "results from this catalog are omitted"),
			logging.String(logging.FieldErrorHint, "retry the search or check network connectivity"),
		)
	}
}
