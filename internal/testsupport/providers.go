package testsupport

import (
	"context"
	"sync/atomic"
	"time"

	"bookfinder/internal/metadata"
	"bookfinder/internal/providers"
)

// StaticProvider is a providers.Provider returning canned data.
type StaticProvider struct {
	Provenance metadata.Provenance
	Records    []metadata.Record
	Err        error
	// Delay postpones the answer; a cancelled context ends the wait early.
	Delay time.Duration
	// Block waits for context cancellation instead of answering.
	Block bool
	// Descriptions backs the DescriptionSource implementation, keyed by lookup key.
	Descriptions map[string]string
	// DescriptionErr fails every description lookup.
	DescriptionErr error

	calls            atomic.Int32
	descriptionCalls atomic.Int32
}

var (
	_ providers.Provider          = (*StaticProvider)(nil)
	_ providers.DescriptionSource = (*StaticProvider)(nil)
)

// Name implements providers.Provider.
func (p *StaticProvider) Name() metadata.Provenance {
	return p.Provenance
}

// Search implements providers.Provider.
func (p *StaticProvider) Search(ctx context.Context, _ providers.Query) ([]metadata.Record, error) {
	p.calls.Add(1)
	if p.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if p.Err != nil {
		return nil, p.Err
	}
	return append([]metadata.Record(nil), p.Records...), nil
}

// Description implements providers.DescriptionSource.
func (p *StaticProvider) Description(ctx context.Context, lookupKey string) (string, error) {
	p.descriptionCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.DescriptionErr != nil {
		return "", p.DescriptionErr
	}
	return p.Descriptions[lookupKey], nil
}

// Calls reports how many searches ran.
func (p *StaticProvider) Calls() int {
	return int(p.calls.Load())
}

// DescriptionCalls reports how many description lookups ran.
func (p *StaticProvider) DescriptionCalls() int {
	return int(p.descriptionCalls.Load())
}

// SearchOnly hides the DescriptionSource implementation of a provider.
type SearchOnly struct {
	providers.Provider
}

// Book builds a record for tests.
func Book(provenance metadata.Provenance, title, authors, isbn string) metadata.Record {
	record := metadata.NewRecord(provenance, title, []string{authors})
	record.ISBN = isbn
	return record
}
