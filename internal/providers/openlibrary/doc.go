// Package openlibrary adapts the OpenLibrary search and works APIs to the
// providers contract.
//
// Search maps search.json documents into records keyed by their work id, and
// Description resolves a work's long-form description for enrichment. The
// service asks API clients to identify themselves and to stay polite, so every
// request carries the configured User-Agent and is expected to run through a
// rate-limited executor (see NewLimiter).
package openlibrary
