// Package acquisition turns a book query into a short, relevant list of
// metadata records.
//
// Service.SearchBooks drives the pipeline: Fetcher fans the query out to every
// configured provider concurrently and tolerates individual provider failures,
// Dedupe collapses records that describe the same book, Ranker keeps the
// candidates that fuzzily match the query and caps the list, and Enricher
// fills missing descriptions through a bounded group of secondary lookups.
// No stage returns an error to the caller; the worst outcome is an empty list.
package acquisition
