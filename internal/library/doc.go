// Package library persists the books a user has accepted from search results
// in SQLite.
//
// The Store owns the database connection, applies embedded migrations on open,
// and keys every entry by a generated UUID plus the record's identity key so
// the same book cannot be added twice. Export and Import move the collection in
// and out as JSON or YAML documents.
//
// Search results are never written here; only records the user explicitly adds.
package library
