// Package config loads, normalizes, and validates bookfinder configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GOOGLE_BOOKS_API_KEY. The Config type centralizes every knob the CLI and the
// acquisition pipeline need, so provider credentials, retry tuning, and the
// relevance threshold are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
