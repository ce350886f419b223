// Package metadata defines the canonical book record every catalog provider
// normalizes into, plus the identity key used to detect the same physical book
// across providers.
//
// Records are plain values. Provider adapters build them, the acquisition
// pipeline filters and orders them, and the library store persists the ones a
// user accepts. Nothing in this package performs IO.
package metadata
