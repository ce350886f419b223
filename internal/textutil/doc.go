// Package textutil provides text normalization and fuzzy similarity scoring
// used to judge how well a catalog record matches a user's query.
//
// The primary use cases are:
//   - Folding text to a comparable form (case, diacritics, punctuation)
//   - Splitting folded text into tokens
//   - Computing a normalized edit distance between two strings
//
// Distances are normalized to 0.0 (identical after folding) through 1.0 (no
// similarity). Token order is ignored when that produces a closer match, so
// "Herbert, Frank" scores as an exact match for "Frank Herbert".
package textutil
