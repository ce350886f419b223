// Package googlebooks adapts the Google Books volumes API to the providers
// contract. ISBN queries are sent as exact isbn: lookups; otherwise title and
// author become intitle:/inauthor: terms, quoted when they span several words.
package googlebooks
