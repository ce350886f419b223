package library

import "errors"

var (
	// ErrDuplicate reports an attempt to add a book whose identity key is already stored.
	ErrDuplicate = errors.New("book already in library")
	// ErrNotFound reports a missing entry.
	ErrNotFound = errors.New("book not found")
	// ErrAmbiguousID reports an id prefix that matches more than one entry.
	ErrAmbiguousID = errors.New("id prefix matches more than one book")
)
