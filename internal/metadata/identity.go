package metadata

import "strings"

// IdentityKey derives the deduplication key for a record: the lowercase ISBN
// when present, otherwise the normalized title and authors.
func IdentityKey(r Record) string {
	if isbn := NormalizeISBN(r.ISBN); isbn != "" {
		return "isbn:" + isbn
	}
	return "work:" + normalizeKeyPart(r.Title) + "|" + normalizeKeyPart(r.Authors)
}

// NormalizeISBN lowercases the ISBN and strips separators. No checksum
// validation is performed.
func NormalizeISBN(isbn string) string {
	isbn = strings.ToLower(strings.TrimSpace(isbn))
	if isbn == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '\t':
			return -1
		}
		return r
	}, isbn)
}

func normalizeKeyPart(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}
