package acquisition

import "bookfinder/internal/metadata"

// Dedupe keeps the first record for each identity key, preserving order.
func Dedupe(records []metadata.Record) []metadata.Record {
	if len(records) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(records))
	unique := make([]metadata.Record, 0, len(records))
	for _, record := range records {
		key := metadata.IdentityKey(record)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, record)
	}
	return unique
}
