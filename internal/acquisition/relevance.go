package acquisition

import (
	"cmp"
	"slices"
	"strings"

	"bookfinder/internal/metadata"
	"bookfinder/internal/textutil"
)

// DefaultThreshold is the distance below which a title or author counts as a match.
const DefaultThreshold = 0.3

// Ranker filters candidates by fuzzy similarity to the query.
type Ranker struct {
	// Threshold is the acceptance cutoff in (0, 1]. Zero selects DefaultThreshold.
	Threshold float64
	// SortByScore orders survivors by their best score. Otherwise input order is kept.
	SortByScore bool
}

// Score holds the distances of one record from the query.
type Score struct {
	Title  float64
	Author float64
}

// Best returns the smaller of the two distances.
func (s Score) Best() float64 {
	return min(s.Title, s.Author)
}

// ScoreRecord measures how far a record is from the query title and author.
// A blank query field scores 1 so it can never cause a match by itself.
func ScoreRecord(record metadata.Record, title, author string) Score {
	return Score{
		Title:  textutil.Distance(record.Title, title),
		Author: textutil.Distance(record.Authors, author),
	}
}

// FilterAndRank keeps records whose title or author distance is below the
// threshold and returns at most limit of them. A query with neither title nor
// author (an ISBN-only lookup) skips the similarity filter. A limit of zero or
// less yields no records.
func (r Ranker) FilterAndRank(records []metadata.Record, title, author string, limit int) []metadata.Record {
	if limit <= 0 || len(records) == 0 {
		return nil
	}
	threshold := r.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	filterless := title == "" && author == ""

	type scored struct {
		record metadata.Record
		best   float64
	}
	kept := make([]scored, 0, len(records))
	for _, record := range records {
		if filterless {
			kept = append(kept, scored{record: record})
			continue
		}
		score := ScoreRecord(record, title, author)
		if score.Title < threshold || score.Author < threshold {
			kept = append(kept, scored{record: record, best: score.Best()})
		}
	}

	if r.SortByScore && !filterless {
		slices.SortStableFunc(kept, func(a, b scored) int {
			return cmp.Compare(a.best, b.best)
		})
	}

	if len(kept) > limit {
		kept = kept[:limit]
	}
	out := make([]metadata.Record, len(kept))
	for i, entry := range kept {
		out[i] = entry.record
	}
	return out
}
