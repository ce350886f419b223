package acquisition_test

import (
	"fmt"
	"testing"

	"bookfinder/internal/acquisition"
	"bookfinder/internal/metadata"
	"bookfinder/internal/testsupport"
)

func book(title, authors string) metadata.Record {
	return testsupport.Book(metadata.ProvenanceGoogleBooks, title, authors, "")
}

func titles(records []metadata.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestFilterAndRankDuneCase(t *testing.T) {
	records := []metadata.Record{
		book("Dune Messiah", "Kevin J. Anderson"),
		book("Dune", "Frank P. Herbert"),
	}
	got := acquisition.Ranker{}.FilterAndRank(records, "Dune", "Frank Herbert", 10)
	if len(got) != 1 || got[0].Title != "Dune" {
		t.Fatalf("expected only the exact title match, got %v", titles(got))
	}
}

func TestFilterAndRankEitherFieldSuffices(t *testing.T) {
	records := []metadata.Record{
		book("Children of Dune", "Frank Herbert"),     // author match only
		book("Dune", "Someone Unrelated"),             // title match only
		book("The Dispossessed", "Ursula K. Le Guin"), // neither
	}
	got := acquisition.Ranker{}.FilterAndRank(records, "Dune", "Frank Herbert", 10)
	want := []string{"Children of Dune", "Dune"}
	if fmt.Sprint(titles(got)) != fmt.Sprint(want) {
		t.Fatalf("got %v want %v", titles(got), want)
	}
}

func TestFilterAndRankAuthorOnlyQuery(t *testing.T) {
	records := []metadata.Record{
		book("Dune", "Frank Herbert"),
		book("The Dispossessed", "Ursula K. Le Guin"),
		book("Whipping Star", "HERBERT, FRANK"),
	}
	got := acquisition.Ranker{}.FilterAndRank(records, "", "Frank Herbert", 10)
	want := []string{"Dune", "Whipping Star"}
	if fmt.Sprint(titles(got)) != fmt.Sprint(want) {
		t.Fatalf("got %v want %v", titles(got), want)
	}
}

func TestFilterAndRankNeverExceedsLimit(t *testing.T) {
	records := make([]metadata.Record, 0, 25)
	for i := range 25 {
		records = append(records, book("Dune", fmt.Sprintf("Frank Herbert %d", i)))
	}
	for _, limit := range []int{1, 5, 10, 24, 25, 100} {
		got := acquisition.Ranker{}.FilterAndRank(records, "Dune", "Frank Herbert", limit)
		if len(got) > limit {
			t.Fatalf("limit %d: got %d records", limit, len(got))
		}
		if limit <= 25 && len(got) != limit {
			t.Fatalf("limit %d: expected full page, got %d", limit, len(got))
		}
	}
	if got := (acquisition.Ranker{}).FilterAndRank(records, "Dune", "", 0); got != nil {
		t.Fatalf("expected nil for zero limit, got %d records", len(got))
	}
}

func TestFilterAndRankPreservesOrderByDefault(t *testing.T) {
	records := []metadata.Record{book("Dunes", ""), book("Dune", "")}
	got := acquisition.Ranker{}.FilterAndRank(records, "Dune", "", 10)
	if fmt.Sprint(titles(got)) != fmt.Sprint([]string{"Dunes", "Dune"}) {
		t.Fatalf("expected input order, got %v", titles(got))
	}
}

func TestFilterAndRankSortByScore(t *testing.T) {
	records := []metadata.Record{book("Dunes", ""), book("Dune", ""), book("Dune", "")}
	records[2].Publisher = "second exact"
	got := acquisition.Ranker{SortByScore: true}.FilterAndRank(records, "Dune", "", 2)
	if len(got) != 2 || got[0].Title != "Dune" || got[1].Publisher != "second exact" {
		t.Fatalf("expected exact matches first in stable order, got %+v", got)
	}
}

func TestFilterAndRankISBNOnlyQuerySkipsFilter(t *testing.T) {
	records := []metadata.Record{book("Anything", "Anyone"), book("Else", "Entirely")}
	if got := (acquisition.Ranker{}).FilterAndRank(records, " ", "", 10); len(got) != 2 {
		t.Fatalf("expected all records for a query without title or author, got %d", len(got))
	}
}

func TestFilterAndRankCustomThreshold(t *testing.T) {
	records := []metadata.Record{book("Dune Messiah", "")}
	if got := (acquisition.Ranker{Threshold: 0.7}).FilterAndRank(records, "Dune", "", 10); len(got) != 1 {
		t.Fatalf("expected looser threshold to keep the sequel, got %d", len(got))
	}
	if got := (acquisition.Ranker{}).FilterAndRank(records, "Dune", "", 10); len(got) != 0 {
		t.Fatalf("expected default threshold to drop the sequel, got %d", len(got))
	}
}

func TestScoreRecordBlankQueryNeverMatches(t *testing.T) {
	score := acquisition.ScoreRecord(book("Dune", "Frank Herbert"), "", "")
	if score.Title != 1 || score.Author != 1 || score.Best() != 1 {
		t.Fatalf("expected blank query fields to score 1, got %+v", score)
	}
}
