package textutil

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Distance returns the normalized edit distance between a and b after
// normalization: 0.0 means identical, 1.0 means nothing in common. The smaller
// of the direct and token-sorted distances is returned. An empty side always
// scores 1.0 because it carries no signal.
func Distance(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 1
	}
	if na == nb {
		return 0
	}
	direct := ratio(na, nb)
	sorted := ratio(sortTokens(na), sortTokens(nb))
	if sorted < direct {
		return sorted
	}
	return direct
}

func ratio(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	d := float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
	if d > 1 {
		return 1
	}
	return d
}

func sortTokens(text string) string {
	tokens := strings.Fields(text)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
