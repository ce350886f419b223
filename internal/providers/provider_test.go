package providers

import "testing"

func TestQueryNormalizedTrims(t *testing.T) {
	got := Query{Title: "  Dune ", Author: "\tHerbert", ISBN: " 978 ", Limit: 5}.Normalized()
	want := Query{Title: "Dune", Author: "Herbert", ISBN: "978", Limit: 5}
	if got != want {
		t.Fatalf("Normalized() = %+v, want %+v", got, want)
	}
}

func TestQueryIsEmpty(t *testing.T) {
	tests := []struct {
		query Query
		want  bool
	}{
		{Query{}, true},
		{Query{Title: "   ", Author: "\n"}, true},
		{Query{Title: "Dune"}, false},
		{Query{Author: "Herbert"}, false},
		{Query{ISBN: "9780441013593"}, false},
	}
	for _, tc := range tests {
		if got := tc.query.IsEmpty(); got != tc.want {
			t.Errorf("IsEmpty(%+v) = %v, want %v", tc.query, got, tc.want)
		}
	}
}
