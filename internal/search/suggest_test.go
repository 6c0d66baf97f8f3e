package search

import (
	"testing"
)

func TestSuggest(t *testing.T) {
	got := Suggest("test")
	want := []string{"test hd", "test compilation", "test amateur", "test pov", "best test"}
	if len(got) != len(want) {
		t.Fatalf("Suggest(test) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Suggest(test)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSuggestTrimsInput(t *testing.T) {
	got := Suggest("  spaced  ")
	if len(got) == 0 || got[0] != "spaced hd" {
		t.Errorf("Suggest should trim the query, got %v", got)
	}
}

func TestSuggestEmptyQuery(t *testing.T) {
	if got := Suggest("   "); got != nil {
		t.Errorf("Suggest(blank) = %v, want nil", got)
	}
}

func TestSuggestDeterministic(t *testing.T) {
	a := Suggest("query")
	b := Suggest("query")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("Suggest must be deterministic")
		}
	}
}
