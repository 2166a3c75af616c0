package typoutil

import (
	"reflect"
	"sort"
	"testing"
)

func TestCalculateDamerauLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "hello", 5},
		{"hello", "", 5},
		{"hello", "hello", 0},
		{"kitten", "sitten", 1},
		{"apple", "applye", 1},
		{"banana", "banna", 1},
		{"cliché", "cliche", 1},
		{"résumé", "resume", 2},
		{"quikc", "quick", 1},
		{"ab", "ba", 1},
		{"abc", "ca", 3},
		{"teh", "the", 1},
		{"saturday", "sunday", 3},
		{"fox", "foxes", 2},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := CalculateDamerauLevenshteinDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("CalculateDamerauLevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCalculateDamerauLevenshteinDistanceWithLimit(t *testing.T) {
	if got := CalculateDamerauLevenshteinDistanceWithLimit("kitten", "sitting", 1); got != 2 {
		t.Errorf("expected limit+1 = 2, got %d", got)
	}
	if got := CalculateDamerauLevenshteinDistanceWithLimit("kitten", "sitting", 3); got != 3 {
		t.Errorf("expected exact distance 3, got %d", got)
	}
	if got := CalculateDamerauLevenshteinDistanceWithLimit("a", "abcdef", 2); got != 3 {
		t.Errorf("length difference should short-circuit, got %d", got)
	}
}

func TestGenerateTypos(t *testing.T) {
	allIndexedTerms := []string{"apple", "apply", "apricot", "banana", "bandana", "orange", "search", "serch", "seech"}

	tests := []struct {
		name         string
		term         string
		indexedTerms []string
		maxDistance  int
		want         []string
	}{
		{"no typos, exact match in list", "apple", allIndexedTerms, 1, []string{"apply"}}, // "apple" itself is skipped
		{"single typo found", "serch", allIndexedTerms, 1, []string{"search", "seech"}},
		{"deletion typo", "aple", allIndexedTerms, 1, []string{"apple"}}, // "apply" has distance 2, so excluded
		{"no typos, distance too small", "apricot", allIndexedTerms, 0, []string{}},
		{"no typos, term not similar to any", "kiwi", allIndexedTerms, 2, []string{}},
		{"typos with distance 2", "serc", allIndexedTerms, 2, []string{"search", "serch", "seech"}},
		{"empty indexed terms", "apple", []string{}, 1, []string{}},
		{"empty term", "", allIndexedTerms, 1, []string{}}, // Levenshtein of "" to "word" is len(word)
		{"maxDistance 0", "apple", allIndexedTerms, 0, []string{}},
		{"term is in list, check others", "bandana", allIndexedTerms, 1, []string{"banana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateTypos(tt.term, tt.indexedTerms, tt.maxDistance)
			// Sort both slices for consistent comparison as order doesn't matter for typos
			sort.Strings(got)
			sort.Strings(tt.want)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GenerateTypos(%q, ..., %d) = %v, want %v", tt.term, tt.maxDistance, got, tt.want)
			}
		})
	}
}
