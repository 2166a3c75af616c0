package typoutil

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

// walk feeds every candidate through the automaton the way a trie walk
// would, pruning on CanMatch.
func acceptedBy(a *Automaton, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		s := a.Start()
		pruned := false
		for _, r := range c {
			if !a.CanMatch(s) {
				pruned = true
				break
			}
			s = a.Step(s, r)
		}
		if !pruned && a.IsMatch(s) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

func TestAutomaton_MatchesBruteForce(t *testing.T) {
	terms := []string{
		"quick", "quack", "quiet", "quikc", "qiuck", "uqick", "quicker", "quickly",
		"brown", "crown", "brow", "browns", "fox", "foxes", "box", "fix", "ofx",
		"search", "serch", "seach", "saerch", "research", "a", "ab", "ba", "",
	}
	queries := []string{"quikc", "brwon", "fox", "serach", "ab", "researhc"}

	for _, q := range queries {
		for maxDist := 0; maxDist <= 2; maxDist++ {
			a := NewAutomaton(q, maxDist)
			var want []string
			for _, term := range terms {
				if CalculateDamerauLevenshteinDistance(q, term) <= maxDist {
					want = append(want, term)
				}
			}
			sort.Strings(want)
			assert.Equal(t, want, acceptedBy(a, terms), "query %q maxDist %d", q, maxDist)
		}
	}
}

func TestAutomaton_Distance(t *testing.T) {
	a := NewAutomaton("quikc", 2)
	s := a.Start()
	for _, r := range "quick" {
		s = a.Step(s, r)
	}
	assert.Equal(t, 1, s.Distance())
	assert.True(t, a.IsMatch(s))
}

func TestAutomaton_PrunesDeadBranches(t *testing.T) {
	a := NewAutomaton("fox", 1)
	s := a.Start()
	for _, r := range "zzz" {
		s = a.Step(s, r)
	}
	assert.False(t, a.CanMatch(s))
}
