package typoutil

import (
	"strings"
	"unicode/utf8"
)

// Policy decides how many typos a query word may carry, based on its length
// in runes. Words shorter than MinWordSizeFor1Typo get none, words shorter
// than MinWordSizeFor2Typos get one, longer words get two; MaxTypos caps
// the result.
type Policy struct {
	MinWordSizeFor1Typo  int
	MinWordSizeFor2Typos int
	MaxTypos             int
	nonTolerant          map[string]struct{}
}

// NewPolicy builds a policy. Words in nonTypoTolerant (case-insensitive)
// never get typos.
func NewPolicy(minWordSizeFor1Typo, minWordSizeFor2Typos, maxTypos int, nonTypoTolerant []string) Policy {
	p := Policy{
		MinWordSizeFor1Typo:  minWordSizeFor1Typo,
		MinWordSizeFor2Typos: minWordSizeFor2Typos,
		MaxTypos:             maxTypos,
		nonTolerant:          make(map[string]struct{}, len(nonTypoTolerant)),
	}
	for _, w := range nonTypoTolerant {
		p.nonTolerant[strings.ToLower(w)] = struct{}{}
	}
	return p
}

// AllowedTypos returns the edit distance budget for word.
func (p Policy) AllowedTypos(word string) int {
	if !p.IsTypoTolerant(word) {
		return 0
	}
	n := utf8.RuneCountInString(word)
	allowed := 0
	switch {
	case n >= p.MinWordSizeFor2Typos:
		allowed = 2
	case n >= p.MinWordSizeFor1Typo:
		allowed = 1
	}
	return min(allowed, p.MaxTypos)
}

// IsTypoTolerant reports whether word may be matched with typos at all, and
// whether a typo match may resolve to it.
func (p Policy) IsTypoTolerant(word string) bool {
	_, blocked := p.nonTolerant[strings.ToLower(word)]
	return !blocked
}
