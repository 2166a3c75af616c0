package typoutil

// Automaton is a Damerau-Levenshtein automaton for one query word. It is fed
// a candidate word rune by rune, so a trie can be walked while sharing the
// work for common prefixes and pruning subtrees that can no longer match.
// An Automaton is immutable and safe for concurrent use.
type Automaton struct {
	query []rune
	max   int
}

// State is the automaton state after consuming some prefix of a candidate.
type State struct {
	row   []int
	prev  []int
	last  rune
	depth int
}

// NewAutomaton builds an automaton accepting words within maxDistance of word.
func NewAutomaton(word string, maxDistance int) *Automaton {
	if maxDistance < 0 {
		maxDistance = 0
	}
	return &Automaton{query: []rune(word), max: maxDistance}
}

// MaxDistance returns the acceptance threshold.
func (a *Automaton) MaxDistance() int { return a.max }

// Start returns the state for the empty candidate.
func (a *Automaton) Start() State {
	row := make([]int, len(a.query)+1)
	for j := range row {
		row[j] = j
	}
	return State{row: row}
}

// Step consumes one rune of the candidate.
func (a *Automaton) Step(s State, c rune) State {
	n := len(a.query)
	next := make([]int, n+1)
	next[0] = s.row[0] + 1
	for j := 1; j <= n; j++ {
		cost := 1
		if a.query[j-1] == c {
			cost = 0
		}
		next[j] = min(s.row[j]+1, next[j-1]+1, s.row[j-1]+cost)
		if s.depth > 0 && j > 1 && c == a.query[j-2] && s.last == a.query[j-1] {
			next[j] = min(next[j], s.prev[j-2]+cost)
		}
	}
	return State{row: next, prev: s.row, last: c, depth: s.depth + 1}
}

// Distance is the edit distance between the query and the consumed candidate.
func (s State) Distance() int { return s.row[len(s.row)-1] }

// IsMatch reports whether the consumed candidate is accepted.
func (a *Automaton) IsMatch(s State) bool { return s.Distance() <= a.max }

// CanMatch reports whether some extension of the consumed candidate could
// still be accepted. Future rows never drop below the current row minimum,
// or the previous row minimum plus one for a pending transposition.
func (a *Automaton) CanMatch(s State) bool {
	for _, v := range s.row {
		if v <= a.max {
			return true
		}
	}
	for _, v := range s.prev {
		if v+1 <= a.max {
			return true
		}
	}
	return false
}
