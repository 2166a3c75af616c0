// Package lexicon implements the immutable word dictionary of a snapshot: a
// sorted word list for exact and prefix lookups and a rune trie walked by a
// Damerau-Levenshtein automaton for typo matching.
package lexicon

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/typoutil"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// Lexicon maps words to dense WordIDs assigned in lexicographic order.
type Lexicon struct {
	words []string
	ids   map[string]model.WordID
	nodes []node
}

type node struct {
	edges []edge
	word  int32
}

type edge struct {
	r     rune
	child int32
}

// New builds a lexicon from words; duplicates and empty words are ignored.
func New(words []string) *Lexicon {
	sorted := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			sorted = append(sorted, w)
		}
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	lx := &Lexicon{
		words: sorted,
		ids:   make(map[string]model.WordID, len(sorted)),
		nodes: []node{{word: -1}},
	}
	for i, w := range sorted {
		lx.ids[w] = model.WordID(i)
		lx.insert(w, int32(i))
	}
	return lx
}

func (lx *Lexicon) insert(word string, id int32) {
	cur := int32(0)
	for _, r := range word {
		edges := lx.nodes[cur].edges
		pos, found := slices.BinarySearchFunc(edges, r, func(e edge, target rune) int {
			return cmp.Compare(e.r, target)
		})
		if found {
			cur = edges[pos].child
			continue
		}
		child := int32(len(lx.nodes))
		lx.nodes = append(lx.nodes, node{word: -1})
		lx.nodes[cur].edges = slices.Insert(lx.nodes[cur].edges, pos, edge{r: r, child: child})
		cur = child
	}
	lx.nodes[cur].word = id
}

// Len returns the number of distinct words.
func (lx *Lexicon) Len() int { return len(lx.words) }

// Words returns the words in WordID order. The slice must not be modified.
func (lx *Lexicon) Words() []string { return lx.words }

// ResolveWord returns the ID of text if it is in the lexicon.
func (lx *Lexicon) ResolveWord(text string) (model.WordID, bool) {
	id, ok := lx.ids[text]
	return id, ok
}

// Word returns the text of id.
func (lx *Lexicon) Word(id model.WordID) (string, bool) {
	if int(id) >= len(lx.words) {
		return "", false
	}
	return lx.words[id], true
}

// PrefixMatch returns the IDs of all words starting with prefix in ascending
// order, including prefix itself when present. A positive limit caps the
// result.
func (lx *Lexicon) PrefixMatch(prefix string, limit int) []model.WordID {
	if prefix == "" {
		return nil
	}
	start := sort.SearchStrings(lx.words, prefix)
	var out []model.WordID
	for i := start; i < len(lx.words) && strings.HasPrefix(lx.words[i], prefix); i++ {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, model.WordID(i))
	}
	return out
}

// FuzzyMatch returns every word within maxEditDistance of text, the exact
// word included at distance 0, ordered by (distance, WordID).
func (lx *Lexicon) FuzzyMatch(text string, maxEditDistance int) []index.WordMatch {
	if text == "" || maxEditDistance < 0 {
		return nil
	}
	a := typoutil.NewAutomaton(text, maxEditDistance)
	var out []index.WordMatch
	lx.walk(a, 0, a.Start(), &out)
	slices.SortFunc(out, func(x, y index.WordMatch) int {
		if c := cmp.Compare(x.Distance, y.Distance); c != 0 {
			return c
		}
		return cmp.Compare(x.Word, y.Word)
	})
	return out
}

func (lx *Lexicon) walk(a *typoutil.Automaton, n int32, s typoutil.State, out *[]index.WordMatch) {
	nd := &lx.nodes[n]
	if nd.word >= 0 && a.IsMatch(s) {
		*out = append(*out, index.WordMatch{Word: model.WordID(nd.word), Distance: uint8(s.Distance())})
	}
	if !a.CanMatch(s) {
		return
	}
	for _, e := range nd.edges {
		lx.walk(a, e.child, a.Step(s, e.r), out)
	}
}
