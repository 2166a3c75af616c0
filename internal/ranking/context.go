package ranking

import (
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/resolver"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// MaxProximity is the distance of word pairs that are absent, further than
// index.MaxProximity apart, or in different fields.
const MaxProximity = index.MaxProximity + 1

// maxCost is the highest derivation cost, two typos.
const maxCost = 2 * resolver.CostPerTypo

// Context carries the per-query state shared by the criteria of one bucket
// sort. Derived sets are computed on first use and cached for the query.
type Context struct {
	Snapshot index.Snapshot
	Words    []resolver.ResolvedWord
	// WordDocs[i] holds the documents containing word i, as computed by the
	// candidate builder.
	WordDocs []index.PostingSet
	Budget   *Budget

	costSets  [][]index.PostingSet
	exactSets []index.PostingSet
	pairSets  map[int][]index.PostingSet
}

// NewContext creates a ranking context.
func NewContext(snap index.Snapshot, words []resolver.ResolvedWord, wordDocs []index.PostingSet, budget *Budget) *Context {
	return &Context{
		Snapshot: snap,
		Words:    words,
		WordDocs: wordDocs,
		Budget:   budget,
		pairSets: make(map[int][]index.PostingSet),
	}
}

func (c *Context) postings(word model.WordID) (index.PostingSet, error) {
	set, err := c.Snapshot.PostingSet(word)
	if err != nil {
		return index.PostingSet{}, errors.NewStorageError("posting set", err)
	}
	return set, nil
}

// wordCosts returns, per word, the documents whose cheapest derivation of
// that word has cost c at index c.
func (c *Context) wordCosts() ([][]index.PostingSet, error) {
	if c.costSets != nil {
		return c.costSets, nil
	}
	out := make([][]index.PostingSet, len(c.Words))
	for i, w := range c.Words {
		levels := make([]index.PostingSet, maxCost+1)
		seen := index.NewPostingSet()
		for _, d := range w.Derivations {
			set, err := c.postings(d.Word)
			if err != nil {
				return nil, err
			}
			fresh := set.Difference(seen)
			levels[d.Cost()].UnionInPlace(fresh)
			seen.UnionInPlace(fresh)
		}
		out[i] = levels
	}
	c.costSets = out
	return out, nil
}

// exactDocs returns, per word, the documents containing the word itself
// without typo or prefix expansion.
func (c *Context) exactDocs() ([]index.PostingSet, error) {
	if c.exactSets != nil {
		return c.exactSets, nil
	}
	out := make([]index.PostingSet, len(c.Words))
	for i, w := range c.Words {
		out[i] = index.NewPostingSet()
		for _, d := range w.Derivations {
			if !d.IsExact() {
				continue
			}
			set, err := c.postings(d.Word)
			if err != nil {
				return nil, err
			}
			out[i] = set
		}
	}
	c.exactSets = out
	return out, nil
}

// exactWord returns the lexicon ID of word i itself.
func (c *Context) exactWord(i int) (model.WordID, bool) {
	for _, d := range c.Words[i].Derivations {
		if d.IsExact() {
			return d.Word, true
		}
	}
	return 0, false
}

// pairDistances returns, for the adjacent query words i and i+1, the
// documents whose minimal distance between any of their derivations is d at
// index d, for d in 1..index.MaxProximity.
func (c *Context) pairDistances(i int) ([]index.PostingSet, error) {
	if sets, ok := c.pairSets[i]; ok {
		return sets, nil
	}
	levels := make([]index.PostingSet, index.MaxProximity+1)
	for _, a := range c.Words[i].Derivations {
		for _, b := range c.Words[i+1].Derivations {
			byDistance, err := c.Snapshot.Proximity(a.Word, b.Word)
			if err != nil {
				return nil, errors.NewStorageError("proximity", err)
			}
			for d, set := range byDistance {
				if d >= 1 && d <= index.MaxProximity {
					levels[d].UnionInPlace(set)
				}
			}
		}
	}
	// keep only the minimal distance of each document
	seen := index.NewPostingSet()
	for d := 1; d <= index.MaxProximity; d++ {
		levels[d].DifferenceInPlace(seen)
		seen.UnionInPlace(levels[d])
	}
	c.pairSets[i] = levels
	return levels, nil
}
