// Package candidates builds the candidate universe of a query: the documents
// matching its words, narrowed by the filter, geo and vector pre-filters.
package candidates

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/resolver"
)

// Stage names, in application order.
const (
	StageDocuments = "documents"
	StageWords     = "words"
	StageFilter    = "filter"
	StageGeo       = "geo"
	StageVector    = "vector"
)

// Stage records the universe size after one narrowing step.
type Stage struct {
	Name        string `json:"name"`
	Cardinality uint64 `json:"cardinality"`
}

// Input holds the evaluated parts of a query. Nil sets are not applied.
type Input struct {
	Words  []resolver.ResolvedWord
	Filter *index.PostingSet
	Geo    *index.PostingSet
	Vector *index.PostingSet
}

// Options controls optional-word matching.
type Options struct {
	Strategy     string // config.MatchingAll, MatchingFallback or MatchingLast
	MaxWordDrops int
}

// Universe is the outcome of candidate building.
type Universe struct {
	Docs index.PostingSet
	// WordDocs[i] holds the documents containing any derivation of word i.
	WordDocs []index.PostingSet
	// Dropped lists the indexes of the words dropped by the matching
	// strategy, in drop order.
	Dropped []int
	Stages  []Stage
}

// Build computes the candidate universe. Stage cardinalities never increase.
func Build(ctx context.Context, snap index.Snapshot, in Input, opts Options) (*Universe, error) {
	all := snap.Documents()
	u := &Universe{Stages: []Stage{{Name: StageDocuments, Cardinality: all.Len()}}}

	wordDocs, err := fetchWordDocs(ctx, snap, in.Words)
	if err != nil {
		return nil, err
	}
	u.WordDocs = wordDocs

	docs := all
	if len(wordDocs) > 0 {
		docs, u.Dropped = matchWords(wordDocs, opts)
	}
	u.Stages = append(u.Stages, Stage{Name: StageWords, Cardinality: docs.Len()})

	for _, step := range []struct {
		name string
		set  *index.PostingSet
	}{
		{StageFilter, in.Filter},
		{StageGeo, in.Geo},
		{StageVector, in.Vector},
	} {
		if step.set == nil {
			continue
		}
		docs = docs.Intersect(*step.set)
		u.Stages = append(u.Stages, Stage{Name: step.name, Cardinality: docs.Len()})
	}
	u.Docs = docs
	return u, nil
}

// fetchWordDocs unions the postings of every derivation of each word. Words
// are fetched concurrently.
func fetchWordDocs(ctx context.Context, snap index.Snapshot, words []resolver.ResolvedWord) ([]index.PostingSet, error) {
	out := make([]index.PostingSet, len(words))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, w := range words {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sets := make([]index.PostingSet, 0, len(w.Derivations))
			for _, d := range w.Derivations {
				set, err := snap.PostingSet(d.Word)
				if err != nil {
					return errors.NewStorageError("posting set", err)
				}
				sets = append(sets, set)
			}
			out[i] = index.UnionAll(sets...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// matchWords intersects the per-word sets according to the matching
// strategy and returns the dropped words.
func matchWords(wordDocs []index.PostingSet, opts Options) (index.PostingSet, []int) {
	remaining := make([]bool, len(wordDocs))
	for i := range remaining {
		remaining[i] = true
	}
	intersect := func() index.PostingSet {
		var sets []index.PostingSet
		for i, ok := range remaining {
			if ok {
				sets = append(sets, wordDocs[i])
			}
		}
		return index.IntersectAll(sets...)
	}

	docs := intersect()
	if opts.Strategy != config.MatchingFallback && opts.Strategy != config.MatchingLast {
		return docs, nil
	}

	var dropped []int
	for len(dropped) < opts.MaxWordDrops && len(dropped) < len(wordDocs)-1 {
		if opts.Strategy == config.MatchingFallback && !docs.IsEmpty() {
			break
		}
		victim := leastInformative(wordDocs, remaining)
		remaining[victim] = false
		dropped = append(dropped, victim)

		level := intersect()
		if opts.Strategy == config.MatchingLast {
			docs.UnionInPlace(level)
		} else {
			docs = level
		}
	}
	return docs, dropped
}

// leastInformative picks the next word to drop: words matching nothing
// first, then the word with the largest posting set. Ties go to the later
// word.
func leastInformative(wordDocs []index.PostingSet, remaining []bool) int {
	victim := -1
	for i := len(wordDocs) - 1; i >= 0; i-- {
		if !remaining[i] {
			continue
		}
		if wordDocs[i].IsEmpty() {
			return i
		}
		if victim < 0 || wordDocs[i].Len() > wordDocs[victim].Len() {
			victim = i
		}
	}
	return victim
}
