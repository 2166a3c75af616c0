package ranking

import (
	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// Exactness levels, best first.
const (
	ExactFieldEquals = iota // a field holds exactly the query
	ExactPhrase             // a field holds the query words as a contiguous sequence
	ExactWords              // every query word present matched without typo or prefix
	ExactNone
)

// Exactness ranks documents matching the query verbatim above those that
// matched through typos or prefixes.
type Exactness struct{}

func (Exactness) Name() string { return config.RuleExactness }

func (Exactness) Rank(ctx *Context, bucket index.PostingSet) (BucketIterator, error) {
	if len(ctx.Words) == 0 {
		return single(bucket), nil
	}
	exact, err := ctx.exactDocs()
	if err != nil {
		return nil, err
	}

	levels := make([]index.PostingSet, ExactNone+1)

	// a document can only hold the phrase if it holds every word exactly
	phraseCandidates := bucket.Clone()
	wordIDs := make([]model.WordID, len(ctx.Words))
	for i := range ctx.Words {
		id, ok := ctx.exactWord(i)
		if !ok {
			phraseCandidates = index.NewPostingSet()
			break
		}
		wordIDs[i] = id
		phraseCandidates.IntersectInPlace(exact[i])
	}
	n := 0
	for id := range phraseCandidates.All() {
		if interrupted(ctx, n) {
			return single(bucket), nil
		}
		n++
		level, err := phraseLevel(ctx.Snapshot, id, wordIDs)
		if err != nil {
			return nil, err
		}
		levels[level].Add(id)
	}

	rest := bucket.Difference(levels[ExactFieldEquals]).Difference(levels[ExactPhrase])
	allExact := rest.Clone()
	for i := range ctx.Words {
		// absent words do not spoil exactness
		allExact.DifferenceInPlace(ctx.WordDocs[i].Difference(exact[i]))
	}
	levels[ExactWords] = allExact
	levels[ExactNone] = rest.Difference(allExact)
	return newSliceIterator(levels), nil
}

// phraseLevel checks whether doc holds words as a contiguous sequence in one
// field, and whether that field holds nothing else.
func phraseLevel(snap index.Snapshot, doc model.DocumentID, words []model.WordID) (int, error) {
	first, err := snap.Positions(doc, words[0])
	if err != nil {
		return 0, errors.NewStorageError("positions", err)
	}
	rest := make([]index.PositionList, len(words))
	for i := 1; i < len(words); i++ {
		if rest[i], err = snap.Positions(doc, words[i]); err != nil {
			return 0, errors.NewStorageError("positions", err)
		}
	}

	best := ExactWords
	for _, p := range first {
		found := true
		for i := 1; i < len(words); i++ {
			if !rest[i].Has(p.FieldRank, p.Offset+uint32(i)) {
				found = false
				break
			}
		}
		if !found {
			continue
		}
		if p.Offset == 0 {
			n, err := snap.FieldLength(doc, p.FieldRank)
			if err != nil {
				return 0, errors.NewStorageError("field length", err)
			}
			if n == len(words) {
				return ExactFieldEquals, nil
			}
		}
		best = ExactPhrase
	}
	return best, nil
}
