package ranking

import (
	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
)

// Typo ranks documents by the summed cost of the cheapest derivation of each
// query word they contain, lowest first. Absent words cost nothing.
type Typo struct{}

func (Typo) Name() string { return config.RuleTypo }

func (Typo) Rank(ctx *Context, bucket index.PostingSet) (BucketIterator, error) {
	if len(ctx.Words) == 0 {
		return single(bucket), nil
	}
	costs, err := ctx.wordCosts()
	if err != nil {
		return nil, err
	}
	totals := sumLevels(bucket, costs, make([]int, len(costs)))
	return newSliceIterator(totals), nil
}
