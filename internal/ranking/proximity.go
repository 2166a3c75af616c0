package ranking

import (
	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
)

// Proximity ranks documents by the sum, over adjacent query word pairs, of
// the minimal distance between the two words, lowest first. A pair that is
// absent or not within index.MaxProximity counts as MaxProximity.
type Proximity struct{}

func (Proximity) Name() string { return config.RuleProximity }

func (Proximity) Rank(ctx *Context, bucket index.PostingSet) (BucketIterator, error) {
	if len(ctx.Words) < 2 {
		return single(bucket), nil
	}
	parts := make([][]index.PostingSet, 0, len(ctx.Words)-1)
	missing := make([]int, 0, len(ctx.Words)-1)
	for i := 0; i+1 < len(ctx.Words); i++ {
		levels, err := ctx.pairDistances(i)
		if err != nil {
			return nil, err
		}
		parts = append(parts, levels)
		missing = append(missing, MaxProximity)
	}
	totals := sumLevels(bucket, parts, missing)
	return newSliceIterator(totals), nil
}
