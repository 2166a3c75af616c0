package ranking

import (
	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
)

// Words ranks documents by the number of distinct query words they contain,
// most first.
type Words struct{}

func (Words) Name() string { return config.RuleWords }

func (Words) Rank(ctx *Context, bucket index.PostingSet) (BucketIterator, error) {
	seen := make(map[string]bool, len(ctx.Words))
	var parts [][]index.PostingSet
	for i, w := range ctx.Words {
		if seen[w.Term.Text] {
			continue
		}
		seen[w.Term.Text] = true
		parts = append(parts, []index.PostingSet{{}, ctx.WordDocs[i]})
	}
	if len(parts) <= 1 {
		return single(bucket), nil
	}
	totals := sumLevels(bucket, parts, make([]int, len(parts)))
	return newSliceIterator(reversed(totals)), nil
}
