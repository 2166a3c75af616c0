package ranking

import (
	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
)

// Attribute ranks documents by the sum, over the query words they contain,
// of the rank of the first searchable field the word appears in, lowest
// first.
type Attribute struct{}

func (Attribute) Name() string { return config.RuleAttribute }

func (Attribute) Rank(ctx *Context, bucket index.PostingSet) (BucketIterator, error) {
	if len(ctx.Words) == 0 {
		return single(bucket), nil
	}
	items := make([]scored, 0, bucket.Len())
	for id := range bucket.All() {
		if interrupted(ctx, len(items)) {
			return single(bucket), nil
		}
		sum := 0
		for i, w := range ctx.Words {
			if !ctx.WordDocs[i].Contains(id) {
				continue
			}
			best := -1
			for _, d := range w.Derivations {
				positions, err := ctx.Snapshot.Positions(id, d.Word)
				if err != nil {
					return nil, errors.NewStorageError("positions", err)
				}
				if rank, ok := positions.MinFieldRank(); ok && (best < 0 || int(rank) < best) {
					best = int(rank)
					if best == 0 {
						break
					}
				}
			}
			if best > 0 {
				sum += best
			}
		}
		items = append(items, scored{id: id, key: float64(sum)})
	}
	return newGroupIterator(items, false, index.PostingSet{}), nil
}
