// Package ranking orders a candidate universe with a pipeline of criteria
// using a lazy bucket sort: each criterion splits a bucket into ordered
// sub-buckets, and only the buckets needed for the requested page are
// refined further.
package ranking

import (
	"cmp"
	"slices"

	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// BucketIterator yields the sub-buckets of a bucket, most relevant first.
// Sub-buckets are non-empty, disjoint, and together cover the bucket.
type BucketIterator interface {
	Next() (index.PostingSet, bool, error)
}

// Criterion is one ranking rule.
type Criterion interface {
	Name() string
	// Rank splits bucket into ordered sub-buckets. bucket must not be
	// modified.
	Rank(ctx *Context, bucket index.PostingSet) (BucketIterator, error)
}

// sliceIterator yields precomputed buckets, skipping empty ones.
type sliceIterator struct {
	buckets []index.PostingSet
	pos     int
}

func newSliceIterator(buckets []index.PostingSet) *sliceIterator {
	return &sliceIterator{buckets: buckets}
}

func (it *sliceIterator) Next() (index.PostingSet, bool, error) {
	for it.pos < len(it.buckets) {
		b := it.buckets[it.pos]
		it.pos++
		if !b.IsEmpty() {
			return b, true, nil
		}
	}
	return index.PostingSet{}, false, nil
}

// scoreCheckInterval is the number of documents a per-document criterion
// scores between two budget checks.
const scoreCheckInterval = 256

// interrupted reports, every scoreCheckInterval documents, whether the
// budget ran out. A criterion interrupted this way returns its bucket
// unrefined and the pipeline flushes it on its next step.
func interrupted(ctx *Context, scored int) bool {
	return scored%scoreCheckInterval == 0 && !ctx.Budget.Check()
}

func single(bucket index.PostingSet) BucketIterator {
	return newSliceIterator([]index.PostingSet{bucket})
}

func reversed(buckets []index.PostingSet) []index.PostingSet {
	out := slices.Clone(buckets)
	slices.Reverse(out)
	return out
}

// sumLevels partitions bucket by the sum over parts of the level each
// document has in that part. parts[p][l] holds the documents at level l of
// part p; documents absent from every level of a part get missing[p]. The
// result is indexed by total.
func sumLevels(bucket index.PostingSet, parts [][]index.PostingSet, missing []int) []index.PostingSet {
	totals := []index.PostingSet{bucket.Clone()}
	for p, levels := range parts {
		width := len(levels)
		if missing[p]+1 > width {
			width = missing[p] + 1
		}
		next := make([]index.PostingSet, len(totals)+width-1)
		for sum, set := range totals {
			if set.IsEmpty() {
				continue
			}
			rest := set.Clone()
			for level, docs := range levels {
				if rest.IsEmpty() {
					break
				}
				x := rest.Intersect(docs)
				if x.IsEmpty() {
					continue
				}
				next[sum+level].UnionInPlace(x)
				rest.DifferenceInPlace(x)
			}
			if !rest.IsEmpty() {
				next[sum+missing[p]].UnionInPlace(rest)
			}
		}
		totals = next
	}
	return totals
}

// scored pairs a document with a sort key.
type scored struct {
	id  model.DocumentID
	key float64
}

// groupIterator yields documents grouped by equal key in ascending key
// order, then tail as a final bucket.
type groupIterator struct {
	items []scored
	pos   int
	tail  index.PostingSet
	done  bool
}

func newGroupIterator(items []scored, descending bool, tail index.PostingSet) *groupIterator {
	slices.SortFunc(items, func(a, b scored) int {
		c := cmp.Compare(a.key, b.key)
		if descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return &groupIterator{items: items, tail: tail}
}

func (it *groupIterator) Next() (index.PostingSet, bool, error) {
	if it.pos < len(it.items) {
		key := it.items[it.pos].key
		set := index.NewPostingSet()
		for it.pos < len(it.items) && it.items[it.pos].key == key {
			set.Add(it.items[it.pos].id)
			it.pos++
		}
		return set, true, nil
	}
	if !it.done {
		it.done = true
		if !it.tail.IsEmpty() {
			return it.tail, true, nil
		}
	}
	return index.PostingSet{}, false, nil
}
