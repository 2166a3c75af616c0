package ranking

import (
	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/vector"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// Sort orders documents by the value of a facet field. Values ascend from
// numbers to strings to booleans, or the reverse when Descending. A
// document holding several values sorts by its first one in that order.
// Documents without a value come last in both directions. Custom marks a
// ranking rule declared in the index settings rather than a query sort.
type Sort struct {
	Field      string
	Descending bool
	Custom     bool
}

func (s Sort) Name() string {
	dir := "asc"
	if s.Descending {
		dir = "desc"
	}
	if s.Custom {
		return s.Field + ":" + dir
	}
	return "sort(" + s.Field + ":" + dir + ")"
}

func (s Sort) Rank(ctx *Context, bucket index.PostingSet) (BucketIterator, error) {
	entries, err := ctx.Snapshot.FacetValues(s.Field)
	if err != nil {
		return nil, errors.NewStorageError("facet values "+s.Field, err)
	}
	it := &facetIterator{entries: entries, pos: 0, step: 1, remaining: bucket.Clone()}
	if s.Descending {
		it.pos, it.step = len(entries)-1, -1
	}
	return it, nil
}

// facetIterator walks facet values one at a time, so only the values needed
// to fill the requested page are intersected with the bucket.
type facetIterator struct {
	entries   []index.FacetEntry
	pos, step int
	remaining index.PostingSet
}

func (it *facetIterator) Next() (index.PostingSet, bool, error) {
	for !it.remaining.IsEmpty() && it.pos >= 0 && it.pos < len(it.entries) {
		x := it.remaining.Intersect(it.entries[it.pos].Docs)
		it.pos += it.step
		if !x.IsEmpty() {
			it.remaining.DifferenceInPlace(x)
			return x, true, nil
		}
	}
	if !it.remaining.IsEmpty() {
		tail := it.remaining
		it.remaining = index.PostingSet{}
		return tail, true, nil
	}
	return index.PostingSet{}, false, nil
}

// GeoSort orders documents by their distance to Point, closest first unless
// Descending. Documents without a point come last.
type GeoSort struct {
	Point      model.GeoPoint
	Descending bool
}

func (g GeoSort) Name() string {
	if g.Descending {
		return "_geoPoint:desc"
	}
	return "_geoPoint:asc"
}

func (g GeoSort) Rank(ctx *Context, bucket index.PostingSet) (BucketIterator, error) {
	items := make([]scored, 0, bucket.Len())
	tail := index.NewPostingSet()
	n := 0
	for id := range bucket.All() {
		if interrupted(ctx, n) {
			return single(bucket), nil
		}
		n++
		p, ok := ctx.Snapshot.GeoPoint(id)
		if !ok {
			tail.Add(id)
			continue
		}
		items = append(items, scored{id: id, key: g.Point.DistanceMeters(p)})
	}
	return newGroupIterator(items, g.Descending, tail), nil
}

// Vector orders documents by their distance to the query vector as returned
// by the nearest neighbour search, closest first. Documents outside the
// neighbour list come last.
type Vector struct {
	distances map[model.DocumentID]float32
}

// NewVector builds the vector criterion from a neighbour list.
func NewVector(neighbors []vector.Neighbor) Vector {
	d := make(map[model.DocumentID]float32, len(neighbors))
	for _, n := range neighbors {
		d[n.ID] = n.Distance
	}
	return Vector{distances: d}
}

func (Vector) Name() string { return config.RuleVector }

func (v Vector) Rank(ctx *Context, bucket index.PostingSet) (BucketIterator, error) {
	items := make([]scored, 0, min(bucket.Len(), uint64(len(v.distances))))
	listed := index.NewPostingSet()
	for id, d := range v.distances {
		if bucket.Contains(id) {
			items = append(items, scored{id: id, key: float64(d)})
			listed.Add(id)
		}
	}
	return newGroupIterator(items, false, bucket.Difference(listed)), nil
}
