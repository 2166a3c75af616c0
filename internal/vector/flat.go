package vector

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// Neighbor is one ANN result.
type Neighbor struct {
	ID       model.DocumentID
	Distance float32
}

// Index answers nearest-neighbour queries. Results are ordered by
// (distance, ID) and are deterministic for a fixed index.
type Index interface {
	// Search returns up to k neighbours of query. When restrict is non-nil
	// only its members are considered.
	Search(ctx context.Context, query []float32, k int, restrict *index.PostingSet) ([]Neighbor, error)
	// Dimensions returns the expected vector length.
	Dimensions() int
}

// Flat is an exact brute-force index. It is immutable once built and safe
// for concurrent searches.
type Flat struct {
	dim     int
	metric  Metric
	ids     []model.DocumentID
	vectors []float32
	pos     map[model.DocumentID]int
}

// NewFlat creates an empty flat index.
func NewFlat(dim int, metric Metric) *Flat {
	return &Flat{dim: dim, metric: metric, pos: make(map[model.DocumentID]int)}
}

// Add stores the vector of id, replacing any previous one.
func (f *Flat) Add(id model.DocumentID, v []float32) error {
	if len(v) != f.dim {
		return fmt.Errorf("vector for document %d has %d dimensions, expected %d", id, len(v), f.dim)
	}
	if i, ok := f.pos[id]; ok {
		copy(f.vectors[i*f.dim:(i+1)*f.dim], v)
		return nil
	}
	f.pos[id] = len(f.ids)
	f.ids = append(f.ids, id)
	f.vectors = append(f.vectors, v...)
	return nil
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.ids) }

// Dimensions returns the vector length.
func (f *Flat) Dimensions() int { return f.dim }

// Search scans every stored vector.
func (f *Flat) Search(ctx context.Context, query []float32, k int, restrict *index.PostingSet) ([]Neighbor, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("query vector has %d dimensions, expected %d", len(query), f.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	out := make([]Neighbor, 0, min(k, len(f.ids)))
	for i, id := range f.ids {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if restrict != nil && !restrict.Contains(id) {
			continue
		}
		out = append(out, Neighbor{ID: id, Distance: f.metric.Distance(query, f.vectors[i*f.dim:(i+1)*f.dim])})
	}
	slices.SortFunc(out, func(a, b Neighbor) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}
