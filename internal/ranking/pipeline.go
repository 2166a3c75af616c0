package ranking

import (
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// Result is a page of ranked documents. Exhaustive is false when the budget
// ran out and part of the page was emitted without full refinement.
type Result struct {
	IDs        []model.DocumentID
	Exhaustive bool
}

// Pipeline is an ordered list of criteria. It holds no per-query state and
// may be shared.
type Pipeline struct {
	criteria []Criterion
}

// NewPipeline creates a pipeline applying criteria in order.
func NewPipeline(criteria ...Criterion) *Pipeline {
	return &Pipeline{criteria: criteria}
}

// Criteria returns the criteria in order.
func (p *Pipeline) Criteria() []Criterion { return p.criteria }

// Names returns the criteria names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.criteria))
	for i, c := range p.criteria {
		names[i] = c.Name()
	}
	return names
}

type frame struct {
	depth     int
	iter      BucketIterator
	remaining index.PostingSet // not yet yielded by iter
}

type sorter struct {
	criteria []Criterion
	ctx      *Context
	stack    []frame
	skip     uint64
	limit    int
	ids      []model.DocumentID
}

// BucketSort returns the documents of universe ranked at positions
// [offset, offset+limit). Buckets entirely before offset are skipped
// without refinement and refinement stops once the page is full. Documents
// that no criterion separates are returned by ascending ID.
//
// Every refinement step costs one budget operation. When the budget runs out
// the buckets still pending are emitted as they are, in ascending ID order,
// and the result is marked non-exhaustive.
func (p *Pipeline) BucketSort(ctx *Context, universe index.PostingSet, offset, limit int) (Result, error) {
	res := Result{Exhaustive: true}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || uint64(offset) >= universe.Len() {
		res.IDs = []model.DocumentID{}
		return res, nil
	}

	s := &sorter{
		criteria: p.criteria,
		ctx:      ctx,
		skip:     uint64(offset),
		limit:    limit,
		ids:      make([]model.DocumentID, 0, min(uint64(limit), universe.Len())),
	}
	if err := s.visit(universe, 0); err != nil {
		return Result{}, err
	}

	for len(s.stack) > 0 && !s.full() {
		if !ctx.Budget.Spend(1) {
			s.degrade()
			res.Exhaustive = false
			break
		}
		top := &s.stack[len(s.stack)-1]
		sub, ok, err := top.iter.Next()
		if err != nil {
			return Result{}, err
		}
		if !ok {
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
		top.remaining.DifferenceInPlace(sub)
		if err := s.visit(sub, top.depth+1); err != nil {
			return Result{}, err
		}
	}
	res.IDs = s.ids
	return res, nil
}

func (s *sorter) full() bool { return len(s.ids) >= s.limit }

// visit handles a bucket ranked at depth: skipped when it lies entirely
// before the page, emitted when no criterion is left or it is a single
// document, refined otherwise.
func (s *sorter) visit(bucket index.PostingSet, depth int) error {
	n := bucket.Len()
	if n == 0 {
		return nil
	}
	if s.skip >= n {
		s.skip -= n
		return nil
	}
	if depth == len(s.criteria) || n == 1 {
		s.emit(bucket)
		return nil
	}
	iter, err := s.criteria[depth].Rank(s.ctx, bucket)
	if err != nil {
		return err
	}
	s.stack = append(s.stack, frame{depth: depth, iter: iter, remaining: bucket.Clone()})
	return nil
}

func (s *sorter) emit(bucket index.PostingSet) {
	n := bucket.Len()
	if s.skip >= n {
		s.skip -= n
		return
	}
	s.ids = bucket.AppendIDs(s.ids, s.skip, s.limit-len(s.ids))
	s.skip = 0
}

// degrade flushes the pending buckets, innermost first.
func (s *sorter) degrade() {
	for i := len(s.stack) - 1; i >= 0 && !s.full(); i-- {
		s.emit(s.stack[i].remaining)
	}
	s.stack = nil
}
