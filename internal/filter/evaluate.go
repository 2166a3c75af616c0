package filter

import (
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// Evaluate computes the documents of snap matching a validated tree.
// Negation is relative to snap.Documents(). Read failures are returned as
// *errors.StorageError.
func Evaluate(snap index.Snapshot, n Node) (index.PostingSet, error) {
	e := evaluator{snap: snap, universe: snap.Documents()}
	return e.eval(n)
}

type evaluator struct {
	snap     index.Snapshot
	universe index.PostingSet
}

func (e evaluator) eval(n Node) (index.PostingSet, error) {
	switch n := n.(type) {
	case And:
		var acc index.PostingSet
		for i, c := range n.Children {
			set, err := e.eval(c)
			if err != nil {
				return index.PostingSet{}, err
			}
			if i == 0 {
				acc = set.Clone()
			} else {
				acc.IntersectInPlace(set)
			}
			if acc.IsEmpty() {
				break
			}
		}
		return acc, nil
	case Or:
		acc := index.NewPostingSet()
		for _, c := range n.Children {
			set, err := e.eval(c)
			if err != nil {
				return index.PostingSet{}, err
			}
			acc.UnionInPlace(set)
		}
		return acc, nil
	case Not:
		set, err := e.eval(n.X)
		if err != nil {
			return index.PostingSet{}, err
		}
		return e.universe.Difference(set), nil
	case Condition:
		return e.condition(n)
	case GeoBox:
		set, err := e.snap.GeoWithinBox(n.Box)
		if err != nil {
			return index.PostingSet{}, errors.NewStorageError("geo bounding box", err)
		}
		return set, nil
	case GeoRadius:
		set, err := e.snap.GeoWithinRadius(n.Center, n.Meters)
		if err != nil {
			return index.PostingSet{}, errors.NewStorageError("geo radius", err)
		}
		return set, nil
	}
	return index.PostingSet{}, errors.NewInvalidFilterError("", "unsupported filter node")
}

func (e evaluator) condition(c Condition) (index.PostingSet, error) {
	var (
		set index.PostingSet
		err error
	)
	switch c.Op {
	case OpEq:
		set, err = e.lookup(c.Field, c.Value)
	case OpNe:
		set, err = e.lookup(c.Field, c.Value)
		if err == nil {
			set = e.universe.Difference(set)
		}
	case OpIn:
		set = index.NewPostingSet()
		for _, v := range c.Values {
			var one index.PostingSet
			if one, err = e.lookup(c.Field, v); err != nil {
				break
			}
			set.UnionInPlace(one)
		}
	case OpExists:
		set, err = e.snap.FacetExists(c.Field)
	case OpGt, OpGte, OpLt, OpLte, OpBetween:
		lower, upper := bounds(c)
		set, err = e.snap.FacetRange(c.Field, lower, upper)
	default:
		return index.PostingSet{}, errors.NewInvalidFilterError(c.Field, "unknown operator '"+string(c.Op)+"'")
	}
	if err != nil {
		return index.PostingSet{}, errors.NewStorageError("facet "+c.Field, err)
	}
	return set, nil
}

func (e evaluator) lookup(field string, value interface{}) (index.PostingSet, error) {
	fv, ok := model.FacetValueOf(value)
	if !ok {
		return index.NewPostingSet(), nil
	}
	return e.snap.FacetLookup(field, fv)
}

func bounds(c Condition) (lower, upper *index.Bound) {
	v, _ := number(c.Value)
	switch c.Op {
	case OpGt:
		return &index.Bound{Value: v}, nil
	case OpGte:
		return &index.Bound{Value: v, Inclusive: true}, nil
	case OpLt:
		return nil, &index.Bound{Value: v}
	case OpLte:
		return nil, &index.Bound{Value: v, Inclusive: true}
	}
	hi, _ := number(c.Value2)
	return &index.Bound{Value: v, Inclusive: true}, &index.Bound{Value: hi, Inclusive: true}
}
