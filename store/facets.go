package store

import (
	"cmp"
	"maps"
	"slices"
	"sort"

	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// facetGroupSize is the fan-out between numeric facet levels: level l holds
// the union of facetGroupSize^l consecutive distinct values.
const facetGroupSize = 4

type numberEntry struct {
	value float64
	docs  index.PostingSet
}

// facetIndex holds every value of one facet field. Numeric values are kept
// sorted with precomputed unions over groups of consecutive values, so a
// range query unions O(log n) sets instead of one per distinct value.
type facetIndex struct {
	numbers    []numberEntry
	levels     [][]index.PostingSet
	strings    map[string]index.PostingSet
	stringKeys []string
	bools      [2]index.PostingSet
	exists     index.PostingSet
	kinds      []model.FacetKind
	entries    []index.FacetEntry
}

// facetBuilder accumulates values before freezing them into a facetIndex.
type facetBuilder struct {
	numbers map[float64]index.PostingSet
	strings map[string]index.PostingSet
	bools   [2]index.PostingSet
	exists  index.PostingSet
}

func newFacetBuilder() *facetBuilder {
	return &facetBuilder{
		numbers: make(map[float64]index.PostingSet),
		strings: make(map[string]index.PostingSet),
	}
}

func (b *facetBuilder) add(id model.DocumentID, v model.FacetValue) {
	switch v.Kind {
	case model.FacetNumber:
		s := b.numbers[v.Num]
		s.Add(id)
		b.numbers[v.Num] = s
	case model.FacetString:
		s := b.strings[v.Str]
		s.Add(id)
		b.strings[v.Str] = s
	case model.FacetBool:
		i := 0
		if v.Bool {
			i = 1
		}
		b.bools[i].Add(id)
	}
	b.exists.Add(id)
}

func (b *facetBuilder) freeze() *facetIndex {
	fi := &facetIndex{
		strings: b.strings,
		bools:   b.bools,
		exists:  b.exists,
	}

	for _, v := range slices.Sorted(maps.Keys(b.numbers)) {
		fi.numbers = append(fi.numbers, numberEntry{value: v, docs: b.numbers[v]})
	}
	fi.stringKeys = slices.Sorted(maps.Keys(b.strings))

	level := make([]index.PostingSet, len(fi.numbers))
	for i, e := range fi.numbers {
		level[i] = e.docs
	}
	fi.levels = append(fi.levels, level)
	for len(level) > 1 {
		next := make([]index.PostingSet, 0, (len(level)+facetGroupSize-1)/facetGroupSize)
		for i := 0; i < len(level); i += facetGroupSize {
			next = append(next, index.UnionAll(level[i:min(i+facetGroupSize, len(level))]...))
		}
		fi.levels = append(fi.levels, next)
		level = next
	}

	if len(fi.numbers) > 0 {
		fi.kinds = append(fi.kinds, model.FacetNumber)
	}
	if len(fi.stringKeys) > 0 {
		fi.kinds = append(fi.kinds, model.FacetString)
	}
	if !fi.bools[0].IsEmpty() || !fi.bools[1].IsEmpty() {
		fi.kinds = append(fi.kinds, model.FacetBool)
	}

	for _, e := range fi.numbers {
		fi.entries = append(fi.entries, index.FacetEntry{Value: model.NumberValue(e.value), Docs: e.docs})
	}
	for _, k := range fi.stringKeys {
		fi.entries = append(fi.entries, index.FacetEntry{Value: model.FacetValue{Kind: model.FacetString, Str: k}, Docs: fi.strings[k]})
	}
	for i, s := range fi.bools {
		if !s.IsEmpty() {
			fi.entries = append(fi.entries, index.FacetEntry{Value: model.BoolValue(i == 1), Docs: s})
		}
	}
	return fi
}

func (fi *facetIndex) lookup(v model.FacetValue) index.PostingSet {
	switch v.Kind {
	case model.FacetNumber:
		i, found := slices.BinarySearchFunc(fi.numbers, v.Num, func(e numberEntry, t float64) int {
			return cmp.Compare(e.value, t)
		})
		if found {
			return fi.numbers[i].docs
		}
	case model.FacetString:
		if s, ok := fi.strings[v.Str]; ok {
			return s
		}
	case model.FacetBool:
		if v.Bool {
			return fi.bools[1]
		}
		return fi.bools[0]
	}
	return index.NewPostingSet()
}

// rangeDocs returns the documents with a numeric value inside the bounds.
func (fi *facetIndex) rangeDocs(lower, upper *index.Bound) index.PostingSet {
	lo := 0
	if lower != nil {
		lo = sort.Search(len(fi.numbers), func(i int) bool {
			if lower.Inclusive {
				return fi.numbers[i].value >= lower.Value
			}
			return fi.numbers[i].value > lower.Value
		})
	}
	hi := len(fi.numbers)
	if upper != nil {
		hi = sort.Search(len(fi.numbers), func(i int) bool {
			if upper.Inclusive {
				return fi.numbers[i].value > upper.Value
			}
			return fi.numbers[i].value >= upper.Value
		})
	}
	if lo >= hi {
		return index.NewPostingSet()
	}
	return fi.unionRange(lo, hi)
}

// unionRange unions level-0 entries [lo, hi) using the largest aligned
// groups that fit.
func (fi *facetIndex) unionRange(lo, hi int) index.PostingSet {
	var parts []index.PostingSet
	for lo < hi {
		l, size := 0, 1
		for l+1 < len(fi.levels) && lo%(size*facetGroupSize) == 0 && lo+size*facetGroupSize <= hi {
			l++
			size *= facetGroupSize
		}
		parts = append(parts, fi.levels[l][lo/size])
		lo += size
	}
	return index.UnionAll(parts...)
}
