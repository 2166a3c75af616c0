package ranking

import (
	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/vector"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// SortDirective is one query sort. Point is set for geo sorts.
type SortDirective struct {
	Field      string
	Descending bool
	Point      *model.GeoPoint
}

// Options carries the query-dependent inputs of the criteria.
type Options struct {
	Sort []SortDirective
	// Neighbors is the nearest neighbour list of the query vector, nil
	// when the query has none.
	Neighbors    []vector.Neighbor
	HybridPolicy string
}

// Criteria instantiates ranking rules for one query. The sort rule expands
// to the query sorts and is dropped when there are none. Without an explicit
// vector rule, the vector-first and keyword-first policies put the vector
// criterion first or last; the weighted policy fuses rankings outside the
// pipeline and gets no vector criterion.
func Criteria(rules []config.RankingRule, opts Options) []Criterion {
	hasVector := opts.Neighbors != nil && opts.HybridPolicy != config.HybridWeighted
	out := make([]Criterion, 0, len(rules)+len(opts.Sort)+1)
	placed := false
	for _, r := range rules {
		if r.Custom != nil {
			out = append(out, Sort{Field: r.Custom.Field, Descending: r.Custom.Order == "desc", Custom: true})
			continue
		}
		switch r.Name {
		case config.RuleWords:
			out = append(out, Words{})
		case config.RuleTypo:
			out = append(out, Typo{})
		case config.RuleProximity:
			out = append(out, Proximity{})
		case config.RuleAttribute:
			out = append(out, Attribute{})
		case config.RuleExactness:
			out = append(out, Exactness{})
		case config.RuleSort:
			for _, s := range opts.Sort {
				if s.Point != nil {
					out = append(out, GeoSort{Point: *s.Point, Descending: s.Descending})
				} else {
					out = append(out, Sort{Field: s.Field, Descending: s.Descending})
				}
			}
		case config.RuleVector:
			if hasVector {
				out = append(out, NewVector(opts.Neighbors))
				placed = true
			}
		}
	}
	if hasVector && !placed {
		if opts.HybridPolicy == config.HybridVectorFirst {
			out = append([]Criterion{NewVector(opts.Neighbors)}, out...)
		} else {
			out = append(out, NewVector(opts.Neighbors))
		}
	}
	return out
}
