package vector

import (
	"cmp"
	"slices"

	"github.com/gcbaptista/go-ranking-engine/model"
)

// RRFK is the reciprocal rank fusion constant.
const RRFK = 60

// FuseWeighted merges a keyword ranking and an ANN ranking with weighted
// reciprocal rank fusion: score = (1-ratio)/(k+rankKeyword+1) + ratio/(k+rankANN+1),
// a missing rank contributing nothing. The result is ordered by descending
// score, then ascending DocumentID.
func FuseWeighted(keyword []model.DocumentID, ann []Neighbor, ratio float64) []model.DocumentID {
	scores := make(map[model.DocumentID]float64, len(keyword)+len(ann))
	order := make([]model.DocumentID, 0, len(keyword)+len(ann))
	add := func(id model.DocumentID, s float64) {
		if _, seen := scores[id]; !seen {
			order = append(order, id)
		}
		scores[id] += s
	}
	for rank, id := range keyword {
		add(id, (1-ratio)/float64(RRFK+rank+1))
	}
	for rank, n := range ann {
		add(n.ID, ratio/float64(RRFK+rank+1))
	}

	slices.SortFunc(order, func(a, b model.DocumentID) int {
		if c := cmp.Compare(scores[b], scores[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return order
}
