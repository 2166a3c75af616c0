package store

import (
	"fmt"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/geo"
	"github.com/gcbaptista/go-ranking-engine/internal/lexicon"
	"github.com/gcbaptista/go-ranking-engine/internal/tokenizer"
	"github.com/gcbaptista/go-ranking-engine/internal/vector"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// arrayValueGap separates the elements of an array field so that words of
// different elements never count as close.
const arrayValueGap = index.MaxProximity + 1

type occurrence struct {
	word   string
	field  uint16
	offset uint32
}

// Build materializes a snapshot of docs according to settings. It is a
// wholesale rebuild: every posting, position, proximity, facet, geo and
// vector structure is derived from scratch.
func Build(settings *config.IndexSettings, docs *DocumentStore, generation uint64) (*Snapshot, error) {
	if len(settings.SearchableFields) > int(^uint16(0)) {
		return nil, fmt.Errorf("too many searchable fields: %d", len(settings.SearchableFields))
	}

	ids := docs.IDs()
	perDoc := make(map[model.DocumentID][]occurrence, len(ids))
	fieldLengths := make(map[docFieldKey]int)
	var vocabulary []string

	for _, id := range ids {
		doc := docs.Docs[id]
		var occ []occurrence
		for rank, field := range settings.SearchableFields {
			offset := uint32(0)
			count := 0
			for i, value := range doc.TextValues(field) {
				if i > 0 {
					offset += arrayValueGap
				}
				for _, tok := range tokenizer.Tokenize(value) {
					occ = append(occ, occurrence{word: tok, field: uint16(rank), offset: offset})
					vocabulary = append(vocabulary, tok)
					offset++
					count++
				}
			}
			if count > 0 {
				fieldLengths[docFieldKey{doc: id, field: uint16(rank)}] = count
			}
		}
		perDoc[id] = occ
	}

	lx := lexicon.New(vocabulary)
	snap := &Snapshot{
		generation:   generation,
		settings:     *settings,
		fields:       append([]string(nil), settings.SearchableFields...),
		docs:         docs.Docs,
		lexicon:      lx,
		wordDocs:     make([]index.PostingSet, lx.Len()),
		positions:    make(map[docWordKey]index.PositionList),
		fieldLengths: fieldLengths,
		proximity:    make(map[wordPairKey]*[index.MaxProximity]index.PostingSet),
		facets:       make(map[string]*facetIndex),
		geo:          geo.NewIndex(),
		documents:    index.NewPostingSet(ids...),
	}

	facetFields := settings.FacetFields()
	facetBuilders := make(map[string]*facetBuilder, len(facetFields))
	for _, f := range facetFields {
		facetBuilders[f] = newFacetBuilder()
	}

	if settings.Hybrid.Dimensions > 0 {
		metric, err := vector.ParseMetric(settings.Hybrid.Distance)
		if err != nil {
			return nil, err
		}
		snap.vectors = vector.NewFlat(settings.Hybrid.Dimensions, metric)
	}

	for _, id := range ids {
		doc := docs.Docs[id]
		occ := perDoc[id]
		wordIDs := make([]model.WordID, len(occ))
		for i, o := range occ {
			wid, _ := lx.ResolveWord(o.word)
			wordIDs[i] = wid
			snap.wordDocs[wid].Add(id)
			key := docWordKey{doc: id, word: wid}
			snap.positions[key] = append(snap.positions[key], index.Position{FieldRank: o.field, Offset: o.offset})
		}
		snap.addProximities(id, occ, wordIDs)

		for _, f := range facetFields {
			for _, v := range doc.FacetValues(f) {
				facetBuilders[f].add(id, v)
			}
		}
		if p, ok := doc.GetGeoPoint(); ok {
			snap.geo.Insert(id, p)
		}
		if snap.vectors != nil {
			if raw, ok := doc[settings.Hybrid.VectorField]; ok && raw != nil {
				v, err := toVector(raw)
				if err != nil {
					return nil, fmt.Errorf("document %d field '%s': %w", id, settings.Hybrid.VectorField, err)
				}
				if err := snap.vectors.Add(id, v); err != nil {
					return nil, err
				}
			}
		}
	}

	for f, b := range facetBuilders {
		snap.facets[f] = b.freeze()
	}
	return snap, nil
}

// addProximities records, for every ordered word pair co-occurring within
// MaxProximity in one field, the minimal distance in this document. occ is
// ordered by (field, offset).
func (s *Snapshot) addProximities(id model.DocumentID, occ []occurrence, wordIDs []model.WordID) {
	best := make(map[wordPairKey]int)
	record := func(a, b model.WordID, d int) {
		if d > index.MaxProximity {
			return
		}
		k := wordPairKey{a: a, b: b}
		if cur, ok := best[k]; !ok || d < cur {
			best[k] = d
		}
	}
	for i := range occ {
		for j := i + 1; j < len(occ); j++ {
			if occ[j].field != occ[i].field {
				break
			}
			gap := int(occ[j].offset - occ[i].offset)
			if gap > index.MaxProximity {
				break
			}
			record(wordIDs[i], wordIDs[j], gap)
			record(wordIDs[j], wordIDs[i], gap+1)
		}
	}
	for k, d := range best {
		buckets, ok := s.proximity[k]
		if !ok {
			buckets = new([index.MaxProximity]index.PostingSet)
			s.proximity[k] = buckets
		}
		buckets[d-1].Add(id)
	}
}

func toVector(raw interface{}) ([]float32, error) {
	switch v := raw.(type) {
	case []float32:
		return v, nil
	case []float64:
		out := make([]float32, len(v))
		for i, x := range v {
			out[i] = float32(x)
		}
		return out, nil
	case []interface{}:
		out := make([]float32, len(v))
		for i, x := range v {
			f, ok := x.(float64)
			if !ok {
				return nil, fmt.Errorf("vector component %d is %T, expected a number", i, x)
			}
			out[i] = float32(f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected an array of numbers, got %T", raw)
}
