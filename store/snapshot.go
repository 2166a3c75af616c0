package store

import (
	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/geo"
	"github.com/gcbaptista/go-ranking-engine/internal/lexicon"
	"github.com/gcbaptista/go-ranking-engine/internal/vector"
	"github.com/gcbaptista/go-ranking-engine/model"
)

type docWordKey struct {
	doc  model.DocumentID
	word model.WordID
}

type docFieldKey struct {
	doc   model.DocumentID
	field uint16
}

type wordPairKey struct {
	a, b model.WordID
}

// Snapshot is an immutable, fully materialized view of an index. It
// implements index.Snapshot; every method is safe for concurrent use.
type Snapshot struct {
	generation uint64
	settings   config.IndexSettings
	fields     []string
	docs       map[model.DocumentID]model.Document

	lexicon      *lexicon.Lexicon
	wordDocs     []index.PostingSet
	positions    map[docWordKey]index.PositionList
	fieldLengths map[docFieldKey]int
	proximity    map[wordPairKey]*[index.MaxProximity]index.PostingSet

	facets  map[string]*facetIndex
	geo     *geo.Index
	vectors *vector.Flat

	documents index.PostingSet
}

var _ index.Snapshot = (*Snapshot)(nil)

// Generation increases by one with every published snapshot.
func (s *Snapshot) Generation() uint64 { return s.generation }

// Settings returns the settings the snapshot was built with.
func (s *Snapshot) Settings() *config.IndexSettings { return &s.settings }

// Document returns the stored document of id. Documents are shared with the
// writer and must not be modified.
func (s *Snapshot) Document(id model.DocumentID) (model.Document, bool) {
	doc, ok := s.docs[id]
	return doc, ok
}

// Vectors returns the ANN index, or nil when the index has no vector field.
func (s *Snapshot) Vectors() *vector.Flat { return s.vectors }

func (s *Snapshot) ResolveWord(text string) (model.WordID, bool) {
	return s.lexicon.ResolveWord(text)
}

func (s *Snapshot) FuzzyMatch(text string, maxEditDistance int) []index.WordMatch {
	return s.lexicon.FuzzyMatch(text, maxEditDistance)
}

func (s *Snapshot) PrefixMatch(text string, limit int) []model.WordID {
	return s.lexicon.PrefixMatch(text, limit)
}

func (s *Snapshot) Word(id model.WordID) (string, bool) {
	return s.lexicon.Word(id)
}

func (s *Snapshot) PostingSet(word model.WordID) (index.PostingSet, error) {
	if int(word) >= len(s.wordDocs) {
		return index.NewPostingSet(), nil
	}
	return s.wordDocs[word], nil
}

func (s *Snapshot) Proximity(a, b model.WordID) (map[int]index.PostingSet, error) {
	buckets, ok := s.proximity[wordPairKey{a: a, b: b}]
	if !ok {
		return map[int]index.PostingSet{}, nil
	}
	out := make(map[int]index.PostingSet, index.MaxProximity)
	for i, set := range buckets {
		if !set.IsEmpty() {
			out[i+1] = set
		}
	}
	return out, nil
}

func (s *Snapshot) Positions(doc model.DocumentID, word model.WordID) (index.PositionList, error) {
	return s.positions[docWordKey{doc: doc, word: word}], nil
}

func (s *Snapshot) FieldLength(doc model.DocumentID, fieldRank uint16) (int, error) {
	return s.fieldLengths[docFieldKey{doc: doc, field: fieldRank}], nil
}

func (s *Snapshot) FacetKinds(name string) []model.FacetKind {
	if fi, ok := s.facets[name]; ok {
		return fi.kinds
	}
	return nil
}

func (s *Snapshot) FacetLookup(name string, value model.FacetValue) (index.PostingSet, error) {
	fi, ok := s.facets[name]
	if !ok {
		return index.NewPostingSet(), nil
	}
	return fi.lookup(value), nil
}

func (s *Snapshot) FacetRange(name string, lower, upper *index.Bound) (index.PostingSet, error) {
	fi, ok := s.facets[name]
	if !ok {
		return index.NewPostingSet(), nil
	}
	return fi.rangeDocs(lower, upper), nil
}

func (s *Snapshot) FacetExists(name string) (index.PostingSet, error) {
	fi, ok := s.facets[name]
	if !ok {
		return index.NewPostingSet(), nil
	}
	return fi.exists, nil
}

func (s *Snapshot) FacetValues(name string) ([]index.FacetEntry, error) {
	fi, ok := s.facets[name]
	if !ok {
		return nil, nil
	}
	return fi.entries, nil
}

func (s *Snapshot) GeoWithinBox(box model.BoundingBox) (index.PostingSet, error) {
	return s.geo.WithinBox(box), nil
}

// GeoWithinRadius returns the documents within meters of center.
func (s *Snapshot) GeoWithinRadius(center model.GeoPoint, meters float64) (index.PostingSet, error) {
	return s.geo.WithinRadius(center, meters), nil
}

func (s *Snapshot) GeoPoint(doc model.DocumentID) (model.GeoPoint, bool) {
	return s.geo.Point(doc)
}

func (s *Snapshot) Documents() index.PostingSet { return s.documents }

func (s *Snapshot) Fields() []string { return s.fields }
