package index

import (
	"github.com/gcbaptista/go-ranking-engine/model"
)

// MaxProximity is the largest pair distance recorded by a snapshot. Word
// pairs further apart, in different fields, or missing entirely count as
// MaxProximity+1.
const MaxProximity = 7

// WordMatch is a lexicon entry found by fuzzy matching, with its edit
// distance to the query word.
type WordMatch struct {
	Word     model.WordID
	Distance uint8
}

// Bound is one side of a numeric range. Inclusive bounds admit the value itself.
type Bound struct {
	Value     float64
	Inclusive bool
}

// FacetEntry is one distinct facet value and the documents holding it.
type FacetEntry struct {
	Value model.FacetValue
	Docs  PostingSet
}

// Lexicon is the word dictionary part of a snapshot.
type Lexicon interface {
	// ResolveWord returns the ID of an exact lexicon entry.
	ResolveWord(text string) (model.WordID, bool)
	// FuzzyMatch returns entries within maxEditDistance of text, ordered by
	// (distance, WordID).
	FuzzyMatch(text string, maxEditDistance int) []WordMatch
	// PrefixMatch returns entries starting with text in WordID order, at
	// most limit of them when limit > 0.
	PrefixMatch(text string, limit int) []model.WordID
	// Word returns the text of an entry.
	Word(id model.WordID) (string, bool)
}

// Snapshot is a read-only, point-in-time view of an index. All results are
// stable for the lifetime of the snapshot, and returned PostingSets must not
// be mutated. Errors indicate the snapshot could not be read.
type Snapshot interface {
	Lexicon

	// PostingSet returns the documents containing word.
	PostingSet(word model.WordID) (PostingSet, error)
	// Proximity returns, per distance 1..MaxProximity, the documents where a
	// and b co-occur at that minimal distance. a before b at gap g is
	// distance g, b before a is g+1.
	Proximity(a, b model.WordID) (map[int]PostingSet, error)
	// Positions returns the occurrences of word in doc.
	Positions(doc model.DocumentID, word model.WordID) (PositionList, error)
	// FieldLength returns the number of words of field rank in doc.
	FieldLength(doc model.DocumentID, fieldRank uint16) (int, error)

	// FacetKinds returns the value kinds observed for a facet field.
	FacetKinds(name string) []model.FacetKind
	// FacetLookup returns documents whose facet name equals value.
	FacetLookup(name string, value model.FacetValue) (PostingSet, error)
	// FacetRange returns documents with a numeric facet value within the
	// bounds. A nil bound is unbounded.
	FacetRange(name string, lower, upper *Bound) (PostingSet, error)
	// FacetExists returns documents holding any value for name.
	FacetExists(name string) (PostingSet, error)
	// FacetValues returns the distinct values of a facet in ascending order.
	FacetValues(name string) ([]FacetEntry, error)

	// GeoWithinBox returns documents whose point lies in box.
	GeoWithinBox(box model.BoundingBox) (PostingSet, error)
	// GeoWithinRadius returns documents within meters of center.
	GeoWithinRadius(center model.GeoPoint, meters float64) (PostingSet, error)
	// GeoPoint returns the point of doc.
	GeoPoint(doc model.DocumentID) (model.GeoPoint, bool)

	// Documents returns every document in the snapshot.
	Documents() PostingSet
	// Fields returns the searchable fields in rank order.
	Fields() []string
}
