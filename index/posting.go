package index

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/gcbaptista/go-ranking-engine/model"
)

// PostingSet is a compressed, sorted and duplicate-free set of document IDs.
// The zero value is an empty set. Set-algebra methods without the InPlace
// suffix never mutate their operands, so a PostingSet handed out by a
// snapshot can be shared freely between readers.
type PostingSet struct {
	rb *roaring.Bitmap
}

// NewPostingSet creates a set holding ids.
func NewPostingSet(ids ...model.DocumentID) PostingSet {
	rb := roaring.New()
	for _, id := range ids {
		rb.Add(uint32(id))
	}
	return PostingSet{rb: rb}
}

func (s PostingSet) bitmap() *roaring.Bitmap {
	if s.rb == nil {
		return roaring.New()
	}
	return s.rb
}

// Clone returns an independent copy.
func (s PostingSet) Clone() PostingSet {
	if s.rb == nil {
		return PostingSet{rb: roaring.New()}
	}
	return PostingSet{rb: s.rb.Clone()}
}

// Add inserts id. It mutates the receiver and must only be used on sets the
// caller owns.
func (s *PostingSet) Add(id model.DocumentID) {
	if s.rb == nil {
		s.rb = roaring.New()
	}
	s.rb.Add(uint32(id))
}

// Contains reports whether id is in the set.
func (s PostingSet) Contains(id model.DocumentID) bool {
	return s.rb != nil && s.rb.Contains(uint32(id))
}

// Len returns the cardinality.
func (s PostingSet) Len() uint64 {
	if s.rb == nil {
		return 0
	}
	return s.rb.GetCardinality()
}

// IsEmpty reports whether the set has no members.
func (s PostingSet) IsEmpty() bool {
	return s.rb == nil || s.rb.IsEmpty()
}

// Union returns s ∪ o.
func (s PostingSet) Union(o PostingSet) PostingSet {
	return PostingSet{rb: roaring.Or(s.bitmap(), o.bitmap())}
}

// Intersect returns s ∩ o.
func (s PostingSet) Intersect(o PostingSet) PostingSet {
	return PostingSet{rb: roaring.And(s.bitmap(), o.bitmap())}
}

// Difference returns s − o.
func (s PostingSet) Difference(o PostingSet) PostingSet {
	return PostingSet{rb: roaring.AndNot(s.bitmap(), o.bitmap())}
}

// UnionInPlace sets s to s ∪ o.
func (s *PostingSet) UnionInPlace(o PostingSet) {
	if o.rb == nil {
		return
	}
	if s.rb == nil {
		s.rb = roaring.New()
	}
	s.rb.Or(o.rb)
}

// IntersectInPlace sets s to s ∩ o.
func (s *PostingSet) IntersectInPlace(o PostingSet) {
	if s.rb == nil {
		return
	}
	s.rb.And(o.bitmap())
}

// DifferenceInPlace sets s to s − o.
func (s *PostingSet) DifferenceInPlace(o PostingSet) {
	if s.rb == nil || o.rb == nil {
		return
	}
	s.rb.AndNot(o.rb)
}

// Rank returns the number of members less than or equal to id.
func (s PostingSet) Rank(id model.DocumentID) uint64 {
	if s.rb == nil {
		return 0
	}
	return s.rb.Rank(uint32(id))
}

// Select returns the member at position i (0-based, ascending).
func (s PostingSet) Select(i uint64) (model.DocumentID, error) {
	if i >= s.Len() {
		return 0, fmt.Errorf("select position %d out of range for set of size %d", i, s.Len())
	}
	v, err := s.rb.Select(uint32(i))
	if err != nil {
		return 0, err
	}
	return model.DocumentID(v), nil
}

// Min returns the smallest member, or false for an empty set.
func (s PostingSet) Min() (model.DocumentID, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	return model.DocumentID(s.rb.Minimum()), true
}

// Equal reports whether both sets have the same members.
func (s PostingSet) Equal(o PostingSet) bool {
	return s.bitmap().Equals(o.bitmap())
}

// All iterates the members in ascending order.
func (s PostingSet) All() iter.Seq[model.DocumentID] {
	return func(yield func(model.DocumentID) bool) {
		if s.rb == nil {
			return
		}
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(model.DocumentID(it.Next())) {
				return
			}
		}
	}
}

// AppendIDs appends up to max members, skipping the first skip, to dst.
// A negative max appends everything after skip.
func (s PostingSet) AppendIDs(dst []model.DocumentID, skip uint64, max int) []model.DocumentID {
	if s.rb == nil || max == 0 {
		return dst
	}
	it := s.rb.Iterator()
	if skip > 0 {
		if skip >= s.rb.GetCardinality() {
			return dst
		}
		v, _ := s.rb.Select(uint32(skip))
		it.AdvanceIfNeeded(v)
	}
	for it.HasNext() && max != 0 {
		dst = append(dst, model.DocumentID(it.Next()))
		if max > 0 {
			max--
		}
	}
	return dst
}

// IDs returns all members in ascending order.
func (s PostingSet) IDs() []model.DocumentID {
	return s.AppendIDs(make([]model.DocumentID, 0, s.Len()), 0, -1)
}

// MarshalBinary implements encoding.BinaryMarshaler using the portable
// roaring format.
func (s PostingSet) MarshalBinary() ([]byte, error) {
	return s.bitmap().ToBytes()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *PostingSet) UnmarshalBinary(data []byte) error {
	rb := roaring.New()
	if err := rb.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("decode posting set: %w", err)
	}
	s.rb = rb
	return nil
}

func (s PostingSet) String() string {
	return s.bitmap().String()
}

// UnionAll returns the union of all sets.
func UnionAll(sets ...PostingSet) PostingSet {
	bms := make([]*roaring.Bitmap, 0, len(sets))
	for _, s := range sets {
		if s.rb != nil {
			bms = append(bms, s.rb)
		}
	}
	if len(bms) == 0 {
		return PostingSet{rb: roaring.New()}
	}
	return PostingSet{rb: roaring.FastOr(bms...)}
}

// IntersectAll returns the intersection of all sets; the intersection of no
// sets is empty.
func IntersectAll(sets ...PostingSet) PostingSet {
	if len(sets) == 0 {
		return PostingSet{rb: roaring.New()}
	}
	bms := make([]*roaring.Bitmap, len(sets))
	for i, s := range sets {
		bms[i] = s.bitmap()
	}
	return PostingSet{rb: roaring.FastAnd(bms...)}
}
