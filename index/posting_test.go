package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ranking-engine/model"
)

func ids(v ...model.DocumentID) []model.DocumentID { return v }

func TestPostingSet_ZeroValue(t *testing.T) {
	var s PostingSet

	assert.True(t, s.IsEmpty())
	assert.Equal(t, uint64(0), s.Len())
	assert.False(t, s.Contains(0))
	assert.Equal(t, uint64(0), s.Rank(10))
	_, ok := s.Min()
	assert.False(t, ok)
	assert.Equal(t, []model.DocumentID{}, s.IDs())
	assert.Nil(t, s.AppendIDs(nil, 0, -1))

	_, err := s.Select(0)
	assert.Error(t, err)

	assert.True(t, s.Equal(NewPostingSet()))
	assert.True(t, s.Union(NewPostingSet(1)).Equal(NewPostingSet(1)))
	assert.True(t, s.Intersect(NewPostingSet(1)).IsEmpty())
	assert.True(t, NewPostingSet(1).Difference(s).Equal(NewPostingSet(1)))
}

func TestPostingSet_AscendingWithoutDuplicates(t *testing.T) {
	s := NewPostingSet(5, 1, 5, 3, 1)

	assert.Equal(t, uint64(3), s.Len())
	assert.Equal(t, ids(1, 3, 5), s.IDs())

	var iterated []model.DocumentID
	for id := range s.All() {
		iterated = append(iterated, id)
	}
	assert.Equal(t, ids(1, 3, 5), iterated)

	// early break stops the iteration
	var first []model.DocumentID
	for id := range s.All() {
		first = append(first, id)
		break
	}
	assert.Equal(t, ids(1), first)

	minID, ok := s.Min()
	require.True(t, ok)
	assert.Equal(t, model.DocumentID(1), minID)
}

func TestPostingSet_RankAndSelect(t *testing.T) {
	s := NewPostingSet(3, 7, 100000, 1<<20)

	rankTests := []struct {
		id   model.DocumentID
		want uint64
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{6, 1},
		{7, 2},
		{99999, 2},
		{100000, 3},
		{1 << 20, 4},
		{1<<32 - 1, 4},
	}
	for _, tt := range rankTests {
		assert.Equal(t, tt.want, s.Rank(tt.id), "rank(%d)", tt.id)
	}

	selectTests := []struct {
		pos     uint64
		want    model.DocumentID
		wantErr bool
	}{
		{pos: 0, want: 3},
		{pos: 1, want: 7},
		{pos: 3, want: 1 << 20},
		{pos: 4, wantErr: true},
		{pos: 1 << 40, wantErr: true},
	}
	for _, tt := range selectTests {
		got, err := s.Select(tt.pos)
		if tt.wantErr {
			assert.Error(t, err, "select(%d)", tt.pos)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "select(%d)", tt.pos)
	}

	// select inverts rank for members
	for id := range s.All() {
		got, err := s.Select(s.Rank(id) - 1)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	_, err := NewPostingSet().Select(0)
	assert.Error(t, err)
}

func TestPostingSet_AppendIDs(t *testing.T) {
	s := NewPostingSet(2, 4, 100000, 100001, 200000)

	tests := []struct {
		name string
		skip uint64
		max  int
		want []model.DocumentID
	}{
		{"everything", 0, -1, ids(9, 2, 4, 100000, 100001, 200000)},
		{"first page", 0, 2, ids(9, 2, 4)},
		{"skip across containers", 2, 2, ids(9, 100000, 100001)},
		{"skip to last", 4, -1, ids(9, 200000)},
		{"skip equals length", 5, -1, ids(9)},
		{"skip beyond length", 50, 3, ids(9)},
		{"max zero", 0, 0, ids(9)},
		{"max beyond length", 3, 10, ids(9, 100001, 200000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.AppendIDs(ids(9), tt.skip, tt.max))
		})
	}
}

func TestPostingSet_Algebra(t *testing.T) {
	a := NewPostingSet(1, 2, 3, 70000)
	b := NewPostingSet(2, 3, 4, 70001)

	tests := []struct {
		name string
		got  PostingSet
		want []model.DocumentID
	}{
		{"union", a.Union(b), ids(1, 2, 3, 4, 70000, 70001)},
		{"intersect", a.Intersect(b), ids(2, 3)},
		{"difference", a.Difference(b), ids(1, 70000)},
		{"difference reversed", b.Difference(a), ids(4, 70001)},
		{"union all", UnionAll(a, PostingSet{}, b, NewPostingSet(9)), ids(1, 2, 3, 4, 9, 70000, 70001)},
		{"union of none", UnionAll(), []model.DocumentID{}},
		{"intersect all", IntersectAll(a, b, NewPostingSet(3, 4)), ids(3)},
		{"intersect with zero value", IntersectAll(a, PostingSet{}), []model.DocumentID{}},
		{"intersect of none", IntersectAll(), []model.DocumentID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.IDs())
		})
	}

	// operands are left untouched
	assert.Equal(t, ids(1, 2, 3, 70000), a.IDs())
	assert.Equal(t, ids(2, 3, 4, 70001), b.IDs())
}

func TestPostingSet_InPlace(t *testing.T) {
	s := NewPostingSet(1, 2, 3)
	s.UnionInPlace(NewPostingSet(5))
	s.IntersectInPlace(NewPostingSet(2, 3, 5, 8))
	s.DifferenceInPlace(NewPostingSet(3))
	assert.Equal(t, ids(2, 5), s.IDs())

	var zero PostingSet
	zero.IntersectInPlace(NewPostingSet(1))
	zero.DifferenceInPlace(NewPostingSet(1))
	assert.True(t, zero.IsEmpty())
	zero.UnionInPlace(NewPostingSet(4))
	zero.Add(2)
	assert.Equal(t, ids(2, 4), zero.IDs())

	// clones are independent
	c := zero.Clone()
	c.Add(7)
	assert.False(t, zero.Contains(7))
	assert.True(t, PostingSet{}.Clone().IsEmpty())
}

func TestPostingSet_MarshalBinary(t *testing.T) {
	for _, s := range []PostingSet{{}, NewPostingSet(), NewPostingSet(0, 5, 65536, 1<<31)} {
		data, err := s.MarshalBinary()
		require.NoError(t, err)

		var decoded PostingSet
		require.NoError(t, decoded.UnmarshalBinary(data))
		assert.True(t, s.Equal(decoded), "round trip of %v", s)
	}

	var bad PostingSet
	assert.Error(t, bad.UnmarshalBinary([]byte{1, 2, 3}))
}

func TestPositionList(t *testing.T) {
	list := PositionList{
		{FieldRank: 0, Offset: 2},
		{FieldRank: 0, Offset: 9},
		{FieldRank: 1, Offset: 0},
		{FieldRank: 3, Offset: 4},
	}

	rank, ok := list.MinFieldRank()
	require.True(t, ok)
	assert.Equal(t, uint16(0), rank)

	_, ok = PositionList{}.MinFieldRank()
	assert.False(t, ok)

	tests := []struct {
		field  uint16
		offset uint32
		want   bool
	}{
		{0, 2, true},
		{0, 9, true},
		{1, 0, true},
		{3, 4, true},
		{0, 0, false},
		{0, 3, false},
		{1, 2, false},
		{2, 4, false},
		{3, 5, false},
		{4, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, list.Has(tt.field, tt.offset), "has(%d, %d)", tt.field, tt.offset)
	}
	assert.False(t, PositionList(nil).Has(0, 0))

	assert.True(t, Position{0, 9}.Less(Position{1, 0}))
	assert.False(t, Position{1, 0}.Less(Position{1, 0}))
}
