package index

// Position locates one occurrence of a word: the rank of the searchable
// field it appeared in (0 is the highest-priority field) and the word offset
// within that field.
type Position struct {
	FieldRank uint16
	Offset    uint32
}

// Less orders positions by field rank, then offset.
func (p Position) Less(o Position) bool {
	if p.FieldRank != o.FieldRank {
		return p.FieldRank < o.FieldRank
	}
	return p.Offset < o.Offset
}

// PositionList holds the occurrences of one word in one document, ordered
// by (FieldRank, Offset).
type PositionList []Position

// MinFieldRank returns the best field rank, or false for an empty list.
func (l PositionList) MinFieldRank() (uint16, bool) {
	if len(l) == 0 {
		return 0, false
	}
	return l[0].FieldRank, true
}

// Has reports whether the list contains an occurrence at (field, offset).
func (l PositionList) Has(field uint16, offset uint32) bool {
	lo, hi := 0, len(l)
	target := Position{FieldRank: field, Offset: offset}
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if l[mid].Less(target) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(l) && l[lo] == target
}
