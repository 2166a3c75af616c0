package model

// WordID identifies a lexicon entry. IDs are dense and only stable within
// one snapshot.
type WordID uint32

// DocumentID is the dense internal identifier of an indexed document.
type DocumentID uint32
