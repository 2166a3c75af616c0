package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"maps"
	"slices"

	"github.com/gcbaptista/go-ranking-engine/model"
)

func init() {
	// Register the dynamic types json.Unmarshal produces inside model.Document
	// so gob can encode them behind interface{} values.
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
	gob.Register([]string{})
	gob.Register([]float64{})
	gob.Register([]float32{})
	gob.Register(float64(0))
	gob.Register(false)
}

// DocumentStore is the writer-side record of every document of an index.
// Snapshots are built from it; readers never touch it. It is not safe for
// concurrent use and is guarded by the Environment writer lock.
type DocumentStore struct {
	Docs                   map[model.DocumentID]model.Document // internal ID to full document
	ExternalIDtoInternalID map[string]model.DocumentID         // user-provided ID to internal ID
	NextID                 model.DocumentID
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		Docs:                   make(map[model.DocumentID]model.Document),
		ExternalIDtoInternalID: make(map[string]model.DocumentID),
	}
}

// Clone returns a copy whose maps can be modified independently. Documents
// themselves are shared and treated as immutable.
func (ds *DocumentStore) Clone() *DocumentStore {
	return &DocumentStore{
		Docs:                   maps.Clone(ds.Docs),
		ExternalIDtoInternalID: maps.Clone(ds.ExternalIDtoInternalID),
		NextID:                 ds.NextID,
	}
}

// Add stores doc and returns its internal ID. A document whose "documentID"
// is already known replaces the previous version under the same internal ID;
// documents without one get a fresh ID.
func (ds *DocumentStore) Add(doc model.Document) model.DocumentID {
	if ext, ok := doc.GetDocumentID(); ok {
		if id, exists := ds.ExternalIDtoInternalID[ext]; exists {
			ds.Docs[id] = doc
			return id
		}
		id := ds.allocate()
		ds.ExternalIDtoInternalID[ext] = id
		ds.Docs[id] = doc
		return id
	}
	id := ds.allocate()
	ds.Docs[id] = doc
	return id
}

// Put stores doc under an explicit internal ID.
func (ds *DocumentStore) Put(id model.DocumentID, doc model.Document) {
	if old, ok := ds.Docs[id]; ok {
		if ext, ok := old.GetDocumentID(); ok {
			delete(ds.ExternalIDtoInternalID, ext)
		}
	}
	if ext, ok := doc.GetDocumentID(); ok {
		ds.ExternalIDtoInternalID[ext] = id
	}
	ds.Docs[id] = doc
	if id >= ds.NextID {
		ds.NextID = id + 1
	}
}

// Delete removes a document by internal ID and reports whether it existed.
func (ds *DocumentStore) Delete(id model.DocumentID) bool {
	doc, ok := ds.Docs[id]
	if !ok {
		return false
	}
	if ext, ok := doc.GetDocumentID(); ok {
		delete(ds.ExternalIDtoInternalID, ext)
	}
	delete(ds.Docs, id)
	return true
}

// DeleteExternal removes a document by its user-provided ID.
func (ds *DocumentStore) DeleteExternal(ext string) bool {
	id, ok := ds.ExternalIDtoInternalID[ext]
	if !ok {
		return false
	}
	return ds.Delete(id)
}

// IDs returns the internal IDs in ascending order.
func (ds *DocumentStore) IDs() []model.DocumentID {
	return slices.Sorted(maps.Keys(ds.Docs))
}

func (ds *DocumentStore) allocate() model.DocumentID {
	for {
		id := ds.NextID
		ds.NextID++
		if _, taken := ds.Docs[id]; !taken {
			return id
		}
	}
}

// gobDocumentStoreData is a helper struct for Gob encoding/decoding DocumentStore data.
type gobDocumentStoreData struct {
	Docs                   map[model.DocumentID]model.Document
	ExternalIDtoInternalID map[string]model.DocumentID
	NextID                 model.DocumentID
}

// GobEncode implements the gob.GobEncoder interface for DocumentStore.
func (ds *DocumentStore) GobEncode() ([]byte, error) {
	// []interface{} holding only strings is stored as []string
	storableDocs := make(map[model.DocumentID]model.Document, len(ds.Docs))
	for id, doc := range ds.Docs {
		storableDoc := make(model.Document, len(doc))
		for k, val := range doc {
			storableDoc[k] = storableValue(val)
		}
		storableDocs[id] = storableDoc
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobDocumentStoreData{
		Docs:                   storableDocs,
		ExternalIDtoInternalID: ds.ExternalIDtoInternalID,
		NextID:                 ds.NextID,
	}); err != nil {
		return nil, fmt.Errorf("failed to gob encode document store data: %w", err)
	}
	return buf.Bytes(), nil
}

func storableValue(val interface{}) interface{} {
	items, ok := val.([]interface{})
	if !ok {
		return val
	}
	strs := make([]string, 0, len(items))
	for _, item := range items {
		s, isString := item.(string)
		if !isString {
			return val
		}
		strs = append(strs, s)
	}
	return strs
}

// GobDecode implements the gob.GobDecoder interface for DocumentStore.
func (ds *DocumentStore) GobDecode(data []byte) error {
	decoded := gobDocumentStoreData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode document store data: %w", err)
	}

	ds.Docs = decoded.Docs
	ds.ExternalIDtoInternalID = decoded.ExternalIDtoInternalID
	ds.NextID = decoded.NextID
	if ds.Docs == nil {
		ds.Docs = make(map[model.DocumentID]model.Document)
	}
	if ds.ExternalIDtoInternalID == nil {
		ds.ExternalIDtoInternalID = make(map[string]model.DocumentID)
	}
	return nil
}
