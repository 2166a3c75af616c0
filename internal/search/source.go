package search

import (
	"context"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/vector"
	"github.com/gcbaptista/go-ranking-engine/model"
	"github.com/gcbaptista/go-ranking-engine/store"
)

// Reader is a read transaction pinned to one snapshot. Everything it returns
// stays valid until Close.
type Reader interface {
	Snapshot() index.Snapshot
	Settings() *config.IndexSettings
	// Vectors returns the ANN index, nil when the index has no vector field.
	Vectors() vector.Index
	Document(id model.DocumentID) (model.Document, bool)
	Close()
}

// Source opens read transactions on an index.
type Source interface {
	Open(ctx context.Context) (Reader, error)
}

// EnvironmentSource reads the snapshots published by a store environment.
type EnvironmentSource struct {
	Env *store.Environment
}

func (s EnvironmentSource) Open(ctx context.Context) (Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &environmentReader{handle: s.Env.OpenSnapshot()}, nil
}

type environmentReader struct {
	handle *store.ReadHandle
}

func (r *environmentReader) Snapshot() index.Snapshot { return r.handle.Snapshot() }

func (r *environmentReader) Settings() *config.IndexSettings { return r.handle.Snapshot().Settings() }

func (r *environmentReader) Vectors() vector.Index {
	if v := r.handle.Snapshot().Vectors(); v != nil {
		return v
	}
	return nil
}

func (r *environmentReader) Document(id model.DocumentID) (model.Document, bool) {
	return r.handle.Snapshot().Document(id)
}

func (r *environmentReader) Close() { r.handle.Close() }
