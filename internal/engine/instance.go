package engine

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/search"
	"github.com/gcbaptista/go-ranking-engine/model"
	"github.com/gcbaptista/go-ranking-engine/services"
	"github.com/gcbaptista/go-ranking-engine/store"
)

// IndexInstance holds all components and services for a single search index.
// It implements the services.IndexAccessor interface.
type IndexInstance struct {
	name     string
	env      *store.Environment
	searcher *search.Service
}

// newIndexInstance opens an environment over docs (nil for an empty index)
// and the search service reading from it.
func (e *Engine) newIndexInstance(settings config.IndexSettings, docs *store.DocumentStore) (*IndexInstance, error) {
	if settings.Name == "" {
		return nil, errors.NewValidationError("name", "index name cannot be empty")
	}
	env, err := store.Open(settings, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to open index '%s': %w", settings.Name, err)
	}
	name := settings.Name
	if e.metrics != nil {
		env.OnPublish = func(uint64) {
			e.metrics.SnapshotsPublished.WithLabelValues(name).Inc()
		}
	}

	searcher, err := search.NewService(name, search.EnvironmentSource{Env: env},
		search.WithMetrics(e.metrics), search.WithLogger(e.logger.With("component", "search")))
	if err != nil {
		return nil, fmt.Errorf("failed to create search service for '%s': %w", name, err)
	}
	return &IndexInstance{name: name, env: env, searcher: searcher}, nil
}

// AddDocuments stores docs and publishes a new snapshot. Documents whose
// "documentID" is already known replace the previous version. Either every
// document is added or none is.
func (i *IndexInstance) AddDocuments(docs []model.Document) error {
	if len(docs) == 0 {
		return errors.NewValidationError("documents", "no documents provided")
	}
	err := i.env.Update(func(ds *store.DocumentStore) error {
		for _, doc := range docs {
			ds.Add(doc)
		}
		return nil
	})
	if err != nil {
		return errors.NewValidationError("documents", err.Error())
	}
	return nil
}

// DeleteAllDocuments removes every document.
func (i *IndexInstance) DeleteAllDocuments() error {
	return i.env.Update(func(ds *store.DocumentStore) error {
		for _, id := range ds.IDs() {
			ds.Delete(id)
		}
		return nil
	})
}

// DeleteDocument removes the document with the given user-provided ID.
func (i *IndexInstance) DeleteDocument(docID string) error {
	err := i.env.Update(func(ds *store.DocumentStore) error {
		if !ds.DeleteExternal(docID) {
			return fmt.Errorf("document '%s' in index '%s': %w", docID, i.name, errors.ErrDocumentNotFound)
		}
		return nil
	})
	if err != nil && !stderrors.Is(err, errors.ErrDocumentNotFound) {
		return fmt.Errorf("failed to delete document '%s': %w", docID, err)
	}
	return err
}

// Execute delegates to the underlying search service.
func (i *IndexInstance) Execute(ctx context.Context, query services.Query) (services.Result, error) {
	return i.searcher.Execute(ctx, query)
}

// MultiSearch delegates to the underlying search service.
func (i *IndexInstance) MultiSearch(ctx context.Context, query services.MultiSearchQuery) (*services.MultiSearchResult, error) {
	return i.searcher.MultiSearch(ctx, query)
}

// Settings returns the configuration settings for this index.
func (i *IndexInstance) Settings() config.IndexSettings {
	return i.env.Settings()
}

// Stats describes the current snapshot.
func (i *IndexInstance) Stats() services.IndexStats {
	readers := i.env.ActiveReaders()
	handle := i.env.OpenSnapshot()
	defer handle.Close()
	snap := handle.Snapshot()
	return services.IndexStats{
		Name:          i.name,
		DocumentCount: snap.Documents().Len(),
		Generation:    snap.Generation(),
		ActiveReaders: readers,
	}
}
