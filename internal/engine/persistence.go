package engine

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/persistence"
	"github.com/gcbaptista/go-ranking-engine/store"
)

const (
	dataDirPerm       = 0755
	settingsFile      = "settings.gob.zst"
	documentStoreFile = "document_store.gob.zst"
)

// loadIndexesFromDisk loads all indexes from the data directory. Snapshots
// are rebuilt from the stored documents.
func (e *Engine) loadIndexesFromDisk() {
	e.logger.Info("loading indexes from disk", "dir", e.dataDir)

	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		e.logger.Warn("failed to read data directory, no indexes loaded", "dir", e.dataDir, "error", err)
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		indexName := item.Name()
		indexPath := filepath.Join(e.dataDir, indexName)
		logger := e.logger.With("index", indexName)

		var settings config.IndexSettings
		settingsPath := filepath.Join(indexPath, settingsFile)
		if err := persistence.LoadGob(settingsPath, &settings); err != nil {
			logger.Warn("failed to load settings, skipping index", "path", settingsPath, "error", err)
			continue
		}
		// stored settings are resolved; gob drops a zero max_typos entirely
		if settings.MaxTypos == nil {
			settings.MaxTypos = config.Int(0)
		}
		if settings.Name != indexName {
			logger.Warn("index name in settings does not match directory, skipping index", "settings_name", settings.Name)
			continue
		}

		docStore := store.NewDocumentStore()
		dsPath := filepath.Join(indexPath, documentStoreFile)
		if err := persistence.LoadGob(dsPath, docStore); err != nil {
			if !stderrors.Is(err, os.ErrNotExist) {
				logger.Warn("failed to load document store, proceeding with empty store", "path", dsPath, "error", err)
			}
			docStore = store.NewDocumentStore()
		}

		instance, err := e.newIndexInstance(settings, docStore)
		if err != nil {
			logger.Error("failed to open loaded index, skipping", "error", err)
			continue
		}
		e.indexes[indexName] = instance
		logger.Info("index loaded", "documents", len(docStore.Docs))
	}
}

// PersistIndexData persists the settings and documents of an index.
func (e *Engine) PersistIndexData(indexName string) error {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()

	if !exists {
		return errors.NewIndexNotFoundError(indexName)
	}
	return e.persistUnsafe(instance)
}

// persistUnsafe writes an index instance to disk. It is a no-op for an
// in-memory engine.
func (e *Engine) persistUnsafe(instance *IndexInstance) error {
	if e.dataDir == "" {
		return nil
	}
	indexPath := filepath.Join(e.dataDir, instance.name)
	if err := os.MkdirAll(indexPath, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory for index %s: %w", instance.name, err)
	}

	if err := persistence.SaveGob(filepath.Join(indexPath, settingsFile), instance.Settings()); err != nil {
		return fmt.Errorf("failed to save settings for index %s: %w", instance.name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, documentStoreFile), instance.env.Documents()); err != nil {
		return fmt.Errorf("failed to save document store for %s: %w", instance.name, err)
	}
	return nil
}
