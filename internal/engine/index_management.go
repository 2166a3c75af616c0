package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
)

// validateSettings applies defaults and rejects inconsistent settings.
func validateSettings(settings *config.IndexSettings) error {
	settings.ApplyDefaults()
	if conflicts := settings.Validate(); len(conflicts) > 0 {
		return errors.NewValidationError("settings", strings.Join(conflicts, "; "))
	}
	return nil
}

// CreateIndex creates a new index with the given settings and persists it.
func (e *Engine) CreateIndex(settings config.IndexSettings) error {
	if err := validateSettings(&settings); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[settings.Name]; exists {
		return errors.NewIndexAlreadyExistsError(settings.Name)
	}

	instance, err := e.newIndexInstance(settings, nil)
	if err != nil {
		return fmt.Errorf("failed to create new index instance for '%s': %w", settings.Name, err)
	}

	if err := e.persistUnsafe(instance); err != nil {
		return fmt.Errorf("failed to persist new index '%s': %w", settings.Name, err)
	}

	e.indexes[settings.Name] = instance
	e.logger.Info("index created", "index", settings.Name)
	return nil
}

// DeleteIndex deletes an index and its data from disk.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		return errors.NewIndexNotFoundError(name)
	}
	delete(e.indexes, name)

	if e.dataDir != "" {
		indexPath := filepath.Join(e.dataDir, name)
		if err := os.RemoveAll(indexPath); err != nil {
			return fmt.Errorf("failed to delete index data directory %s: %w", indexPath, err)
		}
	}
	e.logger.Info("index deleted", "index", name)
	return nil
}
