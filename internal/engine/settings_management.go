package engine

import (
	"fmt"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
)

// UpdateIndexSettings replaces the settings of an index, rebuilds its
// snapshot and persists the new settings. Queries running against the old
// snapshot finish with the old settings.
func (e *Engine) UpdateIndexSettings(name string, newSettings config.IndexSettings) error {
	if newSettings.Name != "" && newSettings.Name != name {
		return errors.NewValidationError("name", fmt.Sprintf("cannot change index name from '%s' to '%s' during settings update", name, newSettings.Name))
	}
	newSettings.Name = name
	if err := validateSettings(&newSettings); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.indexes[name]
	if !exists {
		return errors.NewIndexNotFoundError(name)
	}
	if err := instance.env.UpdateSettings(newSettings); err != nil {
		return errors.NewValidationError("settings", err.Error())
	}
	if err := e.persistUnsafe(instance); err != nil {
		e.logger.Error("settings updated in memory but not on disk", "index", name, "error", err)
		return fmt.Errorf("failed to save updated settings for index '%s': %w", name, err)
	}
	e.logger.Info("index settings updated", "index", name)
	return nil
}
