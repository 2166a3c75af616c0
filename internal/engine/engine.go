// Package engine is the registry of open indexes. Each index owns a store
// environment and the search service reading from it.
package engine

import (
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/logging"
	"github.com/gcbaptista/go-ranking-engine/internal/metrics"
	"github.com/gcbaptista/go-ranking-engine/services"
)

// Engine manages multiple search indexes.
// It implements the services.IndexManager interface.
type Engine struct {
	mu      sync.RWMutex
	indexes map[string]*IndexInstance
	dataDir string // empty keeps every index in memory only
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics records query and snapshot metrics of every index on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates a new search engine orchestrator and loads the indexes
// persisted under dataDir.
func NewEngine(dataDir string, opts ...Option) *Engine {
	eng := &Engine{
		indexes: make(map[string]*IndexInstance),
		dataDir: dataDir,
		logger:  logging.WithComponent("engine"),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if dataDir == "" {
		return eng
	}
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		eng.logger.Warn("could not create data directory, new indexes will not persist", "dir", dataDir, "error", err)
	}
	eng.loadIndexesFromDisk()
	return eng
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, errors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// GetIndexSettings retrieves the settings for a specific index.
func (e *Engine) GetIndexSettings(name string) (config.IndexSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return config.IndexSettings{}, errors.NewIndexNotFoundError(name)
	}
	return instance.Settings(), nil
}

// ListIndexes returns the names of all open indexes in ascending order.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
