// Package store is the in-memory reference implementation of the index
// storage contract. An Environment owns the documents of one index and
// publishes immutable snapshots: any number of readers pin a snapshot for
// the duration of a query while a single writer builds the next one.
package store

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gcbaptista/go-ranking-engine/config"
)

type version struct {
	snap    *Snapshot
	refs    atomic.Int64
	retired atomic.Bool
	freed   atomic.Bool
}

// Environment is the process-wide handle of one index.
type Environment struct {
	writeMu  sync.Mutex
	settings config.IndexSettings
	docs     *DocumentStore
	current  atomic.Pointer[version]
	readers  atomic.Int64

	// OnPublish and OnRelease are optional hooks, called with the snapshot
	// generation when a snapshot is published and when a retired snapshot
	// has no readers left.
	OnPublish func(generation uint64)
	OnRelease func(generation uint64)
}

// ReadHandle pins one snapshot until Close.
type ReadHandle struct {
	env    *Environment
	v      *version
	closed atomic.Bool
}

// Open creates an environment holding docs (nil for empty) and publishes its
// first snapshot.
func Open(settings config.IndexSettings, docs *DocumentStore) (*Environment, error) {
	if docs == nil {
		docs = NewDocumentStore()
	}
	env := &Environment{settings: settings.Clone(), docs: docs}
	snap, err := Build(&env.settings, docs, 1)
	if err != nil {
		return nil, fmt.Errorf("build initial snapshot: %w", err)
	}
	env.current.Store(&version{snap: snap})
	return env, nil
}

// OpenSnapshot pins the current snapshot. The handle must be closed.
func (e *Environment) OpenSnapshot() *ReadHandle {
	for {
		v := e.current.Load()
		v.refs.Add(1)
		if e.current.Load() == v {
			e.readers.Add(1)
			return &ReadHandle{env: e, v: v}
		}
		e.unref(v)
	}
}

// Snapshot returns the pinned snapshot.
func (h *ReadHandle) Snapshot() *Snapshot { return h.v.snap }

// Close releases the pin. Closing twice is a no-op.
func (h *ReadHandle) Close() {
	if h.closed.Swap(true) {
		return
	}
	h.env.readers.Add(-1)
	h.env.unref(h.v)
}

func (e *Environment) unref(v *version) {
	if v.refs.Add(-1) == 0 && v.retired.Load() {
		e.free(v)
	}
}

func (e *Environment) free(v *version) {
	if v.freed.CompareAndSwap(false, true) && e.OnRelease != nil {
		e.OnRelease(v.snap.generation)
	}
}

// ActiveReaders returns the number of open read handles.
func (e *Environment) ActiveReaders() int64 { return e.readers.Load() }

// Generation returns the generation of the current snapshot.
func (e *Environment) Generation() uint64 { return e.current.Load().snap.generation }

// Settings returns the settings the current snapshot was built with.
func (e *Environment) Settings() config.IndexSettings {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.settings.Clone()
}

// Update runs fn against a private copy of the documents, builds a new
// snapshot and publishes it. If fn or the build fails nothing changes.
// Updates are serialized; readers are never blocked.
func (e *Environment) Update(fn func(docs *DocumentStore) error) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	next := e.docs.Clone()
	if err := fn(next); err != nil {
		return err
	}
	return e.publishLocked(e.settings, next)
}

// UpdateSettings rebuilds the current documents under new settings.
func (e *Environment) UpdateSettings(settings config.IndexSettings) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.publishLocked(settings.Clone(), e.docs)
}

func (e *Environment) publishLocked(settings config.IndexSettings, docs *DocumentStore) error {
	gen := e.current.Load().snap.generation + 1
	snap, err := Build(&settings, docs, gen)
	if err != nil {
		return fmt.Errorf("build snapshot %d: %w", gen, err)
	}
	e.settings = settings
	e.docs = docs

	old := e.current.Swap(&version{snap: snap})
	old.retired.Store(true)
	if old.refs.Load() == 0 {
		e.free(old)
	}
	if e.OnPublish != nil {
		e.OnPublish(gen)
	}
	return nil
}

// Documents returns a copy of the document store for persistence.
func (e *Environment) Documents() *DocumentStore {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.docs.Clone()
}
