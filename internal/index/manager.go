package index

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
	"github.com/floorwise/floorwise-cli/internal/logger"
)

// Manager owns one lexical snapshot per scope key and rebuilds them on
// demand. Writers call Invalidate after any document insert; readers call
// GetOrBuild and receive a snapshot that is current as of that call.
//
// Rebuilds happen off to the side and are published atomically: a reader
// never observes a half-built snapshot. Builds serialise on one mutex so
// that query-time rebuilds and ingestion-triggered rebuilds cannot race,
// but snapshots for different scopes never invalidate each other.
type Manager struct {
	store driven.CorpusStore

	version atomic.Uint64

	mu        sync.RWMutex
	snapshots map[string]*entry

	buildMu sync.Mutex
}

// entry pairs a snapshot with the corpus version it was built from.
type entry struct {
	snap    *Snapshot
	version uint64
}

// NewManager creates a manager reading corpora from the given store.
func NewManager(store driven.CorpusStore) *Manager {
	return &Manager{
		store:     store,
		snapshots: make(map[string]*entry),
	}
}

// Invalidate marks every snapshot stale. Cheap to call; the next
// GetOrBuild per scope pays for the rebuild.
func (m *Manager) Invalidate() {
	m.version.Add(1)
}

// GetOrBuild returns the current snapshot for the scope, rebuilding it
// first if a write has happened since it was built (or if the scope has
// never been indexed).
func (m *Manager) GetOrBuild(ctx context.Context, scope domain.Scope) (*Snapshot, error) {
	current := m.version.Load()

	m.mu.RLock()
	e, ok := m.snapshots[scope.Key()]
	m.mu.RUnlock()
	if ok && e.version == current {
		return e.snap, nil
	}

	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	// Another caller may have rebuilt while we waited for the lock.
	current = m.version.Load()
	m.mu.RLock()
	e, ok = m.snapshots[scope.Key()]
	m.mu.RUnlock()
	if ok && e.version == current {
		return e.snap, nil
	}

	docs, err := m.store.AllDocuments(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load corpus for lexical index: %w", err)
	}
	snap := Build(docs)
	logger.Debug("Lexical index rebuilt: scope=%q docs=%d version=%d", scope.Key(), snap.Len(), current)

	m.mu.Lock()
	m.snapshots[scope.Key()] = &entry{snap: snap, version: current}
	m.mu.Unlock()

	return snap, nil
}
