// Package dataset holds the currently loaded record table.
//
// The table is immutable once stored: a reload fully replaces it. The
// store exists so the TUI and the file watcher can share one snapshot
// safely; there is never a concurrent writer beyond reloads.
package dataset

import (
	"sync"
	"time"

	"github.com/adrien/toolflow/internal/loader"
	"github.com/adrien/toolflow/internal/record"
)

// Snapshot is one fully loaded table plus its load metadata. Callers
// must treat Records and Warnings as read-only.
type Snapshot struct {
	Records  []record.Record
	Warnings []string
	LoadedAt time.Time
	Err      error // last load failure; Records then hold the previous table
}

// ChangeListener is called after a snapshot replacement, outside the
// store lock.
type ChangeListener func()

// Store is the thread-safe holder of the current snapshot.
type Store struct {
	mu        sync.RWMutex
	snap      Snapshot
	gen       uint64
	listeners []ChangeListener
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// OnChange registers a listener invoked after every accepted Replace.
// Listeners run synchronously and must not call back into Replace.
func (s *Store) OnChange(fn ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Replace installs the result of load generation gen. It reports
// whether the result was accepted: a result older than the newest one
// already applied is discarded (last-load-wins).
func (s *Store) Replace(gen uint64, res *loader.Result, err error) bool {
	s.mu.Lock()
	if gen < s.gen {
		s.mu.Unlock()
		return false
	}
	s.gen = gen

	snap := Snapshot{LoadedAt: time.Now(), Err: err}
	if err != nil {
		// Keep showing the previous table; surface the failure.
		snap.Records = s.snap.Records
		snap.Warnings = s.snap.Warnings
	} else {
		snap.Records = res.Records
		snap.Warnings = res.Warnings
	}
	s.snap = snap
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

// Snapshot returns the current table. The returned slices are shared
// and must not be mutated.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
