// Package cache holds the in-memory working set: the normalized copy of the
// full inventory, refreshed on demand and invalidated on confirmed writes.
//
// Instead of a process-wide "dirty" flag, each snapshot carries a version
// stamp; consumers can tell exactly which refresh produced the data they are
// looking at.
package cache

import (
	"sync"
	"time"

	"github.com/jbautista-a11y/inventario-ti/internal/models"
)

// DefaultTTL matches the refresh interval of the original dashboard.
const DefaultTTL = 60 * time.Second

// Snapshot is one immutable view of the working set.
type Snapshot struct {
	Records   []models.Record
	Version   uint64
	FetchedAt time.Time
}

// WorkingSet is a version-stamped snapshot cache. Safe for concurrent use.
type WorkingSet struct {
	mu      sync.RWMutex
	ttl     time.Duration
	snap    *Snapshot
	version uint64

	now func() time.Time
}

// New creates a WorkingSet with the given freshness window.
func New(ttl time.Duration) *WorkingSet {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &WorkingSet{ttl: ttl, now: time.Now}
}

// Get returns the current snapshot if it is still fresh.
func (w *WorkingSet) Get() (*Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.snap == nil {
		return nil, false
	}
	if w.now().Sub(w.snap.FetchedAt) > w.ttl {
		return nil, false
	}
	return w.snap, true
}

// Put installs a freshly fetched working set and returns its snapshot.
func (w *WorkingSet) Put(records []models.Record) *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.version++
	w.snap = &Snapshot{
		Records:   records,
		Version:   w.version,
		FetchedAt: w.now(),
	}
	return w.snap
}

// Invalidate discards the cached snapshot. Called only after a confirmed
// write so subsequent reads observe the change.
func (w *WorkingSet) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snap = nil
}

// Version returns the version stamp of the most recent snapshot installed,
// whether or not it is still cached.
func (w *WorkingSet) Version() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.version
}
