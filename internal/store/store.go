// Package store holds the in-memory snapshot of each metal's dataset along
// with its fetch state. Snapshots are replaced wholesale on every refresh;
// nothing is mutated incrementally, so readers never observe a partial
// update.
package store

import (
	"sync"
	"time"

	"github.com/auradash/aura-metals-backend/internal/models"
)

// State is the fetch lifecycle of a metal's snapshot.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Snapshot is one metal's dataset plus its fetch state. Records are shared,
// not copied; callers treat them as read-only.
type Snapshot struct {
	Records   []models.PriceRecord
	State     State
	Err       error
	FetchedAt time.Time
}

type Store struct {
	mu    sync.RWMutex
	snaps map[models.Metal]Snapshot
}

func New() *Store {
	return &Store{
		snaps: map[models.Metal]Snapshot{
			models.Gold:   {State: StateIdle},
			models.Silver: {State: StateIdle},
		},
	}
}

// Get returns the current snapshot for a metal.
func (s *Store) Get(metal models.Metal) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snaps[metal]
}

// SetLoading marks a metal as loading. A previously ready dataset stays
// visible so readers are not blanked out during a refresh.
func (s *Store) SetLoading(metal models.Metal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snaps[metal]
	snap.State = StateLoading
	snap.Err = nil
	s.snaps[metal] = snap
}

// SetReady replaces a metal's dataset with a fresh one.
func (s *Store) SetReady(metal models.Metal, records []models.PriceRecord, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[metal] = Snapshot{
		Records:   records,
		State:     StateReady,
		FetchedAt: at,
	}
}

// SetError records a failed refresh. The previous dataset, if any, is
// dropped: a failed fetch means the data's freshness can no longer be
// vouched for.
func (s *Store) SetError(metal models.Metal, err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[metal] = Snapshot{
		State:     StateError,
		Err:       err,
		FetchedAt: at,
	}
}
