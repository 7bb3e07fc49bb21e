package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Snapshot summarizes recent page source health for the UI.
type Snapshot struct {
	Fetches             int // Total fetches recorded
	Failures            int // Total failed fetches
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the source has failed several fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent fetch outcome updates.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Record notes the outcome of one fetch. Cancellation is not a source failure
// and is ignored.
func (s *Store) Record(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Fetches++
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.Failures++
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
