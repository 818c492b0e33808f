// Package tasks provides a deferred-settlement store: fire-and-forget
// operations are registered without blocking the caller, and a later join
// point waits for everything registered so far. It is a cooperative barrier,
// not a scheduler — no ordering is guaranteed among the pending operations.
package tasks

import "sync"

// Store tracks in-flight background operations.
type Store struct {
	mu      sync.Mutex
	pending []<-chan struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Go starts f in its own goroutine and registers it, returning immediately.
func (s *Store) Go(f func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()

	s.mu.Lock()
	s.pending = append(s.pending, done)
	s.mu.Unlock()
}

// Sync waits for every operation registered before the call, then clears the
// registry. Operations registered while Sync is waiting are left for the
// next call.
func (s *Store) Sync() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, done := range pending {
		<-done
	}
}
