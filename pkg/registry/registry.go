package registry

import (
	"sync"

	"github.com/aretw0/curtain/pkg/domain"
	"go.uber.org/atomic"
)

// Store holds the ordered registrations pending the next transition cycle.
// Every mutation replaces the backing slice instead of editing it in place,
// so a snapshot returned by List is never torn by a later mutation.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []domain.Registration
	nextID  atomic.Uint64
}

// New creates a new empty store.
func New() *Store {
	return &Store{}
}

// Register adds a registration and returns its id.
// Ids increase monotonically and are never reused, even after Deregister.
func (s *Store) Register(cb domain.Callback, opts domain.Options) uint64 {
	id := s.nextID.Inc()
	reg := domain.Registration{
		ID:       id,
		Callback: cb,
		Options:  opts,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := len(s.entries)
	if opts.HasIndex {
		pos = clamp(opts.Index, 0, len(s.entries))
	}

	next := make([]domain.Registration, 0, len(s.entries)+1)
	next = append(next, s.entries[:pos]...)
	next = append(next, reg)
	next = append(next, s.entries[pos:]...)
	s.entries = next
	return id
}

// Deregister removes the registration with the given id.
// It reports whether an entry was removed; unknown ids are a no-op.
func (s *Store) Deregister(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}

	next := make([]domain.Registration, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)
	s.entries = next
	return true
}

// List returns a snapshot of the registrations in fan-out order.
func (s *Store) List() []domain.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Registration, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of pending registrations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Replace sets the stored collection to exactly survivors.
func (s *Store) Replace(survivors []domain.Registration) {
	next := make([]domain.Registration, len(survivors))
	copy(next, survivors)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = next
}

// Settle applies the outcome of a completed cycle in a single step.
// ran and cleanups are positional: cleanups[i] is the new Undo for ran[i].
// Cleanups are written back only to registrations still present, and every
// one-shot registration that ran is dropped. Registrations added while the
// cycle was in flight are kept untouched.
func (s *Store) Settle(ran []domain.Registration, cleanups []domain.Undo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := make(map[uint64]domain.Undo, len(ran))
	killed := make(map[uint64]bool)
	for i, reg := range ran {
		if i < len(cleanups) {
			outcome[reg.ID] = cleanups[i]
		}
		if reg.Options.Kill {
			killed[reg.ID] = true
		}
	}

	survivors := make([]domain.Registration, 0, len(s.entries))
	for _, reg := range s.entries {
		if killed[reg.ID] {
			continue
		}
		if undo, ok := outcome[reg.ID]; ok {
			reg.Cleanup = undo
		}
		survivors = append(survivors, reg)
	}
	s.entries = survivors
}

func (s *Store) indexLocked(id uint64) int {
	for i, reg := range s.entries {
		if reg.ID == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
