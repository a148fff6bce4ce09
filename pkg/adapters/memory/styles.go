package memory

import "sync"

// StyleRecorder implements ports.StylePreserver by counting calls.
// Saved reports whether a snapshot is currently held.
type StyleRecorder struct {
	mu     sync.Mutex
	saves  int
	clears int
	saved  bool
}

// Save records a snapshot.
func (s *StyleRecorder) Save() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.saved = true
}

// Clear drops the snapshot.
func (s *StyleRecorder) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.saved = false
}

// Counts returns how many times Save and Clear ran.
func (s *StyleRecorder) Counts() (saves, clears int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves, s.clears
}

// Saved reports whether a snapshot is held.
func (s *StyleRecorder) Saved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}
