package memory

import "sync"

// Location implements ports.Location with a settable path.
// Safe for concurrent use.
type Location struct {
	mu   sync.RWMutex
	path string
	ok   bool
}

// NewLocation creates a location pointing at path.
func NewLocation(path string) *Location {
	return &Location{path: path, ok: true}
}

// Pathname returns the current path.
func (l *Location) Pathname() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.path, l.ok
}

// Set moves the location to path.
func (l *Location) Set(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = path
	l.ok = true
}

// Unset detaches the environment; Pathname reports ok=false until the next Set.
func (l *Location) Unset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ok = false
}
