package runtime

import (
	"context"
	"sync"

	"github.com/aretw0/curtain/pkg/domain"
)

// Tracker holds the transition status.
// Anyone may read or watch it; only the orchestrator and the interceptor in
// this package can change it.
type Tracker struct {
	mu       sync.RWMutex
	status   domain.Status
	watchers map[uint64]chan domain.Status
	nextID   uint64
}

// NewTracker creates a tracker in the idle state.
func NewTracker() *Tracker {
	return &Tracker{
		status:   domain.StatusIdle,
		watchers: make(map[uint64]chan domain.Status),
	}
}

// Status returns the current status.
func (t *Tracker) Status() domain.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Watch returns a channel that receives the current status immediately and
// every change afterwards. A slow reader only sees the latest value.
// The channel is closed when ctx is done.
func (t *Tracker) Watch(ctx context.Context) <-chan domain.Status {
	ch := make(chan domain.Status, 1)

	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.watchers[id] = ch
	ch <- t.status
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		t.mu.Lock()
		delete(t.watchers, id)
		close(ch)
		t.mu.Unlock()
	}()

	return ch
}

// set changes the status and reports the previous value.
// Setting the current value again is a no-op and reports changed=false.
func (t *Tracker) set(s domain.Status) (prev domain.Status, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev = t.status
	if prev == s {
		return prev, false
	}
	t.status = s

	for _, ch := range t.watchers {
		// Replace a stale value nobody has read yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
	return prev, true
}
