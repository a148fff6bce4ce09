package tunnel

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Channel is one named lane of a tunnel.
type Channel struct {
	name   string
	nextID atomic.Uint64

	mu       sync.Mutex
	order    []uint64
	nodes    map[uint64]any
	watchers map[uint64]chan []any
	nextSub  uint64
}

func newChannel(name string) *Channel {
	return &Channel{
		name:     name,
		nodes:    make(map[uint64]any),
		watchers: make(map[uint64]chan []any),
	}
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// In returns the producer side.
func (c *Channel) In() In { return In{c: c} }

// Out returns the consumer side.
func (c *Channel) Out() Out { return Out{c: c} }

// In feeds nodes into a channel.
type In struct {
	c *Channel
}

// Feed adds node under a fresh child id and returns a function that removes
// it. The release function may be called any number of times.
// A nil node is ignored.
func (in In) Feed(node any) (release func()) {
	if node == nil {
		return func() {}
	}
	s := in.Slot()
	s.Set(node)
	return s.Clear
}

// Slot reserves a child id. Setting the slot again replaces its node in place
// and keeps its position.
func (in In) Slot() *Slot {
	return &Slot{c: in.c, id: in.c.nextID.Inc()}
}

// Slot is a single producer position inside a channel.
type Slot struct {
	c  *Channel
	id uint64
}

// Set stores node in the slot. A nil node clears it.
func (s *Slot) Set(node any) {
	if node == nil {
		s.Clear()
		return
	}
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if _, ok := s.c.nodes[s.id]; !ok {
		s.c.order = append(s.c.order, s.id)
	}
	s.c.nodes[s.id] = node
	s.c.notifyLocked()
}

// Clear removes the slot's node, if any.
func (s *Slot) Clear() {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if _, ok := s.c.nodes[s.id]; !ok {
		return
	}
	delete(s.c.nodes, s.id)
	for i, id := range s.c.order {
		if id == s.id {
			s.c.order = append(s.c.order[:i], s.c.order[i+1:]...)
			break
		}
	}
	s.c.notifyLocked()
}

// Out reads the nodes of a channel.
type Out struct {
	c *Channel
}

// Children returns the live nodes in feed order.
func (out Out) Children() []any {
	out.c.mu.Lock()
	defer out.c.mu.Unlock()
	return out.c.snapshotLocked()
}

// Len returns the number of live nodes.
func (out Out) Len() int {
	out.c.mu.Lock()
	defer out.c.mu.Unlock()
	return len(out.c.order)
}

// Watch returns a channel that receives the current children immediately
// and a fresh snapshot after every change. A slow reader only sees the
// latest snapshot. The channel is closed when ctx is done.
func (out Out) Watch(ctx context.Context) <-chan []any {
	c := out.c
	ch := make(chan []any, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.watchers[id] = ch
	ch <- c.snapshotLocked()
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.watchers, id)
		close(ch)
		c.mu.Unlock()
	}()

	return ch
}

func (c *Channel) snapshotLocked() []any {
	out := make([]any, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.nodes[id])
	}
	return out
}

func (c *Channel) notifyLocked() {
	if len(c.watchers) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, ch := range c.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
