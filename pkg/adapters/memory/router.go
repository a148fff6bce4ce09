package memory

import "sync"

// Router implements ports.Router by broadcasting Start to every subscriber.
type Router struct {
	mu     sync.Mutex
	subs   map[uint64]func(string)
	nextID uint64
}

// NewRouter creates a router with no subscribers.
func NewRouter() *Router {
	return &Router{subs: make(map[uint64]func(string))}
}

// OnRouteChangeStart subscribes fn.
func (r *Router) OnRouteChangeStart(fn func(path string)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Start announces a navigation to path.
func (r *Router) Start(path string) {
	r.mu.Lock()
	subs := make([]func(string), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(path)
	}
}

// Subscribers returns the number of active subscribers.
func (r *Router) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
