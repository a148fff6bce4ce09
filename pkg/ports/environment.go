package ports

// Location reads the current page path from the navigation environment.
type Location interface {
	// Pathname returns the current path. ok is false when no environment is
	// available (e.g. server side execution); callers skip their work then.
	Pathname() (path string, ok bool)
}

// Router emits a notification when a navigation starts.
type Router interface {
	// OnRouteChangeStart subscribes fn and returns a function that removes it.
	// The returned function must be safe to call more than once.
	OnRouteChangeStart(fn func(path string)) (unsubscribe func())
}

// StylePreserver protects the outgoing page's styling while a cycle runs.
type StylePreserver interface {
	// Save snapshots the current styles so they survive the content swap.
	Save()
	// Clear removes the snapshot taken by Save.
	Clear()
}
