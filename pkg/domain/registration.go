package domain

import "context"

// Disposer reverses the side effects of a previous callback run.
type Disposer func()

// Callback is the exit work registered for the next navigation.
// It receives the path being navigated to and may return a Disposer, which
// is invoked right before the same registration runs again on a later cycle.
// A non-nil error faults the whole cycle.
type Callback func(ctx context.Context, path string) (Disposer, error)

// Undo is an optional Disposer attached to a registration.
// The zero value is None.
type Undo struct {
	fn Disposer
}

// None returns an empty Undo.
func None() Undo {
	return Undo{}
}

// Some wraps fn. A nil fn yields None.
func Some(fn Disposer) Undo {
	return Undo{fn: fn}
}

// IsSome reports whether the Undo holds a disposer.
func (u Undo) IsSome() bool {
	return u.fn != nil
}

// Run invokes the disposer if present and reports whether it ran.
func (u Undo) Run() bool {
	if u.fn == nil {
		return false
	}
	u.fn()
	return true
}

// Options configures a single registration.
type Options struct {
	// Kill removes the registration after its first completed cycle.
	Kill bool

	// Index inserts the registration at the given position instead of appending.
	// Only honoured when HasIndex is set.
	Index    int
	HasIndex bool
}

// TransitionOption mutates Options.
type TransitionOption func(*Options)

// Kill marks a registration as one-shot.
func Kill() TransitionOption {
	return func(o *Options) {
		o.Kill = true
	}
}

// AtIndex inserts the registration at position i of the fan-out order.
// Out of range positions are clamped. AtIndex(0) puts it first; omit the
// option to append.
func AtIndex(i int) TransitionOption {
	return func(o *Options) {
		o.Index = i
		o.HasIndex = true
	}
}

// NewOptions applies opts over the zero Options.
func NewOptions(opts ...TransitionOption) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Registration is a callback stored pending execution.
type Registration struct {
	// ID is unique for the lifetime of the store and never reused.
	ID uint64

	Callback Callback
	Options  Options

	// Cleanup holds the disposer returned by the previous run, if any.
	Cleanup Undo
}
