package runtime

import (
	"context"
	"time"
)

// Cycle is a handle on one transition cycle.
type Cycle struct {
	from          string
	to            string
	registrations int
	startedAt     time.Time

	done chan struct{}
	err  error
}

func newCycle(from, to string, registrations int) *Cycle {
	return &Cycle{
		from:          from,
		to:            to,
		registrations: registrations,
		startedAt:     time.Now(),
		done:          make(chan struct{}),
	}
}

// settledCycle returns a cycle that is already finished.
func settledCycle(from, to string, err error) *Cycle {
	c := newCycle(from, to, 0)
	c.finish(err)
	return c
}

func (c *Cycle) finish(err error) {
	c.err = err
	close(c.done)
}

// Done is closed once the cycle has swapped the content or faulted.
func (c *Cycle) Done() <-chan struct{} {
	return c.done
}

// Err returns the fault that stopped the cycle, or nil. Only meaningful after Done.
func (c *Cycle) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// From returns the path displayed when the cycle started.
func (c *Cycle) From() string { return c.from }

// To returns the path the cycle navigates to.
func (c *Cycle) To() string { return c.to }

// Registrations returns how many callbacks the cycle fanned out to.
func (c *Cycle) Registrations() int { return c.registrations }

// Wait blocks until the cycle finishes or ctx is done.
func (c *Cycle) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
