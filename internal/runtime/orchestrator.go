package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/curtain/pkg/domain"
	"github.com/aretw0/curtain/pkg/registry"
	"golang.org/x/sync/errgroup"
)

// Orchestrator is the transition state machine.
// It keeps displaying the previous content until every registered callback
// has finished, then swaps the content and path in one step.
//
// C is the rendered output. It is only compared by identity.
type Orchestrator[C comparable] struct {
	settings
	store       *registry.Store
	tracker     *Tracker
	interceptor *Interceptor

	mu            sync.Mutex
	mounted       bool
	closed        bool
	displayed     C
	rendered      C
	displayedPath string
	inflight      *Cycle
	ctx           context.Context
	cancel        context.CancelFunc

	// Status events queued under mu, delivered in order by one drainer.
	statusEvents []*domain.StatusEvent
	draining     bool
}

// launch is a cycle waiting to fan out.
type launch[C comparable] struct {
	cycle   *Cycle
	regs    []domain.Registration
	content C
	path    string
}

// plan is the outcome of evaluating the trigger condition.
type plan[C comparable] struct {
	cycle   *Cycle
	swapped bool
	launch  *launch[C]
}

// NewOrchestrator creates an orchestrator draining store and driving tracker.
func NewOrchestrator[C comparable](store *registry.Store, tracker *Tracker, opts ...Option) *Orchestrator[C] {
	o := &Orchestrator[C]{
		settings: newSettings(opts),
		store:    store,
		tracker:  tracker,
	}
	o.interceptor = NewInterceptor(o.router, o, o.logger)
	return o
}

// Mount records the initial content and path. No transition runs for it.
func (o *Orchestrator[C]) Mount(ctx context.Context, initial C) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return domain.ErrClosed
	}
	if o.mounted {
		o.mu.Unlock()
		return domain.ErrAlreadyMounted
	}

	path, _ := o.pathname()
	o.displayed = initial
	o.rendered = initial
	o.displayedPath = path
	o.mounted = true
	o.ctx, o.cancel = context.WithCancel(ctx)
	o.mu.Unlock()

	o.interceptor.Start()
	o.logger.Debug("orchestrator mounted", "path", path)
	return nil
}

// Commit evaluates the trigger condition for freshly rendered content.
// It must be called after every render; a render that does not change both
// the content and the path is a no-op.
//
// While a cycle is in flight the newest content is remembered and the
// in-flight cycle is returned. Once that cycle swaps, the trigger is
// evaluated again against the newest content, so a navigation issued during
// a cycle is neither lost nor swapped twice.
func (o *Orchestrator[C]) Commit(rendered C) *Cycle {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return settledCycle("", "", domain.ErrClosed)
	}
	if !o.mounted {
		o.mu.Unlock()
		return settledCycle("", "", domain.ErrNotMounted)
	}

	o.rendered = rendered
	if o.inflight != nil {
		c := o.inflight
		o.mu.Unlock()
		o.logger.Debug("render queued behind in-flight cycle", "to", c.To())
		return c
	}

	p := o.evaluateLocked()
	o.unlock()

	o.follow(p)
	return p.cycle
}

// Wait blocks until no cycle is in flight, following chained cycles.
// It returns the fault of a stalled cycle.
func (o *Orchestrator[C]) Wait(ctx context.Context) error {
	for {
		o.mu.Lock()
		c := o.inflight
		o.mu.Unlock()

		if c == nil {
			return nil
		}
		if err := c.Wait(ctx); err != nil {
			return err
		}
	}
}

// Displayed returns the content and path currently displayed.
func (o *Orchestrator[C]) Displayed() (C, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.displayed, o.displayedPath
}

// InFlight returns the running cycle, or nil.
func (o *Orchestrator[C]) InFlight() *Cycle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inflight
}

// Close stops listening to the router and cancels the context handed to
// callbacks. A running cycle is not awaited.
func (o *Orchestrator[C]) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	cancel := o.cancel
	o.mu.Unlock()

	o.interceptor.Stop()
	if cancel != nil {
		cancel()
	}
}

// hintNavigation implements navigationHinter.
func (o *Orchestrator[C]) hintNavigation(path string) bool {
	o.mu.Lock()
	defer o.unlock()

	if !o.mounted || o.closed {
		return false
	}
	if o.rendered == o.displayed || path == o.displayedPath || o.store.Len() == 0 {
		return false
	}
	o.setStatusLocked(domain.StatusTransitioning)
	return true
}

// evaluateLocked checks the trigger condition and either swaps immediately,
// prepares a cycle, or does nothing.
func (o *Orchestrator[C]) evaluateLocked() plan[C] {
	path, ok := o.pathname()
	if !ok || o.rendered == o.displayed || path == o.displayedPath {
		// Settle a hint left by the interceptor for a navigation that
		// never produced new content.
		o.setStatusLocked(domain.StatusIdle)
		if !ok {
			path = o.displayedPath
		}
		return plan[C]{cycle: settledCycle(o.displayedPath, path, nil)}
	}

	from := o.displayedPath
	regs := o.store.List()

	if len(regs) == 0 {
		o.saveStyles()
		o.displayed = o.rendered
		o.displayedPath = path
		o.clearStyles()
		o.setStatusLocked(domain.StatusIdle)
		return plan[C]{cycle: settledCycle(from, path, nil), swapped: true}
	}

	c := newCycle(from, path, len(regs))
	o.inflight = c
	o.saveStyles()
	o.setStatusLocked(domain.StatusTransitioning)

	return plan[C]{
		cycle: c,
		launch: &launch[C]{
			cycle:   c,
			regs:    regs,
			content: o.rendered,
			path:    path,
		},
	}
}

// follow performs the side effects of a plan outside of the lock.
func (o *Orchestrator[C]) follow(p plan[C]) {
	ctx := o.lifetime()
	switch {
	case p.swapped:
		o.logger.Debug("content swapped without transitions", "from", p.cycle.From(), "to", p.cycle.To())
		o.emitTransition(ctx, o.hooks.OnTransitionEnd, domain.EventTransitionEnd, p.cycle, nil)
	case p.launch != nil:
		o.logger.InfoContext(ctx, "transition started",
			"from", p.cycle.From(),
			"to", p.cycle.To(),
			"registrations", p.cycle.Registrations(),
		)
		o.emitTransition(ctx, o.hooks.OnTransitionStart, domain.EventTransitionStart, p.cycle, nil)
		go o.run(ctx, p.launch)
	}
}

// run fans out to every registration, joins, and completes or faults the cycle.
func (o *Orchestrator[C]) run(ctx context.Context, l *launch[C]) {
	cleanups := make([]domain.Undo, len(l.regs))

	var g errgroup.Group
	for i, reg := range l.regs {
		g.Go(func() error {
			undo, err := o.invoke(ctx, reg, l.path)
			if err != nil {
				return err
			}
			cleanups[i] = undo
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.fault(ctx, l, err)
		return
	}
	o.complete(ctx, l, cleanups)
}

// invoke runs the previous cleanup, then the callback.
func (o *Orchestrator[C]) invoke(ctx context.Context, reg domain.Registration, path string) (domain.Undo, error) {
	started := time.Now()
	o.emitCallback(ctx, o.hooks.OnCallbackStart, &domain.CallbackEvent{
		EventBase:      domain.EventBase{Timestamp: started, Type: domain.EventCallbackStart},
		RegistrationID: reg.ID,
		Path:           path,
		RanCleanup:     reg.Cleanup.IsSome(),
	})

	reg.Cleanup.Run()
	disposer, err := reg.Callback(ctx, path)

	o.emitCallback(ctx, o.hooks.OnCallbackReturn, &domain.CallbackEvent{
		EventBase:      domain.EventBase{Timestamp: time.Now(), Type: domain.EventCallbackReturn},
		RegistrationID: reg.ID,
		Path:           path,
		RanCleanup:     reg.Cleanup.IsSome(),
		Disposer:       disposer != nil,
		Duration:       time.Since(started),
		IsError:        err != nil,
	})

	if err != nil {
		return domain.None(), &domain.CallbackError{
			RegistrationID: reg.ID,
			Path:           path,
			Cause:          err,
		}
	}
	return domain.Some(disposer), nil
}

// complete swaps the content after a successful join.
func (o *Orchestrator[C]) complete(ctx context.Context, l *launch[C], cleanups []domain.Undo) {
	o.mu.Lock()
	o.displayed = l.content
	o.displayedPath = l.path
	o.store.Settle(l.regs, cleanups)
	o.clearStyles()
	o.inflight = nil
	o.setStatusLocked(domain.StatusIdle)

	next := plan[C]{}
	if !o.closed {
		next = o.evaluateLocked()
	}
	o.unlock()

	o.logger.InfoContext(ctx, "transition completed",
		"from", l.cycle.From(),
		"to", l.cycle.To(),
		"duration", time.Since(l.cycle.startedAt),
	)
	o.emitTransition(ctx, o.hooks.OnTransitionEnd, domain.EventTransitionEnd, l.cycle, nil)

	if next.cycle != nil {
		o.follow(next)
	}
	l.cycle.finish(nil)
}

// fault stalls the orchestrator: no swap, no pruning, status stays
// transitioning and later commits queue behind the faulted cycle.
func (o *Orchestrator[C]) fault(ctx context.Context, l *launch[C], err error) {
	o.logger.ErrorContext(ctx, "transition faulted",
		"from", l.cycle.From(),
		"to", l.cycle.To(),
		"err", err,
	)
	o.emitTransition(ctx, o.hooks.OnTransitionFault, domain.EventTransitionFault, l.cycle, err)
	l.cycle.finish(err)
}

func (o *Orchestrator[C]) setStatusLocked(s domain.Status) {
	prev, changed := o.tracker.set(s)
	if !changed || o.hooks.OnStatusChange == nil {
		return
	}
	o.statusEvents = append(o.statusEvents, &domain.StatusEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStatusChange},
		From:      prev,
		To:        s,
	})
}

// unlock releases mu and delivers queued status events outside of it.
// Events queued by a hook that calls back in are delivered by the same loop.
func (o *Orchestrator[C]) unlock() {
	if o.draining || len(o.statusEvents) == 0 {
		o.mu.Unlock()
		return
	}
	o.draining = true
	for len(o.statusEvents) > 0 {
		events := o.statusEvents
		o.statusEvents = nil
		ctx := o.contextLocked()
		o.mu.Unlock()

		for _, e := range events {
			o.hooks.OnStatusChange(ctx, e)
		}
		o.mu.Lock()
	}
	o.draining = false
	o.mu.Unlock()
}

func (o *Orchestrator[C]) pathname() (string, bool) {
	if o.location == nil {
		return "", false
	}
	return o.location.Pathname()
}

func (o *Orchestrator[C]) saveStyles() {
	if o.preserveStyles && o.styles != nil {
		o.styles.Save()
	}
}

func (o *Orchestrator[C]) clearStyles() {
	if o.preserveStyles && o.styles != nil {
		o.styles.Clear()
	}
}

func (o *Orchestrator[C]) lifetime() context.Context {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.contextLocked()
}

func (o *Orchestrator[C]) contextLocked() context.Context {
	if o.ctx == nil {
		return context.Background()
	}
	return o.ctx
}

func (o *Orchestrator[C]) emitTransition(ctx context.Context, hook func(context.Context, *domain.TransitionEvent), typ domain.EventType, c *Cycle, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.TransitionEvent{
		EventBase:     domain.EventBase{Timestamp: time.Now(), Type: typ},
		From:          c.From(),
		To:            c.To(),
		Registrations: c.Registrations(),
		Duration:      time.Since(c.startedAt),
		Err:           err,
	})
}

func (o *Orchestrator[C]) emitCallback(ctx context.Context, hook func(context.Context, *domain.CallbackEvent), e *domain.CallbackEvent) {
	if hook != nil {
		hook(ctx, e)
	}
}
