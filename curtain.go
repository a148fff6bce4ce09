package curtain

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/curtain/internal/logging"
	"github.com/aretw0/curtain/internal/runtime"
	"github.com/aretw0/curtain/pkg/domain"
	"github.com/aretw0/curtain/pkg/ports"
	"github.com/aretw0/curtain/pkg/registry"
)

// Space is the registration contract handed to components that want to run
// exit work on the next navigation.
type Space interface {
	// GetTransitionSpace registers cb without invoking it. The returned
	// disposer removes this exact registration; it never panics and may be
	// called any number of times, including while a cycle is running.
	GetTransitionSpace(cb domain.Callback, opts ...domain.TransitionOption) domain.Disposer

	// Status reports whether a transition is in progress.
	Status() domain.Status
}

// Provider is the high-level entry point for the Curtain library.
// It owns one registration store and one orchestrator, and is meant to be
// created once per application root, wrapping the whole content tree.
//
// C is the renderer's output; it is only ever compared by identity.
type Provider[C comparable] struct {
	store   *registry.Store
	tracker *runtime.Tracker
	orch    *runtime.Orchestrator[C]
	logger  *slog.Logger
	Name    string
}

var _ Space = (*Provider[int])(nil)

type config struct {
	location       ports.Location
	router         ports.Router
	styles         ports.StylePreserver
	preserveStyles bool
	hooks          domain.LifecycleHooks
	logger         *slog.Logger
	name           string
}

// Option defines a functional option for configuring the Provider.
type Option func(*config)

// WithLocation sets where the current page path is read from.
// Without a location no navigation is ever detected.
func WithLocation(l ports.Location) Option {
	return func(c *config) {
		c.location = l
	}
}

// WithRouter enables pre-emptive status changes on route change notifications.
func WithRouter(r ports.Router) Option {
	return func(c *config) {
		c.router = r
	}
}

// WithStylePreserver sets the collaborator that keeps the outgoing page's
// styles alive during a cycle, and enables it.
func WithStylePreserver(p ports.StylePreserver) Option {
	return func(c *config) {
		c.styles = p
		c.preserveStyles = true
	}
}

// WithPreserveStyles toggles the style preserver without replacing it.
func WithPreserveStyles(enabled bool) Option {
	return func(c *config) {
		c.preserveStyles = enabled
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithName labels the provider in logs.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// New creates a Provider. Call Mount before the first Commit.
func New[C comparable](opts ...Option) *Provider[C] {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.name != "" {
		cfg.logger = cfg.logger.With("provider", cfg.name)
	}

	store := registry.New()
	tracker := runtime.NewTracker()
	orch := runtime.NewOrchestrator[C](store, tracker,
		runtime.WithLocation(cfg.location),
		runtime.WithRouter(cfg.router),
		runtime.WithStylePreserver(cfg.styles),
		runtime.WithPreserveStyles(cfg.preserveStyles),
		runtime.WithLifecycleHooks(cfg.hooks),
		runtime.WithLogger(cfg.logger),
	)

	return &Provider[C]{
		store:   store,
		tracker: tracker,
		orch:    orch,
		logger:  cfg.logger,
		Name:    cfg.name,
	}
}

// Mount records the initial content; the initial path is read from the
// location right away. No transition runs for the first render.
func (p *Provider[C]) Mount(ctx context.Context, initial C) error {
	return p.orch.Mount(ctx, initial)
}

// Commit hands the latest rendered output to the orchestrator.
// Call it after every render.
func (p *Provider[C]) Commit(rendered C) *runtime.Cycle {
	return p.orch.Commit(rendered)
}

// Wait blocks until every pending cycle has swapped, or returns the fault
// of a stalled one.
func (p *Provider[C]) Wait(ctx context.Context) error {
	return p.orch.Wait(ctx)
}

// InFlight returns the running or stalled cycle, or nil when idle.
func (p *Provider[C]) InFlight() *runtime.Cycle {
	return p.orch.InFlight()
}

// Displayed returns the content on screen and its path.
func (p *Provider[C]) Displayed() (C, string) {
	return p.orch.Displayed()
}

// Close detaches the provider from the router and cancels running callbacks' context.
func (p *Provider[C]) Close() {
	p.orch.Close()
}

// GetTransitionSpace implements Space.
func (p *Provider[C]) GetTransitionSpace(cb domain.Callback, opts ...domain.TransitionOption) domain.Disposer {
	if cb == nil {
		return func() {}
	}

	o := domain.NewOptions(opts...)
	id := p.store.Register(cb, o)
	p.logger.Debug("transition space registered", "id", id, "kill", o.Kill)

	var once sync.Once
	return func() {
		once.Do(func() {
			if p.store.Deregister(id) {
				p.logger.Debug("transition space released", "id", id)
			}
		})
	}
}

// Status implements Space.
func (p *Provider[C]) Status() domain.Status {
	return p.tracker.Status()
}

// Watch streams status changes until ctx is done.
func (p *Provider[C]) Watch(ctx context.Context) <-chan domain.Status {
	return p.tracker.Watch(ctx)
}

// Registrations returns the number of pending registrations.
func (p *Provider[C]) Registrations() int {
	return p.store.Len()
}

// Context returns a child of ctx carrying this provider as the Space.
func (p *Provider[C]) Context(ctx context.Context) context.Context {
	return NewContext(ctx, p)
}

// Kill marks a registration as one-shot.
func Kill() domain.TransitionOption {
	return domain.Kill()
}

// AtIndex inserts a registration at position i of the fan-out order.
func AtIndex(i int) domain.TransitionOption {
	return domain.AtIndex(i)
}
