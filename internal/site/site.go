package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/curtain"
	"github.com/aretw0/curtain/internal/adapters/redis"
	"github.com/aretw0/curtain/internal/config"
	"github.com/aretw0/curtain/internal/logging"
	"github.com/aretw0/curtain/internal/runtime"
	"github.com/aretw0/curtain/pkg/adapters/memory"
	"github.com/aretw0/curtain/pkg/domain"
	"github.com/aretw0/curtain/pkg/observability"
	"github.com/aretw0/curtain/pkg/ports"
	"github.com/aretw0/curtain/pkg/tunnel"
	"github.com/aretw0/curtain/pkg/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OverlayChannel is the tunnel channel carrying the names of running exit
// animations.
const OverlayChannel = "overlay"

// ErrPageNotFound is returned when navigating to a path without a page.
var ErrPageNotFound = errors.New("page not found")

// Site is a running simulated site.
type Site struct {
	cfg    config.Config
	pages  map[string]*Page
	logger *slog.Logger

	provider *curtain.Provider[*Page]
	location *memory.Location
	router   *memory.Router
	styles   *memory.StyleRecorder

	journal   ports.Journal
	registry  *prometheus.Registry
	metrics   *observability.Metrics
	projector *world.Projector
	tunnel    *tunnel.Tunnel

	disposers []domain.Disposer

	// navMu keeps each render, hint, move, commit sequence whole.
	navMu sync.Mutex
}

type options struct {
	logger  *slog.Logger
	journal ports.Journal
	hooks   []domain.LifecycleHooks
}

// Option configures a Site.
type Option func(*options)

// WithLogger sets the site logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithJournal overrides the journal selected by the configuration.
func WithJournal(j ports.Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}

// WithHooks adds lifecycle hooks after the built-in ones.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, h)
	}
}

// New builds and mounts a site from cfg.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Site, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	s := &Site{
		cfg:       cfg,
		pages:     make(map[string]*Page, len(cfg.Pages)),
		logger:    o.logger,
		location:  memory.NewLocation(cfg.InitialPath),
		router:    memory.NewRouter(),
		styles:    &memory.StyleRecorder{},
		projector: world.NewProjector(camera(cfg.Camera), world.NewViewport(cfg.Viewport.Width, cfg.Viewport.Height)),
		tunnel:    tunnel.New(OverlayChannel),
	}
	for path, md := range cfg.Pages {
		s.pages[path] = newPage(path, md)
	}

	s.journal = o.journal
	if s.journal == nil {
		s.journal = openJournal(cfg.Journal)
	}

	hooks := []domain.LifecycleHooks{
		observability.LogHooks(s.logger),
		observability.JournalHooks(s.journal, s.logger),
	}
	if cfg.Metrics {
		s.registry = prometheus.NewRegistry()
		m, err := observability.NewMetrics(s.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		s.metrics = m
		hooks = append(hooks, m.Hooks())
	}
	hooks = append(hooks, o.hooks...)

	s.provider = curtain.New[*Page](
		curtain.WithName("site"),
		curtain.WithLocation(s.location),
		curtain.WithRouter(s.router),
		curtain.WithStylePreserver(s.styles),
		curtain.WithPreserveStyles(cfg.PreserveStyles),
		curtain.WithLifecycleHooks(observability.Chain(hooks...)),
		curtain.WithLogger(s.logger),
	)

	for _, a := range cfg.Animations {
		s.disposers = append(s.disposers, s.provider.GetTransitionSpace(s.animate(a), animationOptions(a)...))
	}

	if err := s.provider.Mount(ctx, s.pages[cfg.InitialPath]); err != nil {
		return nil, err
	}
	return s, nil
}

func openJournal(cfg config.Journal) ports.Journal {
	if cfg.Driver == config.DriverRedis {
		opts := []redis.Option{redis.WithLimit(cfg.Limit)}
		if cfg.Key != "" {
			opts = append(opts, redis.WithKey(cfg.Key))
		}
		return redis.New(cfg.Addr, cfg.Password, cfg.DB, opts...)
	}
	return memory.NewJournal(cfg.Limit)
}

func animationOptions(a config.Animation) []domain.TransitionOption {
	var opts []domain.TransitionOption
	if a.Kill {
		opts = append(opts, curtain.Kill())
	}
	if a.Index != nil {
		opts = append(opts, curtain.AtIndex(*a.Index))
	}
	return opts
}

// animate returns an exit callback that holds the page for a.Duration.
// While it runs, the animation name is visible on the overlay channel.
func (s *Site) animate(a config.Animation) domain.Callback {
	overlay := s.tunnel.MustChannel(OverlayChannel)
	return func(ctx context.Context, path string) (domain.Disposer, error) {
		release := overlay.In().Feed(a.Name)
		defer release()

		s.logger.Debug("animation running", "animation", a.Name, "to", path, "duration", a.Duration)
		select {
		case <-time.After(a.Duration):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if a.Fail {
			return nil, fmt.Errorf("animation %q failed", a.Name)
		}

		name := a.Name
		return func() {
			s.logger.Debug("animation reset", "animation", name)
		}, nil
	}
}

// Navigate starts a navigation to path the way a client-side router does:
// the new page renders while the location still points at the old one,
// the router announces the route change, then the location moves and the
// render is committed again. Concurrent navigations run one at a time.
func (s *Site) Navigate(ctx context.Context, path string) (*runtime.Cycle, error) {
	page, ok := s.pages[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.navMu.Lock()
	defer s.navMu.Unlock()

	// Rendering ahead of the move only matters for the router hint. While a
	// cycle runs, the next evaluation must see the page with its own path.
	if s.provider.InFlight() == nil {
		s.provider.Commit(page)
	}
	s.router.Start(path)
	s.location.Set(path)
	return s.provider.Commit(page), nil
}

// Wait blocks until every pending navigation has been displayed.
func (s *Site) Wait(ctx context.Context) error {
	return s.provider.Wait(ctx)
}

// Displayed returns the page on screen.
func (s *Site) Displayed() *Page {
	page, _ := s.provider.Displayed()
	return page
}

// Status returns the transition status.
func (s *Site) Status() domain.Status {
	return s.provider.Status()
}

// Watch streams status changes until ctx is done.
func (s *Site) Watch(ctx context.Context) <-chan domain.Status {
	return s.provider.Watch(ctx)
}

// Running returns the names of exit animations currently running.
func (s *Site) Running() []string {
	children := s.tunnel.MustChannel(OverlayChannel).Out().Children()
	names := make([]string, 0, len(children))
	for _, c := range children {
		if name, ok := c.(string); ok {
			names = append(names, name)
		}
	}
	return names
}

// Registrations returns the number of animations still registered.
func (s *Site) Registrations() int {
	return s.provider.Registrations()
}

// Paths lists the page paths in order.
func (s *Site) Paths() []string {
	paths := make([]string, 0, len(s.pages))
	for p := range s.pages {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Page returns the page at path.
func (s *Site) Page(path string) (*Page, bool) {
	p, ok := s.pages[path]
	return p, ok
}

// Journal returns the journal recording completed cycles.
func (s *Site) Journal() ports.Journal {
	return s.journal
}

// MetricsHandler serves the site's metrics, or is nil when metrics are disabled.
func (s *Site) MetricsHandler() http.Handler {
	if s.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Project maps a screen rectangle into world units for the current viewport.
func (s *Site) Project(r world.Rect) world.Placement {
	return s.projector.World().FromBoundingRect(r)
}

// Resize updates the viewport used by Project.
func (s *Site) Resize(width, height float32) world.World {
	return s.projector.Resize(width, height)
}

// Close releases every registration and the journal.
func (s *Site) Close() error {
	for _, dispose := range s.disposers {
		dispose()
	}
	s.provider.Close()
	if c, ok := s.journal.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func camera(c config.Camera) world.Camera {
	return world.Camera{FOV: c.FOV, Distance: c.Distance}
}
