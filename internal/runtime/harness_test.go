package runtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/curtain/internal/runtime"
	"github.com/aretw0/curtain/pkg/adapters/memory"
	"github.com/aretw0/curtain/pkg/domain"
	"github.com/aretw0/curtain/pkg/registry"
	"github.com/stretchr/testify/require"
)

type page struct {
	path string
}

type harness struct {
	t       *testing.T
	store   *registry.Store
	tracker *runtime.Tracker
	loc     *memory.Location
	router  *memory.Router
	styles  *memory.StyleRecorder
	orch    *runtime.Orchestrator[*page]
	initial *page

	mu       sync.Mutex
	statuses []domain.Status
	ended    []string
	faults   int
}

func newHarness(t *testing.T, opts ...runtime.Option) *harness {
	t.Helper()

	h := &harness{
		t:       t,
		store:   registry.New(),
		tracker: runtime.NewTracker(),
		loc:     memory.NewLocation("/a"),
		router:  memory.NewRouter(),
		styles:  &memory.StyleRecorder{},
		initial: &page{path: "/a"},
	}

	hooks := domain.LifecycleHooks{
		OnStatusChange: func(ctx context.Context, e *domain.StatusEvent) {
			h.mu.Lock()
			h.statuses = append(h.statuses, e.To)
			h.mu.Unlock()
		},
		OnTransitionEnd: func(ctx context.Context, e *domain.TransitionEvent) {
			h.mu.Lock()
			h.ended = append(h.ended, e.To)
			h.mu.Unlock()
		},
		OnTransitionFault: func(ctx context.Context, e *domain.TransitionEvent) {
			h.mu.Lock()
			h.faults++
			h.mu.Unlock()
		},
	}

	base := []runtime.Option{
		runtime.WithLocation(h.loc),
		runtime.WithRouter(h.router),
		runtime.WithStylePreserver(h.styles),
		runtime.WithLifecycleHooks(hooks),
	}
	h.orch = runtime.NewOrchestrator[*page](h.store, h.tracker, append(base, opts...)...)
	require.NoError(t, h.orch.Mount(context.Background(), h.initial))
	t.Cleanup(h.orch.Close)
	return h
}

// navigate moves the location to path and commits a freshly rendered page for it.
func (h *harness) navigate(path string) (*page, *runtime.Cycle) {
	h.loc.Set(path)
	p := &page{path: path}
	return p, h.orch.Commit(p)
}

func (h *harness) wait() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(h.t, h.orch.Wait(ctx))
}

func (h *harness) statusLog() []domain.Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.Status(nil), h.statuses...)
}

func (h *harness) endLog() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.ended...)
}

func (h *harness) displayed() (*page, string) {
	return h.orch.Displayed()
}

// recorder is a callback that records every path it is invoked with.
type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) callback(ctx context.Context, path string) (domain.Disposer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return nil, nil
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func isDone(c *runtime.Cycle) bool {
	select {
	case <-c.Done():
		return true
	default:
		return false
	}
}
