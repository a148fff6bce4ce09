package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/curtain/internal/runtime"
	"github.com/aretw0/curtain/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	transitioning = domain.StatusTransitioning
	idle          = domain.StatusIdle
)

func TestOrchestrator_SingleRegistration(t *testing.T) {
	h := newHarness(t)
	rec := &recorder{}
	h.store.Register(rec.callback, domain.Options{})

	pb, cycle := h.navigate("/b")
	h.wait()

	assert.Equal(t, []string{"/b"}, rec.calls())
	assert.Equal(t, []domain.Status{transitioning, idle}, h.statusLog())
	assert.Equal(t, idle, h.tracker.Status())
	assert.NoError(t, cycle.Err())
	assert.Equal(t, "/a", cycle.From())
	assert.Equal(t, "/b", cycle.To())

	shown, path := h.displayed()
	assert.Same(t, pb, shown)
	assert.Equal(t, "/b", path)
	assert.Equal(t, []string{"/b"}, h.endLog())
}

func TestOrchestrator_OneShotIsPruned(t *testing.T) {
	h := newHarness(t)
	once := &recorder{}
	always := &recorder{}
	h.store.Register(once.callback, domain.NewOptions(domain.Kill()))
	keep := h.store.Register(always.callback, domain.Options{})

	h.navigate("/b")
	h.wait()

	assert.Equal(t, []string{"/b"}, once.calls())
	assert.Equal(t, []string{"/b"}, always.calls())
	regs := h.store.List()
	require.Len(t, regs, 1)
	assert.Equal(t, keep, regs[0].ID)

	h.navigate("/c")
	h.wait()

	assert.Equal(t, []string{"/b"}, once.calls(), "one-shot registration fires once")
	assert.Equal(t, []string{"/b", "/c"}, always.calls(), "persistent registration fires again")
}

func TestOrchestrator_EmptyStoreSwapsSynchronously(t *testing.T) {
	h := newHarness(t)

	pb, cycle := h.navigate("/b")

	assert.True(t, isDone(cycle), "swap happens within Commit")
	shown, path := h.displayed()
	assert.Same(t, pb, shown)
	assert.Equal(t, "/b", path)
	assert.Empty(t, h.statusLog(), "status never leaves idle")
	assert.Equal(t, idle, h.tracker.Status())
	assert.Nil(t, h.orch.InFlight())
}

func TestOrchestrator_DeregisteredBeforeNavigation(t *testing.T) {
	h := newHarness(t)
	rec := &recorder{}
	id := h.store.Register(rec.callback, domain.Options{})
	h.store.Deregister(id)

	h.navigate("/b")
	h.wait()

	assert.Empty(t, rec.calls())
	assert.Empty(t, h.statusLog())
}

func TestOrchestrator_CleanupRunsBeforeNextInvocation(t *testing.T) {
	h := newHarness(t)

	var mu sync.Mutex
	var events []string
	record := func(e string) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}

	h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		record("run " + path)
		return func() { record("undo " + path) }, nil
	}, domain.Options{})

	h.navigate("/b")
	h.wait()
	h.navigate("/c")
	h.wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"run /b", "undo /b", "run /c"}, events)
}

func TestOrchestrator_NoSwapBeforeEveryCallbackSettles(t *testing.T) {
	h := newHarness(t)
	first := make(chan struct{})
	second := make(chan struct{})
	block := func(gate chan struct{}) domain.Callback {
		return func(ctx context.Context, path string) (domain.Disposer, error) {
			<-gate
			return nil, nil
		}
	}
	h.store.Register(block(first), domain.Options{})
	h.store.Register(block(second), domain.Options{})

	pb, cycle := h.navigate("/b")
	assert.Equal(t, transitioning, h.tracker.Status())

	close(first)
	time.Sleep(20 * time.Millisecond)
	shown, path := h.displayed()
	assert.Same(t, h.initial, shown, "content must not change while a callback is pending")
	assert.Equal(t, "/a", path)
	assert.False(t, isDone(cycle))

	close(second)
	h.wait()
	shown, path = h.displayed()
	assert.Same(t, pb, shown)
	assert.Equal(t, "/b", path)
}

func TestOrchestrator_StatusRoundTripPerCycle(t *testing.T) {
	h := newHarness(t)
	h.store.Register((&recorder{}).callback, domain.Options{})

	h.navigate("/b")
	h.wait()
	h.navigate("/c")
	h.wait()

	assert.Equal(t, []domain.Status{transitioning, idle, transitioning, idle}, h.statusLog())
}

func TestOrchestrator_SamePathRenderIsNoop(t *testing.T) {
	h := newHarness(t)
	rec := &recorder{}
	h.store.Register(rec.callback, domain.Options{})

	cycle := h.orch.Commit(&page{path: "/a"})

	assert.True(t, isDone(cycle))
	assert.Empty(t, rec.calls())
	shown, _ := h.displayed()
	assert.Same(t, h.initial, shown)
}

func TestOrchestrator_SameContentIsNoop(t *testing.T) {
	h := newHarness(t)
	rec := &recorder{}
	h.store.Register(rec.callback, domain.Options{})

	h.loc.Set("/b")
	cycle := h.orch.Commit(h.initial)

	assert.True(t, isDone(cycle))
	assert.Empty(t, rec.calls())
}

func TestOrchestrator_MissingEnvironmentIsSkipped(t *testing.T) {
	h := newHarness(t)
	rec := &recorder{}
	h.store.Register(rec.callback, domain.Options{})

	h.loc.Unset()
	cycle := h.orch.Commit(&page{path: "/b"})

	assert.True(t, isDone(cycle))
	assert.NoError(t, cycle.Err())
	assert.Empty(t, rec.calls())
	_, path := h.displayed()
	assert.Equal(t, "/a", path)
}

func TestOrchestrator_OverlappingNavigationIsQueued(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	rec := &recorder{}
	h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		rec.callback(ctx, path)
		if path == "/b" {
			<-release
		}
		return nil, nil
	}, domain.Options{})

	_, first := h.navigate("/b")
	pc, second := h.navigate("/c")
	assert.Same(t, first, second, "a commit during flight returns the in-flight cycle")

	close(release)
	h.wait()

	assert.Equal(t, []string{"/b", "/c"}, rec.calls(), "the queued navigation is not lost")
	assert.Equal(t, []string{"/b", "/c"}, h.endLog(), "each navigation swaps exactly once")
	assert.Equal(t, []domain.Status{transitioning, idle, transitioning, idle}, h.statusLog())

	shown, path := h.displayed()
	assert.Same(t, pc, shown)
	assert.Equal(t, "/c", path)
}

func TestOrchestrator_NavigateBackDuringFlight(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	rec := &recorder{}
	h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		rec.callback(ctx, path)
		<-release
		return nil, nil
	}, domain.Options{})

	h.navigate("/b")
	h.navigate("/a")
	close(release)
	h.wait()

	// The queued render targets "/a" which differs from the swapped "/b".
	assert.Equal(t, []string{"/b", "/a"}, rec.calls())
	_, path := h.displayed()
	assert.Equal(t, "/a", path)
}

func TestOrchestrator_CallbackFaultStalls(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("animation crashed")
	sibling := &recorder{}

	h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		return nil, boom
	}, domain.NewOptions(domain.Kill()))
	h.store.Register(sibling.callback, domain.Options{})

	_, cycle := h.navigate("/b")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := cycle.Wait(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var cbErr *domain.CallbackError
	require.ErrorAs(t, err, &cbErr)
	assert.Equal(t, "/b", cbErr.Path)

	assert.Equal(t, []string{"/b"}, sibling.calls(), "siblings still run to completion")
	assert.Equal(t, transitioning, h.tracker.Status(), "status stays transitioning")
	shown, path := h.displayed()
	assert.Same(t, h.initial, shown)
	assert.Equal(t, "/a", path)
	assert.Equal(t, 2, h.store.Len(), "nothing is pruned")

	_, later := h.navigate("/c")
	assert.Same(t, cycle, later, "later commits queue behind the faulted cycle")
	assert.ErrorIs(t, h.orch.Wait(ctx), boom)

	h.mu.Lock()
	assert.Equal(t, 1, h.faults)
	h.mu.Unlock()
}

func TestOrchestrator_DeregisterDuringFlight(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	disposed := false
	calls := 0

	id := h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		calls++
		<-release
		return func() { disposed = true }, nil
	}, domain.Options{})

	h.navigate("/b")
	assert.True(t, h.store.Deregister(id))
	close(release)
	h.wait()

	assert.Equal(t, 0, h.store.Len(), "the removed registration is not written back")

	h.navigate("/c")
	h.wait()
	assert.Equal(t, 1, calls)
	assert.False(t, disposed)
}

func TestOrchestrator_RegisterDuringFlight(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		<-release
		return nil, nil
	}, domain.Options{})

	h.navigate("/b")
	late := &recorder{}
	id := h.store.Register(late.callback, domain.NewOptions(domain.Kill()))
	close(release)
	h.wait()

	assert.Empty(t, late.calls(), "a registration added mid-cycle waits for the next one")
	require.Len(t, h.store.List(), 2)
	assert.Equal(t, id, h.store.List()[1].ID)

	h.navigate("/c")
	h.wait()
	assert.Equal(t, []string{"/c"}, late.calls())
	assert.Equal(t, 1, h.store.Len())
}

func TestOrchestrator_StylePreservation(t *testing.T) {
	h := newHarness(t, runtime.WithPreserveStyles(true))
	release := make(chan struct{})
	h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		<-release
		return nil, nil
	}, domain.Options{})

	h.navigate("/b")
	assert.True(t, h.styles.Saved(), "styles are held while the cycle runs")
	close(release)
	h.wait()
	assert.False(t, h.styles.Saved())

	saves, clears := h.styles.Counts()
	assert.Equal(t, 1, saves)
	assert.Equal(t, 1, clears)
}

func TestOrchestrator_StylePreservationDisabled(t *testing.T) {
	h := newHarness(t)
	h.navigate("/b")

	saves, clears := h.styles.Counts()
	assert.Zero(t, saves)
	assert.Zero(t, clears)
}

func TestOrchestrator_InterceptorHint(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		<-release
		return nil, nil
	}, domain.Options{})

	// Nothing new has been rendered yet: no hint.
	h.router.Start("/b")
	assert.Equal(t, idle, h.tracker.Status())

	// The router announces "/b" after a render diverged from the display.
	pb := &page{path: "/b"}
	h.orch.Commit(pb) // location is still "/a": no trigger, rendered is recorded
	h.router.Start("/b")
	assert.Equal(t, transitioning, h.tracker.Status())

	h.loc.Set("/b")
	h.orch.Commit(pb)
	close(release)
	h.wait()

	assert.Equal(t, []domain.Status{transitioning, idle}, h.statusLog(), "the hint and the cycle share one flip")
}

func TestOrchestrator_StatusHookMayReadOrchestrator(t *testing.T) {
	type observed struct {
		status   domain.Status
		path     string
		inFlight bool
	}

	var (
		mu   sync.Mutex
		got  []observed
		orch *runtime.Orchestrator[*page]
	)
	hooks := domain.LifecycleHooks{
		OnStatusChange: func(ctx context.Context, e *domain.StatusEvent) {
			_, path := orch.Displayed()
			inFlight := orch.InFlight() != nil
			mu.Lock()
			got = append(got, observed{status: e.To, path: path, inFlight: inFlight})
			mu.Unlock()
		},
	}

	h := newHarness(t, runtime.WithLifecycleHooks(hooks))
	orch = h.orch
	h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		return nil, nil
	}, domain.Options{})

	h.navigate("/b")
	h.wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []observed{
		{status: transitioning, path: "/a", inFlight: true},
		{status: idle, path: "/b", inFlight: false},
	}, got)
}

func TestOrchestrator_InterceptorIgnoresEmptyStore(t *testing.T) {
	h := newHarness(t)
	h.orch.Commit(&page{path: "/b"})
	h.router.Start("/b")

	assert.Equal(t, idle, h.tracker.Status())
}

func TestOrchestrator_Lifecycle(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.orch.Mount(context.Background(), h.initial), domain.ErrAlreadyMounted)
	assert.Equal(t, 1, h.router.Subscribers())

	h.orch.Close()
	h.orch.Close()
	assert.Equal(t, 0, h.router.Subscribers())
	assert.ErrorIs(t, h.orch.Commit(&page{}).Err(), domain.ErrClosed)
}

func TestOrchestrator_CommitBeforeMount(t *testing.T) {
	h := newHarness(t)
	o := runtime.NewOrchestrator[*page](h.store, runtime.NewTracker())
	assert.ErrorIs(t, o.Commit(&page{}).Err(), domain.ErrNotMounted)
}

func TestOrchestrator_CallbackHooks(t *testing.T) {
	var mu sync.Mutex
	var starts, returns []uint64
	disposers := 0
	hooks := domain.LifecycleHooks{
		OnCallbackStart: func(ctx context.Context, e *domain.CallbackEvent) {
			mu.Lock()
			starts = append(starts, e.RegistrationID)
			mu.Unlock()
		},
		OnCallbackReturn: func(ctx context.Context, e *domain.CallbackEvent) {
			mu.Lock()
			returns = append(returns, e.RegistrationID)
			if e.Disposer {
				disposers++
			}
			mu.Unlock()
		},
	}

	h := newHarness(t, runtime.WithLifecycleHooks(hooks))
	id := h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		return func() {}, nil
	}, domain.Options{})

	h.navigate("/b")
	h.wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{id}, starts)
	assert.Equal(t, []uint64{id}, returns)
	assert.Equal(t, 1, disposers)
}

func TestOrchestrator_CloseCancelsCallbackContext(t *testing.T) {
	h := newHarness(t)
	h.store.Register(func(ctx context.Context, path string) (domain.Disposer, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, domain.Options{})

	_, cycle := h.navigate("/b")
	h.orch.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, cycle.Wait(ctx), context.Canceled)
}
