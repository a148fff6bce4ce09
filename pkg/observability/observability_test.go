package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/curtain"
	"github.com/aretw0/curtain/internal/logging"
	"github.com/aretw0/curtain/pkg/adapters/memory"
	"github.com/aretw0/curtain/pkg/domain"
	"github.com/aretw0/curtain/pkg/observability"
	"github.com/aretw0/curtain/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnTransitionEnd: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnTransitionEnd:  func(context.Context, *domain.TransitionEvent) { calls = append(calls, "b") },
		OnCallbackReturn: func(context.Context, *domain.CallbackEvent) { calls = append(calls, "b-cb") },
	}

	h := observability.Chain(a, domain.LifecycleHooks{}, b)
	require.NotNil(t, h.OnTransitionEnd)
	assert.Nil(t, h.OnStatusChange)

	h.OnTransitionEnd(context.Background(), &domain.TransitionEvent{})
	h.OnCallbackReturn(context.Background(), &domain.CallbackEvent{})
	assert.Equal(t, []string{"a", "b", "b-cb"}, calls)
}

func TestMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	m2, err := observability.NewMetrics(reg)
	require.NoError(t, err, "second provider reuses collectors")

	m1.Transitions.WithLabelValues("ok").Inc()
	m2.Transitions.WithLabelValues("ok").Inc()
	assert.Equal(t, 2.0, testutil.ToFloat64(m1.Transitions.WithLabelValues("ok")))

	unregistered, err := observability.NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, unregistered.Hooks().OnTransitionEnd)
}

func TestMetrics_Hooks(t *testing.T) {
	m, err := observability.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	h := m.Hooks()
	ctx := context.Background()

	h.OnStatusChange(ctx, &domain.StatusEvent{From: domain.StatusIdle, To: domain.StatusTransitioning})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitioning))

	h.OnCallbackReturn(ctx, &domain.CallbackEvent{Duration: time.Millisecond})
	h.OnCallbackReturn(ctx, &domain.CallbackEvent{IsError: true})
	h.OnTransitionFault(ctx, &domain.TransitionEvent{Err: errors.New("boom")})
	h.OnTransitionEnd(ctx, &domain.TransitionEvent{Duration: 20 * time.Millisecond})
	h.OnStatusChange(ctx, &domain.StatusEvent{From: domain.StatusTransitioning, To: domain.StatusIdle})

	assert.Equal(t, 0.0, testutil.ToFloat64(m.Transitioning))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusChanges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Callbacks.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Callbacks.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("fault")))
}

type failingJournal struct{}

func (failingJournal) Append(context.Context, ports.JournalEntry) error {
	return errors.New("disk full")
}

func (failingJournal) Recent(context.Context, int) ([]ports.JournalEntry, error) {
	return nil, nil
}

func TestJournalHooks_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug, false)

	h := observability.JournalHooks(failingJournal{}, logger)
	h.OnTransitionEnd(context.Background(), &domain.TransitionEvent{From: "/a", To: "/b"})
	assert.Contains(t, buf.String(), "journal append failed")
	assert.Contains(t, buf.String(), "err=\"disk full\"")
}

func TestJournalHooks_CancelledContext(t *testing.T) {
	j := memory.NewJournal(0)
	h := observability.JournalHooks(j, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.OnTransitionEnd(ctx, &domain.TransitionEvent{From: "/a", To: "/b"})

	entries, err := j.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHooks_WithProvider(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	j := memory.NewJournal(10)

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug, true)

	loc := memory.NewLocation("/a")
	p := curtain.New[string](
		curtain.WithLocation(loc),
		curtain.WithLifecycleHooks(observability.Chain(
			observability.LogHooks(logger),
			m.Hooks(),
			observability.JournalHooks(j, logger),
		)),
	)
	defer p.Close()
	require.NoError(t, p.Mount(context.Background(), "page a"))

	p.GetTransitionSpace(func(ctx context.Context, path string) (domain.Disposer, error) {
		return nil, nil
	})

	loc.Set("/b")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Commit("page b").Wait(ctx))

	entries, err := j.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/a", entries[0].From)
	assert.Equal(t, "/b", entries[0].To)
	assert.Equal(t, 1, entries[0].Registrations)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Callbacks.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Transitioning))

	out := buf.String()
	assert.Contains(t, out, `"msg":"transition_start"`)
	assert.Contains(t, out, `"msg":"transition_end"`)
	assert.Contains(t, out, `"msg":"callback_return"`)
}
