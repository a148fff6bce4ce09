package observability

import (
	"context"
	"errors"

	"github.com/aretw0/curtain/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes orchestrator activity as Prometheus collectors.
type Metrics struct {
	Transitions    *prometheus.CounterVec
	TransitionTime prometheus.Histogram
	Callbacks      *prometheus.CounterVec
	CallbackTime   prometheus.Histogram
	Transitioning  prometheus.Gauge
	StatusChanges  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered. Collectors that are already registered
// are reused, so several providers may share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curtain_transitions_total",
				Help: "Transition cycles by outcome.",
			},
			[]string{"result"},
		),
		TransitionTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "curtain_transition_duration_seconds",
				Help:    "Time from fan-out to swap.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
		Callbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curtain_callbacks_total",
				Help: "Exit callbacks invoked, by outcome.",
			},
			[]string{"result"},
		),
		CallbackTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "curtain_callback_duration_seconds",
				Help:    "Duration of individual exit callbacks.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
		Transitioning: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "curtain_transitioning",
				Help: "1 while a transition is in progress.",
			},
		),
		StatusChanges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "curtain_status_changes_total",
				Help: "Number of status flips.",
			},
		),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.Transitions, err = register(reg, m.Transitions); err != nil {
		return nil, err
	}
	if m.TransitionTime, err = register(reg, m.TransitionTime); err != nil {
		return nil, err
	}
	if m.Callbacks, err = register(reg, m.Callbacks); err != nil {
		return nil, err
	}
	if m.CallbackTime, err = register(reg, m.CallbackTime); err != nil {
		return nil, err
	}
	if m.Transitioning, err = register(reg, m.Transitioning); err != nil {
		return nil, err
	}
	if m.StatusChanges, err = register(reg, m.StatusChanges); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStatusChange: func(_ context.Context, e *domain.StatusEvent) {
			m.StatusChanges.Inc()
			if e.To.IsTransitioning() {
				m.Transitioning.Set(1)
			} else {
				m.Transitioning.Set(0)
			}
		},
		OnTransitionEnd: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues("ok").Inc()
			m.TransitionTime.Observe(e.Duration.Seconds())
		},
		OnTransitionFault: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues("fault").Inc()
		},
		OnCallbackReturn: func(_ context.Context, e *domain.CallbackEvent) {
			result := "ok"
			if e.IsError {
				result = "error"
			}
			m.Callbacks.WithLabelValues(result).Inc()
			m.CallbackTime.Observe(e.Duration.Seconds())
		},
	}
}
