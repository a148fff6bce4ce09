package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStatusChange    EventType = "status_change"
	EventTransitionStart EventType = "transition_start"
	EventTransitionEnd   EventType = "transition_end"
	EventTransitionFault EventType = "transition_fault"
	EventCallbackStart   EventType = "callback_start"
	EventCallbackReturn  EventType = "callback_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StatusEvent represents a status flip.
type StatusEvent struct {
	EventBase
	From Status `json:"from"`
	To   Status `json:"to"`
}

// TransitionEvent represents the start or the end of a cycle.
type TransitionEvent struct {
	EventBase
	From          string        `json:"from"`
	To            string        `json:"to"`
	Registrations int           `json:"registrations"`
	Duration      time.Duration `json:"duration,omitempty"`
	Err           error         `json:"-"`
}

// CallbackEvent represents one registration running inside a cycle.
type CallbackEvent struct {
	EventBase
	RegistrationID uint64        `json:"registration_id"`
	Path           string        `json:"path"`
	RanCleanup     bool          `json:"ran_cleanup,omitempty"`
	Disposer       bool          `json:"disposer,omitempty"`
	Duration       time.Duration `json:"duration,omitempty"`
	IsError        bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for orchestrator observability.
// OnStatusChange is delivered in order after the orchestrator releases its
// lock, so it may read the orchestrator. Callback hooks run on the
// callback's goroutine.
type LifecycleHooks struct {
	OnStatusChange    func(context.Context, *StatusEvent)
	OnTransitionStart func(context.Context, *TransitionEvent)
	OnTransitionEnd   func(context.Context, *TransitionEvent)
	OnTransitionFault func(context.Context, *TransitionEvent)
	OnCallbackStart   func(context.Context, *CallbackEvent)
	OnCallbackReturn  func(context.Context, *CallbackEvent)
}
