package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/curtain/pkg/domain"
)

// LogHooks logs every lifecycle event. Cycle boundaries are logged at Info,
// callbacks at Debug and faults at Error.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStatusChange: func(ctx context.Context, e *domain.StatusEvent) {
			logger.DebugContext(ctx, "status_change", "from", e.From, "to", e.To)
		},
		OnTransitionStart: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "transition_start",
				"from", e.From,
				"to", e.To,
				"registrations", e.Registrations,
			)
		},
		OnTransitionEnd: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "transition_end",
				"from", e.From,
				"to", e.To,
				"duration", e.Duration,
			)
		},
		OnTransitionFault: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.ErrorContext(ctx, "transition_fault",
				"from", e.From,
				"to", e.To,
				"err", e.Err,
			)
		},
		OnCallbackStart: func(ctx context.Context, e *domain.CallbackEvent) {
			logger.DebugContext(ctx, "callback_start", "id", e.RegistrationID, "path", e.Path, "ran_cleanup", e.RanCleanup)
		},
		OnCallbackReturn: func(ctx context.Context, e *domain.CallbackEvent) {
			logger.DebugContext(ctx, "callback_return",
				"id", e.RegistrationID,
				"is_error", e.IsError,
				"disposer", e.Disposer,
				"duration", e.Duration,
			)
		},
	}
}
