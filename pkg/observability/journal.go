package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/curtain/internal/logging"
	"github.com/aretw0/curtain/pkg/domain"
	"github.com/aretw0/curtain/pkg/ports"
)

// JournalTimeout bounds a single journal write.
const JournalTimeout = 2 * time.Second

// JournalHooks appends every completed cycle to j.
// Write failures are logged and never reach the orchestrator.
func JournalHooks(j ports.Journal, logger *slog.Logger) domain.LifecycleHooks {
	if logger == nil {
		logger = logging.NewNop()
	}
	return domain.LifecycleHooks{
		OnTransitionEnd: func(ctx context.Context, e *domain.TransitionEvent) {
			// The orchestrator context is cancelled on Close; the last entry still counts.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), JournalTimeout)
			defer cancel()

			entry := ports.JournalEntry{
				From:          e.From,
				To:            e.To,
				Registrations: e.Registrations,
				Duration:      e.Duration,
				CompletedAt:   e.Timestamp,
			}
			if err := j.Append(ctx, entry); err != nil {
				logger.Warn("journal append failed", "from", e.From, "to", e.To, "err", err)
			}
		},
	}
}
