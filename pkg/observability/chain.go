package observability

import (
	"context"

	"github.com/aretw0/curtain/pkg/domain"
)

// Chain merges several hook sets. Each event is delivered to every set in
// argument order; unset callbacks are skipped.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnStatusChange = chain(out.OnStatusChange, h.OnStatusChange)
		out.OnTransitionStart = chain(out.OnTransitionStart, h.OnTransitionStart)
		out.OnTransitionEnd = chain(out.OnTransitionEnd, h.OnTransitionEnd)
		out.OnTransitionFault = chain(out.OnTransitionFault, h.OnTransitionFault)
		out.OnCallbackStart = chain(out.OnCallbackStart, h.OnCallbackStart)
		out.OnCallbackReturn = chain(out.OnCallbackReturn, h.OnCallbackReturn)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
