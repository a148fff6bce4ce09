package runtime

import (
	"log/slog"
	"sync"

	"github.com/aretw0/curtain/pkg/ports"
)

// navigationHinter is implemented by the orchestrator.
type navigationHinter interface {
	hintNavigation(path string) bool
}

// Interceptor listens for route changes and flips the status to
// transitioning before the new page is produced, so styling collaborators
// can react before the layout shifts. It is only a hint: the orchestrator
// repeats the same decision when the new content is committed.
type Interceptor struct {
	router ports.Router
	target navigationHinter
	logger *slog.Logger

	mu          sync.Mutex
	unsubscribe func()
}

// NewInterceptor wires router notifications to target.
func NewInterceptor(router ports.Router, target navigationHinter, logger *slog.Logger) *Interceptor {
	return &Interceptor{
		router: router,
		target: target,
		logger: logger,
	}
}

// Start subscribes to the router. Calling it twice is a no-op.
func (i *Interceptor) Start() {
	if i.router == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.unsubscribe != nil {
		return
	}
	i.unsubscribe = i.router.OnRouteChangeStart(i.handle)
}

// Stop unsubscribes from the router.
func (i *Interceptor) Stop() {
	i.mu.Lock()
	unsubscribe := i.unsubscribe
	i.unsubscribe = nil
	i.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (i *Interceptor) handle(path string) {
	if i.target.hintNavigation(path) {
		i.logger.Debug("route change intercepted", "path", path)
	}
}
