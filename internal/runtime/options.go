package runtime

import (
	"log/slog"

	"github.com/aretw0/curtain/internal/logging"
	"github.com/aretw0/curtain/pkg/domain"
	"github.com/aretw0/curtain/pkg/ports"
)

type settings struct {
	location       ports.Location
	router         ports.Router
	styles         ports.StylePreserver
	preserveStyles bool
	hooks          domain.LifecycleHooks
	logger         *slog.Logger
}

// Option configures the Orchestrator.
type Option func(*settings)

// WithLocation sets the source of the current page path.
func WithLocation(l ports.Location) Option {
	return func(s *settings) {
		s.location = l
	}
}

// WithRouter enables the navigation interceptor on the given router.
func WithRouter(r ports.Router) Option {
	return func(s *settings) {
		s.router = r
	}
}

// WithStylePreserver sets the styling collaborator invoked around each cycle.
// It is only called when preservation is enabled with WithPreserveStyles.
func WithStylePreserver(p ports.StylePreserver) Option {
	return func(s *settings) {
		s.styles = p
	}
}

// WithPreserveStyles toggles style preservation.
func WithPreserveStyles(enabled bool) Option {
	return func(s *settings) {
		s.preserveStyles = enabled
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
