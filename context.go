package curtain

import (
	"context"

	"github.com/aretw0/curtain/pkg/domain"
)

type spaceKey struct{}

// NewContext returns a child of ctx carrying s.
func NewContext(ctx context.Context, s Space) context.Context {
	return context.WithValue(ctx, spaceKey{}, s)
}

// FromContext returns the Space carried by ctx.
// It returns domain.ErrNoProvider when ctx was not derived from a provider.
func FromContext(ctx context.Context) (Space, error) {
	s, ok := ctx.Value(spaceKey{}).(Space)
	if !ok || s == nil {
		return nil, domain.ErrNoProvider
	}
	return s, nil
}

// GetTransitionSpace registers cb on the provider carried by ctx.
func GetTransitionSpace(ctx context.Context, cb domain.Callback, opts ...domain.TransitionOption) (domain.Disposer, error) {
	s, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetTransitionSpace(cb, opts...), nil
}

// MustGetTransitionSpace is like GetTransitionSpace but panics when ctx
// carries no provider, which is always an integration mistake.
func MustGetTransitionSpace(ctx context.Context, cb domain.Callback, opts ...domain.TransitionOption) domain.Disposer {
	dispose, err := GetTransitionSpace(ctx, cb, opts...)
	if err != nil {
		panic(err)
	}
	return dispose
}
