package orders

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the normal "skip" outcome of a platform lookup
	ErrNotFound = errors.New("order not found")

	// ErrUnknownPlatform is returned when no fetcher is registered for a platform type
	ErrUnknownPlatform = errors.New("unknown platform type")
)

// Fetcher rebuilds canonical orders from one storefront platform
type Fetcher interface {
	Platform() PlatformType
	// FetchByOrderNumber returns ErrNotFound when the platform has no such order
	FetchByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	// FetchPastOrders returns ErrNotFound when the customer has no prior orders
	FetchPastOrders(ctx context.Context, customer Customer) ([]*Order, error)
}

// Registry dispatches platform types to their fetcher
type Registry struct {
	fetchers map[PlatformType]Fetcher
}

// NewRegistry builds a registry keyed by each fetcher's Platform()
func NewRegistry(fetchers ...Fetcher) *Registry {
	r := &Registry{fetchers: make(map[PlatformType]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		r.fetchers[f.Platform()] = f
	}
	return r
}

// Fetcher returns the fetcher for pt or ErrUnknownPlatform
func (r *Registry) Fetcher(pt PlatformType) (Fetcher, error) {
	f, ok := r.fetchers[pt]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, pt)
	}
	return f, nil
}

// Platforms lists the registered platform types
func (r *Registry) Platforms() []PlatformType {
	out := make([]PlatformType, 0, len(r.fetchers))
	for pt := range r.fetchers {
		out = append(out, pt)
	}
	return out
}
