package providers

import (
	"context"
	"errors"
)

const (
	defaultLimit = 25
	minLimit     = 1
	maxLimit     = 200
)

var ErrUnknownProvider = errors.New("unknown provider")

// Gateway fronts all adapters: it enforces sane intent defaults and gates
// every successful result through validation before callers may persist it.
type Gateway struct {
	adapters map[string]Adapter
}

// NewGateway registers the given adapters by name.
func NewGateway(adapters ...Adapter) *Gateway {
	byName := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	return &Gateway{adapters: byName}
}

// DefaultGateway wires the mock adapter plus explicit not-implemented stubs
// for the real integrations.
func DefaultGateway(mock Adapter) *Gateway {
	return NewGateway(
		mock,
		stubAdapter{name: NameGooglePlaces},
		stubAdapter{name: NameSerp},
	)
}

// Known reports whether a provider name is registered.
func (g *Gateway) Known(name string) bool {
	_, ok := g.adapters[name]
	return ok
}

// Search clamps the intent, invokes the adapter and validates the result.
// The returned error is non-nil only for unknown providers or contract
// violations; provider-reported failures come back inside the Result.
func (g *Gateway) Search(ctx context.Context, intent SearchIntent) (Result, error) {
	adapter, ok := g.adapters[intent.Provider]
	if !ok {
		return Result{}, ErrUnknownProvider
	}

	safe := intent
	if safe.Limit == 0 {
		safe.Limit = defaultLimit
	}
	safe.Limit = clampInt(safe.Limit, minLimit, maxLimit)

	result := adapter.Search(ctx, safe)

	if err := validateResult(adapter.Name(), result); err != nil {
		return Result{}, err
	}
	return result, nil
}

type stubAdapter struct {
	name string
}

func (s stubAdapter) Name() string { return s.name }

func (s stubAdapter) Search(ctx context.Context, intent SearchIntent) Result {
	return Result{
		Err: &Error{
			Code:    ErrCodeUnknown,
			Message: s.name + " adapter not implemented yet",
		},
		Meta: Meta{
			Provider:  s.name,
			RequestID: intent.RequestID,
			Exhausted: true,
		},
	}
}

func clampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
