package scheduling

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned by Resolve for an unrecognized identifier.
// There is deliberately no fallback to a default strategy.
var ErrUnknownStrategy = errors.New("unknown scheduling strategy")

// Registry maps strategy identifiers to strategy instances.
type Registry struct {
	aggressive   Strategy
	conservative Strategy
}

// NewRegistry returns a registry holding both built-in strategies.
func NewRegistry() *Registry {
	return &Registry{
		aggressive:   Aggressive{},
		conservative: Conservative{},
	}
}

// Resolve returns the strategy for the given identifier.
func (r *Registry) Resolve(name string) (Strategy, error) {
	switch name {
	case StrategyAggressive:
		return r.aggressive, nil
	case StrategyConservative:
		return r.conservative, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// ListAll returns every registered strategy, for comparison use cases.
func (r *Registry) ListAll() []Strategy {
	return []Strategy{r.aggressive, r.conservative}
}

// Names returns the supported strategy identifiers.
func (r *Registry) Names() []string {
	return []string{StrategyAggressive, StrategyConservative}
}
