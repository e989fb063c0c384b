package stats

import (
	"slices"
	"sync"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/stype"
)

// Registry maps semantic types to calculators. It is immutable; With returns
// an extended copy, so a registry can be shared between datasets.
type Registry struct {
	calcs map[stype.Type]Calculator
}

// NewRegistry creates a registry from the given entries.
func NewRegistry(entries map[stype.Type]Calculator) *Registry {
	r := &Registry{calcs: make(map[stype.Type]Calculator, len(entries))}
	for t, c := range entries {
		r.calcs[t] = c
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the registry of built-in calculators.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(map[stype.Type]Calculator{
			stype.Numerical:   NumericalCalculator{},
			stype.Categorical: CategoricalCalculator{},
		})
	})
	return defaultRegistry
}

// With returns a copy of r with t bound to c.
func (r *Registry) With(t stype.Type, c Calculator) *Registry {
	out := NewRegistry(r.calcs)
	out.calcs[t] = c
	return out
}

// Lookup returns the calculator for t.
func (r *Registry) Lookup(t stype.Type) (Calculator, error) {
	c, ok := r.calcs[t]
	if !ok {
		return nil, errors.NewUnsupportedSemanticTypeError(t.String(), "statistics calculator")
	}
	return c, nil
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []stype.Type {
	out := make([]stype.Type, 0, len(r.calcs))
	for t := range r.calcs {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Compute looks up the calculator for t and runs it on values.
func (r *Registry) Compute(values []any, t stype.Type) (ColumnStats, error) {
	c, err := r.Lookup(t)
	if err != nil {
		return nil, err
	}
	return c.Compute(values)
}

// ComputeColStats computes statistics with the default registry.
func ComputeColStats(values []any, t stype.Type) (ColumnStats, error) {
	return DefaultRegistry().Compute(values, t)
}
