package mapper

import (
	"slices"
	"sync"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/preprocessing"
	"github.com/YuminosukeSato/tabframe/stats"
	"github.com/YuminosukeSato/tabframe/stype"
)

// Factory builds the mapper of one column from its statistics.
type Factory func(column string, cs stats.ColumnStats) (TensorMapper, error)

// Normalization selects how numerical columns are rescaled.
type Normalization int

const (
	// NormalizeNone keeps raw values.
	NormalizeNone Normalization = iota
	// NormalizeStandard subtracts the column mean and divides by its std.
	NormalizeStandard
	// NormalizeMinMax rescales the column's observed range to the feature
	// range, [0, 1] unless WithFeatureRange is given.
	NormalizeMinMax
)

type options struct {
	normalization Normalization
	featureRange  [2]float64
}

// Option configures the built-in factories.
type Option func(*options)

// WithNormalization sets the normalization applied by numerical mappers.
func WithNormalization(n Normalization) Option {
	return func(o *options) {
		o.normalization = n
	}
}

// WithFeatureRange sets the output range of NormalizeMinMax.
func WithFeatureRange(lo, hi float64) Option {
	return func(o *options) {
		o.featureRange = [2]float64{lo, hi}
	}
}

// NumericalFactory returns the factory for stype.Numerical. Scalers are
// built from the MEAN/STD or QUANTILES statistics; when a registered
// calculator does not provide them, the scaler is fitted on the column
// values during Forward instead.
func NumericalFactory(opts ...Option) Factory {
	o := options{featureRange: preprocessing.DefaultFeatureRange}
	for _, opt := range opts {
		opt(&o)
	}
	return func(column string, cs stats.ColumnStats) (TensorMapper, error) {
		m := &NumericalMapper{Column: column}
		switch o.normalization {
		case NormalizeStandard:
			mean, ok1 := cs.Float(stats.StatMean)
			std, ok2 := cs.Float(stats.StatStd)
			if ok1 && ok2 {
				m.Scaler = preprocessing.NewStandardScalerFromStats(mean, std)
			} else {
				m.Scaler = preprocessing.NewStandardScaler(true, true)
			}
		case NormalizeMinMax:
			var (
				scaler *preprocessing.MinMaxScaler
				err    error
			)
			if q, ok := cs.Quantiles(); ok && len(q) > 0 {
				scaler, err = preprocessing.NewMinMaxScalerFromStats(q[0], q[len(q)-1], o.featureRange)
			} else {
				scaler, err = preprocessing.NewMinMaxScaler(o.featureRange)
			}
			if err != nil {
				return nil, err
			}
			m.Scaler = scaler
		}
		return m, nil
	}
}

// CategoricalFactory builds a CategoricalMapper from stats.StatCount.
func CategoricalFactory(column string, cs stats.ColumnStats) (TensorMapper, error) {
	counts, ok := cs.Counts()
	if !ok {
		return nil, errors.NewValueError("CategoricalFactory", "column '"+column+"' has no COUNT statistic")
	}
	return NewCategoricalMapper(counts.Categories), nil
}

// Registry maps semantic types to mapper factories. It is immutable.
type Registry struct {
	factories map[stype.Type]Factory
}

// NewRegistry creates a registry from the given entries.
func NewRegistry(entries map[stype.Type]Factory) *Registry {
	r := &Registry{factories: make(map[stype.Type]Factory, len(entries))}
	for t, f := range entries {
		r.factories[t] = f
	}
	return r
}

// NewDefaultRegistry creates a registry of the built-in factories.
func NewDefaultRegistry(opts ...Option) *Registry {
	return NewRegistry(map[stype.Type]Factory{
		stype.Numerical:   NumericalFactory(opts...),
		stype.Categorical: CategoricalFactory,
	})
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the shared registry of built-in factories without
// normalization.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry()
	})
	return defaultRegistry
}

// With returns a copy of r with t bound to f.
func (r *Registry) With(t stype.Type, f Factory) *Registry {
	out := NewRegistry(r.factories)
	out.factories[t] = f
	return out
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []stype.Type {
	out := make([]stype.Type, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Build creates the mapper for a column of type t.
func (r *Registry) Build(column string, t stype.Type, cs stats.ColumnStats) (TensorMapper, error) {
	f, ok := r.factories[t]
	if !ok {
		return nil, errors.NewUnsupportedSemanticTypeError(t.String(), "tensor mapper")
	}
	return f(column, cs)
}
