package dataset

import (
	"github.com/YuminosukeSato/tabframe/mapper"
	"github.com/YuminosukeSato/tabframe/pkg/log"
	"github.com/YuminosukeSato/tabframe/stats"
	"github.com/YuminosukeSato/tabframe/tensor"
)

// Option configures a Dataset at construction.
type Option func(*Dataset)

// WithTarget declares the target column. It must also appear in the column
// type map.
func WithTarget(col string) Option {
	return func(d *Dataset) {
		d.targetCol = col
	}
}

// WithStatsRegistry sets the statistics calculators used by Materialize.
func WithStatsRegistry(r *stats.Registry) Option {
	return func(d *Dataset) {
		d.statsReg = r
	}
}

// WithMapperRegistry sets the tensor mapper factories used by Materialize.
func WithMapperRegistry(r *mapper.Registry) Option {
	return func(d *Dataset) {
		d.mapperReg = r
	}
}

// WithLogger sets the logger. Records carry the dataset ID.
func WithLogger(l log.Logger) Option {
	return func(d *Dataset) {
		d.baseLogger = l
	}
}

type materializeOptions struct {
	device tensor.Device
}

// MaterializeOption configures Materialize.
type MaterializeOption func(*materializeOptions)

// WithDevice sets the device tensors are allocated on (default tensor.CPU).
func WithDevice(d tensor.Device) MaterializeOption {
	return func(o *materializeOptions) {
		o.device = d
	}
}
