// Package mapper converts raw column values to tensors and back.
//
// A TensorMapper is built per column from that column's statistics, so the
// encoding is fixed at materialization time: categorical indices follow the
// category order recorded in stats.StatCount, and numerical normalization uses
// the recorded mean/std or min/max.
package mapper

import (
	"fmt"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/tensor"
)

// MissingIndex is the category index of missing and unseen values.
const MissingIndex = -1

// TensorMapper encodes one column.
type TensorMapper interface {
	// Forward encodes values as a 1-D tensor of len(values) rows on device.
	Forward(values []any, device tensor.Device) (tensor.Tensor, error)
	// Backward decodes a tensor produced by Forward (or shaped like one).
	Backward(t tensor.Tensor) ([]any, error)
}

// columnLen returns the row count of a tensor holding a single column,
// either (n) or (n, 1).
func columnLen(op string, t tensor.Tensor) (int, error) {
	shape := t.Shape()
	switch {
	case len(shape) == 1:
		return shape[0], nil
	case len(shape) == 2 && shape[1] == 1:
		return shape[0], nil
	default:
		return 0, errors.NewValueError(op, fmt.Sprintf("expected a single-column tensor, got shape %v", shape))
	}
}
