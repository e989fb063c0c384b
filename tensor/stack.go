package tensor

import (
	"fmt"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// Stack joins 1-D tensors of equal length along a new column axis, giving a
// (rows, len(cols)) tensor. All inputs must share dtype and device.
func Stack(cols []Tensor) (Tensor, error) {
	if len(cols) == 0 {
		return nil, errors.NewValueError("tensor.Stack", "need at least one tensor to stack")
	}
	first := cols[0]
	for i, c := range cols {
		shape := c.Shape()
		if len(shape) != 1 {
			return nil, errors.NewValueError("tensor.Stack", fmt.Sprintf("tensor %d has shape %s, expected 1-D", i, formatShape(shape)))
		}
		if c.DType() != first.DType() {
			return nil, errors.NewValueError("tensor.Stack", fmt.Sprintf("tensor %d has dtype %s, expected %s", i, c.DType(), first.DType()))
		}
		if c.Device() != first.Device() {
			return nil, errors.NewValueError("tensor.Stack", fmt.Sprintf("tensor %d is on %s, expected %s", i, c.Device(), first.Device()))
		}
		if c.Len() != first.Len() {
			return nil, errors.NewDimensionError("tensor.Stack", first.Len(), c.Len(), 0)
		}
	}

	rows, k := first.Len(), len(cols)
	shape := []int{rows, k}
	switch first.DType() {
	case Float64:
		out := make([]float64, rows*k)
		for j, c := range cols {
			f, ok := c.(*Float)
			if !ok {
				return nil, errors.NewValueError("tensor.Stack", fmt.Sprintf("unsupported tensor implementation %T", c))
			}
			for i, v := range f.data {
				out[i*k+j] = v
			}
		}
		return &Float{data: out, shape: shape, device: first.Device()}, nil
	case Int64:
		out := make([]int64, rows*k)
		for j, c := range cols {
			it, ok := c.(*Int)
			if !ok {
				return nil, errors.NewValueError("tensor.Stack", fmt.Sprintf("unsupported tensor implementation %T", c))
			}
			for i, v := range it.data {
				out[i*k+j] = v
			}
		}
		return &Int{data: out, shape: shape, device: first.Device()}, nil
	default:
		return nil, errors.NewValueError("tensor.Stack", fmt.Sprintf("unsupported dtype %s", first.DType()))
	}
}
