// Package tensor provides the dense, row-major tensors produced by
// materialization. Only two element types are needed: float64 for numerical
// features and int64 for category indices.
package tensor

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// DType is the element type of a tensor.
type DType int

const (
	Float64 DType = iota
	Int64
)

func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	default:
		return fmt.Sprintf("DType(%d)", int(d))
	}
}

// Device identifies where tensor storage lives.
type Device string

// CPU is the host memory device. It is the only device with a backend.
const CPU Device = "cpu"

// ParseDevice parses a device name such as "cpu" or "cuda:0". Names are
// accepted as long as they are non-empty; whether a device can allocate is
// checked by Validate.
func ParseDevice(s string) (Device, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", errors.NewValidationError("device", "device name must not be empty", s)
	}
	return Device(s), nil
}

// Validate returns a ValueError when no backend exists for d.
func (d Device) Validate() error {
	if d == CPU {
		return nil
	}
	return errors.NewValueError("tensor.Device", fmt.Sprintf("device '%s' is not available, only '%s' is supported", string(d), string(CPU)))
}

func (d Device) String() string {
	return string(d)
}

// Tensor is the read-only view shared by Float and Int.
type Tensor interface {
	// Shape returns a copy of the tensor's dimensions.
	Shape() []int
	DType() DType
	Device() Device
	// Len is the size of the first axis (the number of rows).
	Len() int
	// Gather returns a new tensor holding the given rows of the first axis,
	// in order. Indices may repeat.
	Gather(rows []int) (Tensor, error)
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func checkShape(op string, n int, shape []int) error {
	if len(shape) == 0 {
		return errors.NewValidationError("shape", "tensor must have at least one dimension", shape)
	}
	for _, d := range shape {
		if d < 0 {
			return errors.NewValidationError("shape", "dimensions must be non-negative", shape)
		}
	}
	if want := numElements(shape); want != n {
		return errors.NewValueError(op, fmt.Sprintf("cannot reshape %d elements into shape %v", n, shape))
	}
	return nil
}

// rowStride is the number of elements in one row of the first axis.
func rowStride(shape []int) int {
	return numElements(shape[1:])
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = fmt.Sprint(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
