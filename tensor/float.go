package tensor

import (
	"fmt"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Float is a dense float64 tensor.
type Float struct {
	data   []float64
	shape  []int
	device Device
}

// NewFloat creates a float tensor from row-major data. The data slice is
// copied.
func NewFloat(data []float64, shape []int, device Device) (*Float, error) {
	if err := device.Validate(); err != nil {
		return nil, err
	}
	if err := checkShape("tensor.NewFloat", len(data), shape); err != nil {
		return nil, err
	}
	return &Float{
		data:   append([]float64(nil), data...),
		shape:  append([]int(nil), shape...),
		device: device,
	}, nil
}

// FromDense copies a gonum matrix into a 2-D float tensor on the CPU.
func FromDense(m mat.Matrix) *Float {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return &Float{data: data, shape: []int{r, c}, device: CPU}
}

func (t *Float) Shape() []int   { return append([]int(nil), t.shape...) }
func (t *Float) DType() DType   { return Float64 }
func (t *Float) Device() Device { return t.device }
func (t *Float) Len() int       { return t.shape[0] }

// Data returns a copy of the row-major elements.
func (t *Float) Data() []float64 {
	return append([]float64(nil), t.data...)
}

// At returns the element at the given multi-dimensional index.
func (t *Float) At(idx ...int) float64 {
	return t.data[flatIndex(t.shape, idx)]
}

// Row returns a copy of row i of the first axis.
func (t *Float) Row(i int) []float64 {
	stride := rowStride(t.shape)
	return append([]float64(nil), t.data[i*stride:(i+1)*stride]...)
}

// Gather implements Tensor.
func (t *Float) Gather(rows []int) (Tensor, error) {
	data, shape, err := gatherRows(t.data, t.shape, rows)
	if err != nil {
		return nil, err
	}
	return &Float{data: data, shape: shape, device: t.device}, nil
}

// Dense returns the tensor as a gonum matrix: 1-D tensors become a single
// column. gonum has no zero-sized matrices, so empty tensors are an error.
func (t *Float) Dense() (*mat.Dense, error) {
	if len(t.shape) > 2 {
		return nil, errors.NewValueError("tensor.Dense", fmt.Sprintf("expected at most 2 dimensions, got shape %s", formatShape(t.shape)))
	}
	r, c := t.shape[0], 1
	if len(t.shape) == 2 {
		c = t.shape[1]
	}
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("tensor.Dense", "cannot build a matrix from an empty tensor")
	}
	return mat.NewDense(r, c, t.Data()), nil
}

func (t *Float) String() string {
	return fmt.Sprintf("Float%s on %s", formatShape(t.shape), t.device)
}

func flatIndex(shape, idx []int) int {
	if len(idx) != len(shape) {
		panic(fmt.Sprintf("tensor: index %v has %d dimensions, tensor has %d", idx, len(idx), len(shape)))
	}
	flat := 0
	for d, i := range idx {
		if i < 0 || i >= shape[d] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %s", idx, formatShape(shape)))
		}
		flat = flat*shape[d] + i
	}
	return flat
}
