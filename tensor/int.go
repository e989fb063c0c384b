package tensor

import "fmt"

// Int is a dense int64 tensor, used for category indices.
type Int struct {
	data   []int64
	shape  []int
	device Device
}

// NewInt creates an int tensor from row-major data. The data slice is copied.
func NewInt(data []int64, shape []int, device Device) (*Int, error) {
	if err := device.Validate(); err != nil {
		return nil, err
	}
	if err := checkShape("tensor.NewInt", len(data), shape); err != nil {
		return nil, err
	}
	return &Int{
		data:   append([]int64(nil), data...),
		shape:  append([]int(nil), shape...),
		device: device,
	}, nil
}

func (t *Int) Shape() []int   { return append([]int(nil), t.shape...) }
func (t *Int) DType() DType   { return Int64 }
func (t *Int) Device() Device { return t.device }
func (t *Int) Len() int       { return t.shape[0] }

// Data returns a copy of the row-major elements.
func (t *Int) Data() []int64 {
	return append([]int64(nil), t.data...)
}

// At returns the element at the given multi-dimensional index.
func (t *Int) At(idx ...int) int64 {
	return t.data[flatIndex(t.shape, idx)]
}

// Row returns a copy of row i of the first axis.
func (t *Int) Row(i int) []int64 {
	stride := rowStride(t.shape)
	return append([]int64(nil), t.data[i*stride:(i+1)*stride]...)
}

// Gather implements Tensor.
func (t *Int) Gather(rows []int) (Tensor, error) {
	data, shape, err := gatherRows(t.data, t.shape, rows)
	if err != nil {
		return nil, err
	}
	return &Int{data: data, shape: shape, device: t.device}, nil
}

func (t *Int) String() string {
	return fmt.Sprintf("Int%s on %s", formatShape(t.shape), t.device)
}
