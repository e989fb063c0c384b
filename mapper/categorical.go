package mapper

import (
	"fmt"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/stats"
	"github.com/YuminosukeSato/tabframe/tensor"
)

// CategoricalMapper maps each category to its position in a fixed category
// list. Values outside the list and missing values map to MissingIndex.
type CategoricalMapper struct {
	categories []any
	index      map[any]int64
}

// NewCategoricalMapper creates a mapper for the given ordered categories.
func NewCategoricalMapper(categories []any) *CategoricalMapper {
	m := &CategoricalMapper{
		categories: append([]any(nil), categories...),
		index:      make(map[any]int64, len(categories)),
	}
	for i, c := range categories {
		if key, ok := stats.CategoryKey(c); ok {
			if _, dup := m.index[key]; !dup {
				m.index[key] = int64(i)
			}
		}
	}
	return m
}

// Categories returns a copy of the category list.
func (m *CategoricalMapper) Categories() []any {
	return append([]any(nil), m.categories...)
}

// Forward implements TensorMapper.
func (m *CategoricalMapper) Forward(values []any, device tensor.Device) (tensor.Tensor, error) {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = MissingIndex
		if key, ok := stats.CategoryKey(v); ok {
			if idx, found := m.index[key]; found {
				out[i] = idx
			}
		}
	}
	return tensor.NewInt(out, []int{len(out)}, device)
}

// Backward implements TensorMapper. MissingIndex decodes to nil.
func (m *CategoricalMapper) Backward(t tensor.Tensor) ([]any, error) {
	it, ok := t.(*tensor.Int)
	if !ok {
		return nil, errors.NewValueError("CategoricalMapper.Backward", fmt.Sprintf("expected an int tensor, got %s", t.DType()))
	}
	if _, err := columnLen("CategoricalMapper.Backward", t); err != nil {
		return nil, err
	}

	data := it.Data()
	out := make([]any, len(data))
	for i, idx := range data {
		switch {
		case idx == MissingIndex:
			out[i] = nil
		case idx < 0 || idx >= int64(len(m.categories)):
			return nil, errors.NewValueError("CategoricalMapper.Backward",
				fmt.Sprintf("index %d is out of range for %d categories", idx, len(m.categories)))
		default:
			out[i] = m.categories[idx]
		}
	}
	return out, nil
}
