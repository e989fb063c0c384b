package mapper

import (
	"fmt"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/preprocessing"
	"github.com/YuminosukeSato/tabframe/stats"
	"github.com/YuminosukeSato/tabframe/tensor"
)

// NumericalMapper casts values to float64, optionally normalizing them.
// Missing values become NaN.
type NumericalMapper struct {
	// Column is used in conversion warnings.
	Column string
	// Scaler, when set, is applied in Forward and inverted in Backward. A
	// preprocessing.Fitter that is not fitted yet is fitted on the values
	// of the first Forward call.
	Scaler preprocessing.Scaler
}

// Forward implements TensorMapper. Numeric strings are parsed and reported
// once per call with a DataConversionWarning.
func (m *NumericalMapper) Forward(values []any, device tensor.Device) (tensor.Tensor, error) {
	out := make([]float64, len(values))
	parsed := 0
	for i, v := range values {
		f, wasString, err := stats.ToFloat64(v)
		if err != nil {
			return nil, errors.Wrapf(err, "column '%s'", m.Column)
		}
		if wasString {
			parsed++
		}
		out[i] = f
	}
	if parsed > 0 {
		errors.Warn(errors.NewDataConversionWarning(m.Column, "string", "float64",
			fmt.Sprintf("%d string value(s) parsed as numbers", parsed)))
	}

	if m.Scaler != nil {
		if f, ok := m.Scaler.(preprocessing.Fitter); ok && !f.IsFitted() {
			if err := f.Fit(out); err != nil {
				return nil, errors.Wrapf(err, "column '%s'", m.Column)
			}
		}
		var err error
		if out, err = m.Scaler.Transform(out); err != nil {
			return nil, err
		}
	}
	return tensor.NewFloat(out, []int{len(out)}, device)
}

// Backward implements TensorMapper. It returns float64 values.
func (m *NumericalMapper) Backward(t tensor.Tensor) ([]any, error) {
	f, ok := t.(*tensor.Float)
	if !ok {
		return nil, errors.NewValueError("NumericalMapper.Backward", fmt.Sprintf("expected a float tensor, got %s", t.DType()))
	}
	if _, err := columnLen("NumericalMapper.Backward", t); err != nil {
		return nil, err
	}

	data := f.Data()
	if m.Scaler != nil {
		var err error
		if data, err = m.Scaler.InverseTransform(data); err != nil {
			return nil, err
		}
	}
	out := make([]any, len(data))
	for i, v := range data {
		out[i] = v
	}
	return out, nil
}
