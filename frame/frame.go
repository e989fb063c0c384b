// Package frame provides TensorFrame, the immutable bundle of tensors a
// dataset produces when it is materialized.
package frame

import (
	"fmt"
	"slices"
	"strings"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/stype"
	"github.com/YuminosukeSato/tabframe/tensor"
)

// TensorFrame groups feature tensors by semantic type. The feature tensor of
// type t has shape (NumRows, len(ColNames(t))) and its columns follow
// ColNames(t). The optional target tensor Y has NumRows rows.
type TensorFrame struct {
	numRows        int
	types          []stype.Type
	featByType     map[stype.Type]tensor.Tensor
	colNamesByType map[stype.Type][]string
	y              tensor.Tensor
}

// New validates and assembles a frame. featByType and colNamesByType must
// have the same keys; y may be nil. The maps are copied.
func New(numRows int, featByType map[stype.Type]tensor.Tensor, colNamesByType map[stype.Type][]string, y tensor.Tensor) (*TensorFrame, error) {
	if numRows < 0 {
		return nil, errors.NewValidationError("numRows", "must be non-negative", numRows)
	}
	if len(featByType) != len(colNamesByType) {
		return nil, errors.NewValueError("frame.New", fmt.Sprintf("%d feature tensors but %d column name groups", len(featByType), len(colNamesByType)))
	}

	tf := &TensorFrame{
		numRows:        numRows,
		featByType:     make(map[stype.Type]tensor.Tensor, len(featByType)),
		colNamesByType: make(map[stype.Type][]string, len(colNamesByType)),
		y:              y,
	}
	seen := make(map[string]stype.Type)
	for t, feat := range featByType {
		names, ok := colNamesByType[t]
		if !ok {
			return nil, errors.NewValueError("frame.New", fmt.Sprintf("no column names for semantic type '%s'", t))
		}
		if feat == nil {
			return nil, errors.NewValueError("frame.New", fmt.Sprintf("nil feature tensor for semantic type '%s'", t))
		}
		shape := feat.Shape()
		if len(shape) != 2 {
			return nil, errors.NewValueError("frame.New", fmt.Sprintf("feature tensor of '%s' must be 2-D, got shape %v", t, shape))
		}
		if shape[0] != numRows {
			return nil, errors.NewDimensionError(fmt.Sprintf("frame.New(%s)", t), numRows, shape[0], 0)
		}
		if shape[1] != len(names) {
			return nil, errors.NewDimensionError(fmt.Sprintf("frame.New(%s)", t), len(names), shape[1], 1)
		}
		for _, n := range names {
			if prev, dup := seen[n]; dup {
				return nil, errors.NewValueError("frame.New", fmt.Sprintf("column '%s' appears under both '%s' and '%s'", n, prev, t))
			}
			seen[n] = t
		}
		tf.types = append(tf.types, t)
		tf.featByType[t] = feat
		tf.colNamesByType[t] = append([]string(nil), names...)
	}
	if y != nil && y.Len() != numRows {
		return nil, errors.NewDimensionError("frame.New(y)", numRows, y.Len(), 0)
	}
	slices.Sort(tf.types)
	return tf, nil
}

// NumRows returns the number of rows.
func (tf *TensorFrame) NumRows() int {
	return tf.numRows
}

// Types returns the semantic types that have a feature tensor, sorted.
func (tf *TensorFrame) Types() []stype.Type {
	return append([]stype.Type(nil), tf.types...)
}

// Feat returns the feature tensor of type t.
func (tf *TensorFrame) Feat(t stype.Type) (tensor.Tensor, bool) {
	f, ok := tf.featByType[t]
	return f, ok
}

// FeatByType returns a copy of the type → tensor map. Tensors are immutable
// and shared.
func (tf *TensorFrame) FeatByType() map[stype.Type]tensor.Tensor {
	out := make(map[stype.Type]tensor.Tensor, len(tf.featByType))
	for t, f := range tf.featByType {
		out[t] = f
	}
	return out
}

// ColNames returns a copy of the column names of type t, in tensor column order.
func (tf *TensorFrame) ColNames(t stype.Type) []string {
	return append([]string(nil), tf.colNamesByType[t]...)
}

// ColNamesByType returns a deep copy of the type → column names map.
func (tf *TensorFrame) ColNamesByType() map[stype.Type][]string {
	out := make(map[stype.Type][]string, len(tf.colNamesByType))
	for t, names := range tf.colNamesByType {
		out[t] = append([]string(nil), names...)
	}
	return out
}

// NumCols returns the total number of feature columns.
func (tf *TensorFrame) NumCols() int {
	n := 0
	for _, names := range tf.colNamesByType {
		n += len(names)
	}
	return n
}

// Y returns the target tensor, or nil when the frame has no target.
func (tf *TensorFrame) Y() tensor.Tensor {
	return tf.y
}

// HasTarget reports whether the frame carries a target tensor.
func (tf *TensorFrame) HasTarget() bool {
	return tf.y != nil
}

// Index returns a new frame holding the given rows, in order. Indices may
// repeat and must be in [0, NumRows).
func (tf *TensorFrame) Index(rows []int) (*TensorFrame, error) {
	for _, r := range rows {
		if r < 0 || r >= tf.numRows {
			return nil, errors.NewIndexError(r, tf.numRows)
		}
	}

	feat := make(map[stype.Type]tensor.Tensor, len(tf.featByType))
	for t, f := range tf.featByType {
		g, err := f.Gather(rows)
		if err != nil {
			return nil, err
		}
		feat[t] = g
	}
	var y tensor.Tensor
	if tf.y != nil {
		g, err := tf.y.Gather(rows)
		if err != nil {
			return nil, err
		}
		y = g
	}
	return New(len(rows), feat, tf.colNamesByType, y)
}

func (tf *TensorFrame) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TensorFrame(num_rows=%d", tf.numRows)
	for _, t := range tf.types {
		fmt.Fprintf(&b, ", %s=%v", t, tf.colNamesByType[t])
	}
	if tf.y != nil {
		fmt.Fprintf(&b, ", has_target=true")
	}
	b.WriteString(")")
	return b.String()
}
