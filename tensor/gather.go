package tensor

import (
	"github.com/YuminosukeSato/tabframe/core/parallel"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// gatherRows copies the rows of data (laid out with the given shape) selected
// by rows. Large gathers are split across cores.
func gatherRows[T any](data []T, shape []int, rows []int) ([]T, []int, error) {
	n := shape[0]
	for _, r := range rows {
		if r < 0 || r >= n {
			return nil, nil, errors.NewIndexError(r, n)
		}
	}

	stride := rowStride(shape)
	out := make([]T, len(rows)*stride)
	parallel.ParallelizeWithThreshold(len(rows), parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			src := rows[i] * stride
			copy(out[i*stride:(i+1)*stride], data[src:src+stride])
		}
	})

	newShape := append([]int{len(rows)}, shape[1:]...)
	return out, newShape, nil
}
