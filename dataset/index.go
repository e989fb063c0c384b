package dataset

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// Index selects rows. Implementations resolve to explicit row positions for
// a dataset of n rows.
type Index interface {
	Resolve(n int) ([]int, error)
}

// Row selects a single row. Negative values count from the end.
type Row int

// Resolve implements Index.
func (r Row) Resolve(n int) ([]int, error) {
	i, err := normalizeRow(int(r), n)
	if err != nil {
		return nil, err
	}
	return []int{i}, nil
}

// Rows selects rows in the given order. Repeats are allowed and negative
// values count from the end.
type Rows []int

// Resolve implements Index.
func (rs Rows) Resolve(n int) ([]int, error) {
	out := make([]int, len(rs))
	for k, r := range rs {
		i, err := normalizeRow(r, n)
		if err != nil {
			return nil, err
		}
		out[k] = i
	}
	return out, nil
}

func normalizeRow(i, n int) (int, error) {
	if i < -n || i >= n {
		return 0, errors.NewIndexError(i, n)
	}
	if i < 0 {
		i += n
	}
	return i, nil
}

type boundKind uint8

const (
	unbounded boundKind = iota
	absolute
	fraction
)

// Bound is one end of a Slice.
type Bound struct {
	kind boundKind
	pos  int
	frac float64
}

// Unbounded leaves a slice end open.
var Unbounded = Bound{}

// At is a row position bound. Negative positions count from the end.
func At(i int) Bound {
	return Bound{kind: absolute, pos: i}
}

// Frac is a bound given as a fraction of the row count, rounded half to
// even: Frac(0.5) on 10 rows is position 5.
func Frac(f float64) Bound {
	return Bound{kind: fraction, frac: f}
}

func (b Bound) resolve(n int) (int, bool) {
	switch b.kind {
	case absolute:
		return b.pos, true
	case fraction:
		return int(math.RoundToEven(b.frac * float64(n))), true
	default:
		return 0, false
	}
}

func (b Bound) String() string {
	switch b.kind {
	case absolute:
		return fmt.Sprint(b.pos)
	case fraction:
		return fmt.Sprintf("%g", b.frac)
	default:
		return ""
	}
}

// Slice selects a range of rows like a Python slice: bounds are clamped to
// the row count, negative bounds count from the end and a negative Step walks
// backwards. Step 0 means 1.
type Slice struct {
	Start, Stop Bound
	Step        int
}

// Resolve implements Index.
func (s Slice) Resolve(n int) ([]int, error) {
	step := s.Step
	if step == 0 {
		step = 1
	}

	var start, stop int
	if step > 0 {
		start = clampBound(s.Start, n, 0, 0, n)
		stop = clampBound(s.Stop, n, n, 0, n)
	} else {
		start = clampBound(s.Start, n, n-1, -1, n-1)
		stop = clampBound(s.Stop, n, -1, -1, n-1)
	}

	var out []int
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}

// clampBound resolves b against n rows: def when unbounded, negative values
// shifted by n, then clamped to [lo, hi].
func clampBound(b Bound, n, def, lo, hi int) int {
	v, ok := b.resolve(n)
	if !ok {
		return def
	}
	if v < 0 {
		v += n
	}
	return max(lo, min(v, hi))
}

func (s Slice) String() string {
	if s.Step == 0 {
		return fmt.Sprintf("[%s:%s]", s.Start, s.Stop)
	}
	return fmt.Sprintf("[%s:%s:%d]", s.Start, s.Stop, s.Step)
}
