package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/YuminosukeSato/tabframe/core/state"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/pkg/log"
)

// IndexSelect returns a new materialized dataset with the selected rows of
// both the table and the tensor frame, in the order given. The column
// statistics are shared with d.
func (d *Dataset) IndexSelect(idx Index) (*Dataset, error) {
	if err := d.state.RequireMaterialized("IndexSelect"); err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, errors.NewValueError("IndexSelect", "index must not be nil")
	}
	rows, err := idx.Resolve(d.Len())
	if err != nil {
		return nil, err
	}

	tbl, err := d.table.Take(rows)
	if err != nil {
		return nil, err
	}
	tf, err := d.frame.Index(rows)
	if err != nil {
		return nil, err
	}

	out := d.derive(tbl, d.colToStype.Clone(), state.NewMaterializedManager())
	out.colStats, out.mappers, out.frame = d.colStats, d.mappers, tf

	d.logger.Debug("Selected rows",
		log.OperationKey, log.OperationIndexSelect,
		log.SamplesKey, len(rows),
		"derived_id", out.ID(),
	)
	return out, nil
}

// Shuffle returns a materialized dataset with its rows in random order.
// A nil rng uses the global source.
func (d *Dataset) Shuffle(rng *rand.Rand) (*Dataset, error) {
	out, _, err := d.ShuffleWithPerm(rng)
	return out, err
}

// ShuffleWithPerm is like Shuffle and also returns the permutation:
// row i of the result is row perm[i] of d.
func (d *Dataset) ShuffleWithPerm(rng *rand.Rand) (*Dataset, []int, error) {
	if err := d.state.RequireMaterialized("Shuffle"); err != nil {
		return nil, nil, err
	}
	var perm []int
	if rng == nil {
		perm = rand.Perm(d.Len())
	} else {
		perm = rng.Perm(d.Len())
	}

	d.logger.Debug("Shuffling rows", log.OperationKey, log.OperationShuffle, log.SamplesKey, len(perm))
	out, err := d.IndexSelect(Rows(perm))
	if err != nil {
		return nil, nil, err
	}
	return out, perm, nil
}

// ColSelect returns a new unmaterialized dataset restricted to the given
// typed columns, in the given order. The target column is appended when it
// is not listed. It is only allowed before materialization.
func (d *Dataset) ColSelect(cols ...string) (*Dataset, error) {
	if err := d.state.RequireUnmaterialized("ColSelect"); err != nil {
		return nil, err
	}

	names := slices.Clone(cols)
	if d.targetCol != "" && !slices.Contains(names, d.targetCol) {
		names = append(names, d.targetCol)
	}

	// Project reports unknown names as a MissingColumnError and rejects
	// duplicates.
	types, err := d.colToStype.Project(names)
	if err != nil {
		return nil, err
	}
	tbl, err := d.table.Select(names)
	if err != nil {
		return nil, err
	}

	out := d.derive(tbl, types, state.NewManager())
	d.logger.Debug("Selected columns",
		log.OperationKey, log.OperationColSelect,
		"columns", names,
		"derived_id", out.ID(),
	)
	return out, nil
}

// Get selects columns or rows depending on the key:
//
//   - string, a non-empty []string, or a non-empty []any starting with a
//     string selects columns (ColSelect);
//   - int, []int, Row, Rows, Slice, any other Index, or a []any of integers
//     selects rows (IndexSelect);
//   - an empty []string or []any selects zero rows.
//
// Any other key type is a ValueError.
func (d *Dataset) Get(key any) (*Dataset, error) {
	switch k := key.(type) {
	case string:
		return d.ColSelect(k)
	case []string:
		if len(k) > 0 {
			return d.ColSelect(k...)
		}
		return d.IndexSelect(Rows{})
	case []any:
		return d.getAny(k)
	case int:
		return d.IndexSelect(Row(k))
	case []int:
		return d.IndexSelect(Rows(k))
	case Index:
		return d.IndexSelect(k)
	}
	if i, ok, err := toInt(key); ok {
		if err != nil {
			return nil, err
		}
		return d.IndexSelect(Row(i))
	}
	return nil, errors.NewValueError("Get", fmt.Sprintf("unsupported key type %T", key))
}

func (d *Dataset) getAny(keys []any) (*Dataset, error) {
	if len(keys) > 0 {
		if _, isCol := keys[0].(string); isCol {
			cols := make([]string, len(keys))
			for i, k := range keys {
				s, ok := k.(string)
				if !ok {
					return nil, errors.NewValueError("Get", fmt.Sprintf("column key %d has type %T, expected string", i, k))
				}
				cols[i] = s
			}
			return d.ColSelect(cols...)
		}
	}

	rows := make(Rows, len(keys))
	for i, k := range keys {
		r, ok, err := toInt(k)
		if !ok {
			return nil, errors.NewValueError("Get", fmt.Sprintf("row key %d has type %T, expected an integer", i, k))
		}
		if err != nil {
			return nil, err
		}
		rows[i] = r
	}
	return d.IndexSelect(rows)
}

// toInt converts an integer key to int. ok is false when v is not an
// integer; err is set when v is an integer outside the int range.
func toInt(v any) (i int, ok bool, err error) {
	var u uint64
	switch x := v.(type) {
	case int:
		return x, true, nil
	case int8:
		return int(x), true, nil
	case int16:
		return int(x), true, nil
	case int32:
		return int(x), true, nil
	case int64:
		if x > math.MaxInt || x < math.MinInt {
			return 0, true, overflowError(v)
		}
		return int(x), true, nil
	case uint8:
		return int(x), true, nil
	case uint16:
		return int(x), true, nil
	case uint:
		u = uint64(x)
	case uint32:
		u = uint64(x)
	case uint64:
		u = x
	default:
		return 0, false, nil
	}
	if u > math.MaxInt {
		return 0, true, overflowError(v)
	}
	return int(u), true, nil
}

func overflowError(v any) error {
	return errors.NewValueError("Get", fmt.Sprintf("row key %v (%T) is out of the int range", v, v))
}
