// Package table provides the mutable, column-oriented table a dataset is
// built from. Values are heterogeneous (any); semantic interpretation is left
// to the statistics calculators and tensor mappers.
package table

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// Column is a named sequence of raw values.
type Column struct {
	Name   string
	Values []any
}

// Table holds ordered, named columns of equal length.
type Table struct {
	names []string
	cols  map[string][]any
	nrows int
}

// New builds a table from columns, in order. Column names must be unique
// and all columns must have the same length.
func New(columns ...Column) (*Table, error) {
	t := &Table{cols: make(map[string][]any, len(columns))}
	for i, c := range columns {
		if c.Name == "" {
			return nil, errors.NewValidationError("column", "column name must not be empty", i)
		}
		if _, dup := t.cols[c.Name]; dup {
			return nil, errors.NewValidationError("column", "duplicate column name", c.Name)
		}
		if i == 0 {
			t.nrows = len(c.Values)
		} else if len(c.Values) != t.nrows {
			return nil, errors.NewDimensionError(fmt.Sprintf("table.New(%s)", c.Name), t.nrows, len(c.Values), 0)
		}
		t.names = append(t.names, c.Name)
		t.cols[c.Name] = append([]any(nil), c.Values...)
	}
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(columns ...Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.nrows
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.names)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	return append([]string(nil), t.names...)
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the values of a column. The returned slice is owned by the
// table and must not be modified.
func (t *Table) Column(name string) ([]any, bool) {
	v, ok := t.cols[name]
	return v, ok
}

// Missing returns the names in want that are not columns of t, in order.
func (t *Table) Missing(want []string) []string {
	var missing []string
	seen := make(map[string]bool, len(want))
	for _, n := range want {
		if !t.Has(n) && !seen[n] {
			missing = append(missing, n)
			seen[n] = true
		}
	}
	return missing
}

// AddColumn appends a new column. It fails if the name exists or the length
// differs from the current row count (an empty table accepts any length).
func (t *Table) AddColumn(c Column) error {
	if c.Name == "" {
		return errors.NewValidationError("column", "column name must not be empty", c.Name)
	}
	if t.Has(c.Name) {
		return errors.NewValidationError("column", "duplicate column name", c.Name)
	}
	if len(t.names) > 0 && len(c.Values) != t.nrows {
		return errors.NewDimensionError(fmt.Sprintf("AddColumn(%s)", c.Name), t.nrows, len(c.Values), 0)
	}
	if t.cols == nil {
		t.cols = make(map[string][]any)
	}
	if len(t.names) == 0 {
		t.nrows = len(c.Values)
	}
	t.names = append(t.names, c.Name)
	t.cols[c.Name] = append([]any(nil), c.Values...)
	return nil
}

// DropColumn removes a column.
func (t *Table) DropColumn(name string) error {
	if !t.Has(name) {
		return errors.NewMissingColumnError(name)
	}
	delete(t.cols, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i:i], t.names[i+1:]...)
			break
		}
	}
	return nil
}

// Select returns a new table with only the named columns, in the order given.
// Column value slices are shared with t since tables returned here are
// treated as read-only by datasets.
func (t *Table) Select(names []string) (*Table, error) {
	if missing := t.Missing(names); len(missing) > 0 {
		return nil, errors.NewMissingColumnError(missing...)
	}
	out := &Table{cols: make(map[string][]any, len(names)), nrows: t.nrows}
	for _, n := range names {
		if _, dup := out.cols[n]; dup {
			return nil, errors.NewValueError("table.Select", fmt.Sprintf("column '%s' selected more than once", n))
		}
		out.names = append(out.names, n)
		out.cols[n] = t.cols[n]
	}
	return out, nil
}

// Take gathers rows by position. Indices may repeat; each must already be in
// [0, NumRows).
func (t *Table) Take(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.nrows {
			return nil, errors.NewIndexError(r, t.nrows)
		}
	}
	out := &Table{names: append([]string(nil), t.names...), cols: make(map[string][]any, len(t.names)), nrows: len(rows)}
	for _, n := range t.names {
		src := t.cols[n]
		dst := make([]any, len(rows))
		for i, r := range rows {
			dst[i] = src[r]
		}
		out.cols[n] = dst
	}
	return out, nil
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) ([]any, error) {
	if i < 0 || i >= t.nrows {
		return nil, errors.NewIndexError(i, t.nrows)
	}
	out := make([]any, len(t.names))
	for j, n := range t.names {
		out[j] = t.cols[n][i]
	}
	return out, nil
}

// String renders a short summary such as Table(3 rows x [age city]).
func (t *Table) String() string {
	return fmt.Sprintf("Table(%d rows x [%s])", t.nrows, strings.Join(t.names, " "))
}
