// Package dataset turns a column-typed table into tensors.
//
// A Dataset starts unmaterialized: its column type map may still be edited
// and columns selected. Materialize computes per-column statistics, encodes
// every column with its tensor mapper and stores the resulting
// frame.TensorFrame. From then on the dataset is read-only and only row
// selection is allowed; every selection returns a new Dataset.
//
//	ds, err := dataset.New(tbl, types, dataset.WithTarget("label"))
//	if err != nil { ... }
//	if _, err := ds.Materialize(); err != nil { ... }
//	train, _ := ds.IndexSelect(dataset.Slice{Stop: dataset.Frac(0.8)})
package dataset

import (
	"fmt"
	"slices"

	"github.com/YuminosukeSato/tabframe/core/state"
	"github.com/YuminosukeSato/tabframe/frame"
	"github.com/YuminosukeSato/tabframe/mapper"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/pkg/log"
	"github.com/YuminosukeSato/tabframe/stats"
	"github.com/YuminosukeSato/tabframe/stype"
	"github.com/YuminosukeSato/tabframe/table"
	"github.com/YuminosukeSato/tabframe/tensor"
	"github.com/google/uuid"
)

// Dataset is a table with declared column semantic types and, once
// materialized, its tensor encoding.
type Dataset struct {
	id         uuid.UUID
	table      *table.Table
	colToStype *stype.ColumnTypeMap
	targetCol  string

	state    *state.Manager
	colStats map[string]stats.ColumnStats
	mappers  map[string]mapper.TensorMapper
	frame    *frame.TensorFrame

	statsReg   *stats.Registry
	mapperReg  *mapper.Registry
	baseLogger log.Logger
	logger     log.Logger
}

// New creates an unmaterialized dataset. Every column of colToStype and the
// target must exist in tbl; otherwise a MissingColumnError lists the absent
// columns. The table and type map are copied, so later changes by the caller
// do not affect the dataset.
func New(tbl *table.Table, colToStype *stype.ColumnTypeMap, opts ...Option) (*Dataset, error) {
	if tbl == nil {
		return nil, errors.NewValidationError("table", "must not be nil", nil)
	}
	if colToStype == nil {
		colToStype = stype.MustColumnTypeMap()
	}

	d := &Dataset{
		colToStype: colToStype.Clone(),
		state:      state.NewManager(),
		statsReg:   stats.DefaultRegistry(),
		mapperReg:  mapper.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}

	declared := d.colToStype.Names()
	if d.targetCol != "" {
		declared = append(declared, d.targetCol)
	}
	if missing := tbl.Missing(declared); len(missing) > 0 {
		return nil, errors.NewMissingColumnError(missing...)
	}
	if d.targetCol != "" && !d.colToStype.Has(d.targetCol) {
		return nil, errors.NewValidationError("target", "target column must have a semantic type", d.targetCol)
	}

	own, err := tbl.Select(tbl.ColumnNames())
	if err != nil {
		return nil, err
	}
	d.table = own
	d.assignID()
	return d, nil
}

func (d *Dataset) assignID() {
	d.id = uuid.Must(uuid.NewV7())
	base := d.baseLogger
	if base == nil {
		base = log.GetLoggerWithName("dataset")
	}
	d.logger = base.With(log.DatasetIDKey, d.id.String())
}

// derive builds a new dataset sharing d's configuration.
func (d *Dataset) derive(tbl *table.Table, types *stype.ColumnTypeMap, st *state.Manager) *Dataset {
	out := &Dataset{
		table:      tbl,
		colToStype: types,
		targetCol:  d.targetCol,
		state:      st,
		statsReg:   d.statsReg,
		mapperReg:  d.mapperReg,
		baseLogger: d.baseLogger,
	}
	out.assignID()
	return out
}

// ID returns the dataset's unique identifier. Derived datasets get new IDs.
func (d *Dataset) ID() string {
	return d.id.String()
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.table.NumRows()
}

// Table returns a copy of the dataset's table.
func (d *Dataset) Table() *table.Table {
	t, _ := d.table.Select(d.table.ColumnNames())
	return t
}

// ColumnTypes returns a copy of the column type map.
func (d *Dataset) ColumnTypes() *stype.ColumnTypeMap {
	return d.colToStype.Clone()
}

// TargetCol returns the target column, or "" when none was declared.
func (d *Dataset) TargetCol() string {
	return d.targetCol
}

// HasTarget reports whether a target column was declared.
func (d *Dataset) HasTarget() bool {
	return d.targetCol != ""
}

// FeatCols returns the typed columns other than the target, in declaration order.
func (d *Dataset) FeatCols() []string {
	names := d.colToStype.Names()
	if i := slices.Index(names, d.targetCol); d.targetCol != "" && i >= 0 {
		names = slices.Delete(names, i, i+1)
	}
	return names
}

// SetColumnType declares or changes the semantic type of a column of the
// table. It is only allowed before materialization.
func (d *Dataset) SetColumnType(col string, t stype.Type) error {
	if err := d.state.RequireUnmaterialized("SetColumnType"); err != nil {
		return err
	}
	if !d.table.Has(col) {
		return errors.NewMissingColumnError(col)
	}
	return d.colToStype.Set(col, t)
}

// IsMaterialized reports whether Materialize has completed.
func (d *Dataset) IsMaterialized() bool {
	return d.state.IsMaterialized()
}

// TensorFrame returns the materialized tensors.
func (d *Dataset) TensorFrame() (*frame.TensorFrame, error) {
	if err := d.state.RequireMaterialized("TensorFrame"); err != nil {
		return nil, err
	}
	return d.frame, nil
}

// ColStats returns a copy of the per-column statistics.
func (d *Dataset) ColStats() (map[string]stats.ColumnStats, error) {
	if err := d.state.RequireMaterialized("ColStats"); err != nil {
		return nil, err
	}
	out := make(map[string]stats.ColumnStats, len(d.colStats))
	for col, cs := range d.colStats {
		out[col] = cs.Clone()
	}
	return out, nil
}

// DecodeTarget maps a target-shaped tensor (for example model predictions
// as category indices) back to raw target values.
func (d *Dataset) DecodeTarget(t tensor.Tensor) ([]any, error) {
	if err := d.state.RequireMaterialized("DecodeTarget"); err != nil {
		return nil, err
	}
	if d.targetCol == "" {
		return nil, errors.NewValueError("DecodeTarget", "dataset has no target column")
	}
	return d.mappers[d.targetCol].Backward(t)
}

func (d *Dataset) String() string {
	target := "none"
	if d.targetCol != "" {
		target = d.targetCol
	}
	return fmt.Sprintf("Dataset(rows=%d, columns=%v, target=%s, %s)",
		d.Len(), d.colToStype.Names(), target, d.state.State())
}
