// Package tabframe turns in-memory tables into typed tensors for tabular
// deep learning.
//
// A Dataset pairs a table with a semantic type per column. Materializing it
// computes column statistics, builds one tensor mapper per column and
// stacks the mapped columns into a TensorFrame grouped by semantic type.
// Materialized datasets support row selection and shuffling that keep the
// table and the tensors aligned.
//
// # Quick Start
//
//	tbl := table.MustNew(
//	    table.Column{Name: "age", Values: table.Ints(20, 35, 50)},
//	    table.Column{Name: "city", Values: table.Strings("NY", "LA", "NY")},
//	    table.Column{Name: "label", Values: table.Ints(1, 0, 1)},
//	)
//	types := stype.MustColumnTypeMap(
//	    stype.ColumnType{Name: "age", Type: stype.Numerical},
//	    stype.ColumnType{Name: "city", Type: stype.Categorical},
//	    stype.ColumnType{Name: "label", Type: stype.Categorical},
//	)
//	ds, err := dataset.New(tbl, types, dataset.WithTarget("label"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := ds.Materialize(); err != nil {
//	    log.Fatal(err)
//	}
//	tf, _ := ds.TensorFrame()
//	fmt.Println(tf) // TensorFrame(num_rows=3, categorical=[city], numerical=[age], has_target=true)
//
// # Packages
//
//   - table: column-oriented input tables
//   - stype: semantic types and the ordered column type map
//   - stats: per-column statistics and the calculator registry
//   - mapper: tensor mappers and the mapper registry
//   - tensor: CPU float64/int64 tensors
//   - frame: TensorFrame and its compressed on-disk format
//   - dataset: Dataset, Materialize and row/column selection
//   - schema: YAML column type declarations
//   - report: column statistics charts
//   - preprocessing: scalers used by numerical mappers
//   - core/parallel, core/state: worker helpers and materialization state
//   - pkg/errors, pkg/log, pkg/compress: errors, logging and codecs
//
// # License
//
// tabframe is released under the MIT License.
package tabframe
