package dataset

import (
	"testing"

	"github.com/YuminosukeSato/tabframe/mapper"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/pkg/log"
	"github.com/YuminosukeSato/tabframe/stats"
	"github.com/YuminosukeSato/tabframe/stype"
	"github.com/YuminosukeSato/tabframe/table"
	"github.com/YuminosukeSato/tabframe/tensor"
	"github.com/google/go-cmp/cmp"
)

func newScenario(t *testing.T, opts ...Option) *Dataset {
	t.Helper()
	tbl := table.MustNew(
		table.Column{Name: "age", Values: table.Ints(25, 30, 45)},
		table.Column{Name: "city", Values: table.Strings("NY", "LA", "NY")},
		table.Column{Name: "label", Values: table.Ints(0, 1, 0)},
	)
	types := stype.MustColumnTypeMap(
		stype.ColumnType{Name: "age", Type: stype.Numerical},
		stype.ColumnType{Name: "city", Type: stype.Categorical},
		stype.ColumnType{Name: "label", Type: stype.Categorical},
	)
	ds, err := New(tbl, types, append([]Option{WithTarget("label")}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ds
}

// newRange builds a materialized dataset whose "x" column holds 0..n-1.
func newRange(t *testing.T, n int) *Dataset {
	t.Helper()
	xs := make([]int, n)
	for i := range xs {
		xs[i] = i
	}
	tbl := table.MustNew(table.Column{Name: "x", Values: table.Ints(xs...)})
	ds, err := New(tbl, stype.MustColumnTypeMap(stype.ColumnType{Name: "x", Type: stype.Numerical}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ds.Materialize(); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	return ds
}

func xValues(t *testing.T, ds *Dataset) []float64 {
	t.Helper()
	tf, err := ds.TensorFrame()
	if err != nil {
		t.Fatalf("TensorFrame: %v", err)
	}
	feat, _ := tf.Feat(stype.Numerical)
	return feat.(*tensor.Float).Data()
}

func TestMaterialize_Scenario(t *testing.T) {
	ds := newScenario(t)
	if _, err := ds.Materialize(); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	tf, err := ds.TensorFrame()
	if err != nil {
		t.Fatalf("TensorFrame: %v", err)
	}

	num, ok := tf.Feat(stype.Numerical)
	if !ok {
		t.Fatal("no numerical features")
	}
	if diff := cmp.Diff([]int{3, 1}, num.Shape()); diff != "" {
		t.Errorf("numerical shape (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{25, 30, 45}, num.(*tensor.Float).Data()); diff != "" {
		t.Errorf("numerical data (-want +got):\n%s", diff)
	}

	cat, ok := tf.Feat(stype.Categorical)
	if !ok {
		t.Fatal("no categorical features")
	}
	if diff := cmp.Diff([]int{3, 1}, cat.Shape()); diff != "" {
		t.Errorf("categorical shape (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"city"}, tf.ColNames(stype.Categorical)); diff != "" {
		t.Errorf("categorical names (-want +got):\n%s", diff)
	}
	// NY is the most frequent city, so it gets index 0.
	if diff := cmp.Diff([]int64{0, 1, 0}, cat.(*tensor.Int).Data()); diff != "" {
		t.Errorf("categorical data (-want +got):\n%s", diff)
	}

	y := tf.Y()
	if y == nil {
		t.Fatal("no target tensor")
	}
	if diff := cmp.Diff([]int{3}, y.Shape()); diff != "" {
		t.Errorf("target shape (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{0, 1, 0}, y.(*tensor.Int).Data()); diff != "" {
		t.Errorf("target data (-want +got):\n%s", diff)
	}

	if ds.Len() != tf.NumRows() {
		t.Errorf("table rows %d != frame rows %d", ds.Len(), tf.NumRows())
	}
	if diff := cmp.Diff([]string{"age", "city"}, ds.FeatCols()); diff != "" {
		t.Errorf("FeatCols (-want +got):\n%s", diff)
	}
}

func TestMaterialize_Idempotent(t *testing.T) {
	ds := newScenario(t)
	first, err := ds.Materialize()
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	tf1, _ := first.TensorFrame()

	second, err := ds.Materialize()
	if err != nil {
		t.Fatalf("second Materialize: %v", err)
	}
	tf2, _ := second.TensorFrame()

	if first != ds || second != ds {
		t.Error("Materialize should return the receiver")
	}
	if tf1 != tf2 {
		t.Error("second Materialize rebuilt the tensor frame")
	}
}

func TestMaterialize_BinaryTargetSortedByValue(t *testing.T) {
	tests := []struct {
		name   string
		labels []any
		want   []any
		wantY  []int64
	}{
		{
			name:   "strings, frequent class last",
			labels: []any{"yes", "no", "yes", "yes"},
			want:   []any{"no", "yes"},
			wantY:  []int64{1, 0, 1, 1},
		},
		{
			name:   "numbers, frequent class first",
			labels: []any{1, 1, 1, 0},
			want:   []any{0, 1},
			wantY:  []int64{1, 1, 1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.MustNew(
				table.Column{Name: "f", Values: table.Floats(1, 2, 3, 4)},
				table.Column{Name: "y", Values: tt.labels},
			)
			types := stype.MustColumnTypeMap(
				stype.ColumnType{Name: "f", Type: stype.Numerical},
				stype.ColumnType{Name: "y", Type: stype.Categorical},
			)
			ds, err := New(tbl, types, WithTarget("y"))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if _, err := ds.Materialize(); err != nil {
				t.Fatalf("Materialize: %v", err)
			}

			colStats, _ := ds.ColStats()
			counts, _ := colStats["y"].Counts()
			if diff := cmp.Diff(tt.want, counts.Categories); diff != "" {
				t.Errorf("categories (-want +got):\n%s", diff)
			}
			tf, _ := ds.TensorFrame()
			if diff := cmp.Diff(tt.wantY, tf.Y().(*tensor.Int).Data()); diff != "" {
				t.Errorf("target (-want +got):\n%s", diff)
			}

			decoded, err := ds.DecodeTarget(tf.Y())
			if err != nil {
				t.Fatalf("DecodeTarget: %v", err)
			}
			if diff := cmp.Diff(tt.labels, decoded); diff != "" {
				t.Errorf("decoded target (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMaterialize_MulticlassTargetKeepsFrequencyOrder(t *testing.T) {
	tbl := table.MustNew(table.Column{Name: "y", Values: table.Strings("c", "a", "c", "b", "c", "a")})
	ds, err := New(tbl, stype.MustColumnTypeMap(stype.ColumnType{Name: "y", Type: stype.Categorical}), WithTarget("y"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ds.Materialize(); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	colStats, _ := ds.ColStats()
	counts, _ := colStats["y"].Counts()
	if diff := cmp.Diff([]any{"c", "a", "b"}, counts.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
}

func TestMaterialize_Normalization(t *testing.T) {
	ds := newScenario(t, WithMapperRegistry(mapper.NewDefaultRegistry(mapper.WithNormalization(mapper.NormalizeMinMax))))
	if _, err := ds.Materialize(); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if diff := cmp.Diff([]float64{0, 0.25, 1}, xValuesOf(t, ds, "age")); diff != "" {
		t.Errorf("normalized age (-want +got):\n%s", diff)
	}
}

func xValuesOf(t *testing.T, ds *Dataset, col string) []float64 {
	t.Helper()
	tf, _ := ds.TensorFrame()
	feat, _ := tf.Feat(stype.Numerical)
	f := feat.(*tensor.Float)
	j := -1
	for i, n := range tf.ColNames(stype.Numerical) {
		if n == col {
			j = i
		}
	}
	out := make([]float64, f.Len())
	for i := range out {
		out[i] = f.At(i, j)
	}
	return out
}

func TestMaterialize_UnsupportedType(t *testing.T) {
	tbl := table.MustNew(
		table.Column{Name: "a", Values: table.Ints(1, 2)},
		table.Column{Name: "txt", Values: table.Strings("x", "y")},
	)
	types := stype.MustColumnTypeMap(
		stype.ColumnType{Name: "a", Type: stype.Numerical},
		stype.ColumnType{Name: "txt", Type: "text_embedded"},
	)
	ds, err := New(tbl, types)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = ds.Materialize()
	var unsupported *errors.UnsupportedSemanticTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedSemanticTypeError, got %v", err)
	}
	var matErr *errors.MaterializationError
	if !errors.As(err, &matErr) || matErr.Column != "txt" {
		t.Errorf("expected MaterializationError for 'txt', got %v", err)
	}

	if ds.IsMaterialized() {
		t.Error("failed Materialize left the dataset materialized")
	}
	var notMat *errors.NotMaterializedError
	if _, err := ds.TensorFrame(); !errors.As(err, &notMat) {
		t.Errorf("expected NotMaterializedError, got %v", err)
	}

	// a registry extended for the custom type makes the same dataset work
	text := stype.Type("text_embedded")
	ds2, _ := New(tbl, types,
		WithStatsRegistry(stats.DefaultRegistry().With(text, stats.CategoricalCalculator{})),
		WithMapperRegistry(mapper.DefaultRegistry().With(text, mapper.CategoricalFactory)),
	)
	if _, err := ds2.Materialize(); err != nil {
		t.Fatalf("Materialize with custom registries: %v", err)
	}
	tf, _ := ds2.TensorFrame()
	if _, ok := tf.Feat(text); !ok {
		t.Error("custom type missing from the tensor frame")
	}
}

func TestMaterialize_PanickingCalculator(t *testing.T) {
	boom := stats.CalculatorFunc(func(values []any) (stats.ColumnStats, error) {
		panic("calculator bug")
	})
	ds := newScenario(t, WithStatsRegistry(stats.DefaultRegistry().With(stype.Numerical, boom)))

	_, err := ds.Materialize()
	var panicErr *errors.PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %v", err)
	}
	if ds.IsMaterialized() {
		t.Error("dataset should stay unmaterialized")
	}
}

func TestMaterialize_UnsupportedDevice(t *testing.T) {
	ds := newScenario(t)
	_, err := ds.Materialize(WithDevice("cuda:0"))
	var valErr *errors.ValueError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValueError, got %v", err)
	}
}

func TestMaterialize_Logging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	ds := newScenario(t, WithLogger(logger))
	if _, err := ds.Materialize(); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if !logger.ContainsMessage("Materializing dataset") || !logger.ContainsMessage("Materialization completed") {
		t.Error("start/finish records missing")
	}
	if !logger.ContainsField(log.OperationKey, log.OperationMaterialize) {
		t.Error("operation field missing")
	}
	if !logger.ContainsField(log.DatasetIDKey, ds.ID()) {
		t.Error("dataset id field missing")
	}
	if !logger.ContainsField(log.ColumnNameKey, "city") {
		t.Error("per-column debug record missing")
	}
}

func TestNew_MissingColumns(t *testing.T) {
	tbl := table.MustNew(table.Column{Name: "age", Values: table.Ints(1)})
	types := stype.MustColumnTypeMap(
		stype.ColumnType{Name: "age", Type: stype.Numerical},
		stype.ColumnType{Name: "zip", Type: stype.Categorical},
		stype.ColumnType{Name: "city", Type: stype.Categorical},
	)

	_, err := New(tbl, types)
	var missing *errors.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if diff := cmp.Diff([]string{"zip", "city"}, missing.Columns); diff != "" {
		t.Errorf("missing columns (-want +got):\n%s", diff)
	}

	_, err = New(tbl, stype.MustColumnTypeMap(stype.ColumnType{Name: "age", Type: stype.Numerical}), WithTarget("label"))
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError for target, got %v", err)
	}
	if diff := cmp.Diff([]string{"label"}, missing.Columns); diff != "" {
		t.Errorf("missing columns (-want +got):\n%s", diff)
	}
}

func TestNew_TargetMustBeTyped(t *testing.T) {
	tbl := table.MustNew(
		table.Column{Name: "age", Values: table.Ints(1)},
		table.Column{Name: "label", Values: table.Ints(0)},
	)
	_, err := New(tbl, stype.MustColumnTypeMap(stype.ColumnType{Name: "age", Type: stype.Numerical}), WithTarget("label"))
	var vErr *errors.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestNew_CopiesInputs(t *testing.T) {
	tbl := table.MustNew(table.Column{Name: "a", Values: table.Ints(1, 2)})
	types := stype.MustColumnTypeMap(stype.ColumnType{Name: "a", Type: stype.Numerical})
	ds, err := New(tbl, types)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_ = types.Set("a", stype.Categorical)
	_ = tbl.DropColumn("a")

	if got, _ := ds.ColumnTypes().Get("a"); got != stype.Numerical {
		t.Errorf("type map shared with caller: %v", got)
	}
	if !ds.Table().Has("a") {
		t.Error("table shared with caller")
	}
}

func TestSetColumnType(t *testing.T) {
	ds := newScenario(t)
	if err := ds.SetColumnType("age", stype.Categorical); err != nil {
		t.Fatalf("SetColumnType: %v", err)
	}
	if got, _ := ds.ColumnTypes().Get("age"); got != stype.Categorical {
		t.Errorf("age type = %v", got)
	}

	var missing *errors.MissingColumnError
	if err := ds.SetColumnType("zip", stype.Numerical); !errors.As(err, &missing) {
		t.Errorf("expected MissingColumnError, got %v", err)
	}

	if _, err := ds.Materialize(); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	var already *errors.AlreadyMaterializedError
	if err := ds.SetColumnType("age", stype.Numerical); !errors.As(err, &already) {
		t.Errorf("expected AlreadyMaterializedError, got %v", err)
	}
}

func TestDecodeTarget_Errors(t *testing.T) {
	ds := newScenario(t)
	y, _ := tensor.NewInt([]int64{0}, []int{1}, tensor.CPU)

	var notMat *errors.NotMaterializedError
	if _, err := ds.DecodeTarget(y); !errors.As(err, &notMat) {
		t.Errorf("expected NotMaterializedError, got %v", err)
	}

	noTarget := newRange(t, 3)
	if _, err := noTarget.DecodeTarget(y); err == nil {
		t.Error("expected error for a dataset without target")
	}
}

func TestString(t *testing.T) {
	ds := newScenario(t)
	want := "Dataset(rows=3, columns=[age city label], target=label, unmaterialized)"
	if got := ds.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
