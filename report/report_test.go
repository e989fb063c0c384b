package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/tabframe/dataset"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/stats"
	"github.com/YuminosukeSato/tabframe/stype"
	"github.com/YuminosukeSato/tabframe/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotColumnStats(t *testing.T) {
	dir := t.TempDir()

	num, err := stats.ComputeColStats([]any{1.0, 2.0, 3.0, 4.0}, stype.Numerical)
	require.NoError(t, err)
	numPath := filepath.Join(dir, "age.png")
	require.NoError(t, PlotColumnStats("age", stype.Numerical, num, numPath))

	cat, err := stats.ComputeColStats([]any{"NY", "LA", "NY"}, stype.Categorical)
	require.NoError(t, err)
	catPath := filepath.Join(dir, "city.svg")
	require.NoError(t, PlotColumnStats("city", stype.Categorical, cat, catPath))

	for _, p := range []string{numPath, catPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), p)
	}
}

func TestPlotColumnStats_Errors(t *testing.T) {
	dir := t.TempDir()

	err := PlotColumnStats("x", stype.Type("timestamp"), stats.ColumnStats{}, filepath.Join(dir, "x.png"))
	var unsupported *errors.UnsupportedSemanticTypeError
	assert.True(t, errors.As(err, &unsupported))

	empty := stats.ColumnStats{stats.StatQuantiles: []float64{math.NaN(), math.NaN()}}
	err = PlotColumnStats("x", stype.Numerical, empty, filepath.Join(dir, "x.png"))
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	err = PlotColumnStats("c", stype.Categorical, stats.ColumnStats{}, filepath.Join(dir, "c.png"))
	assert.True(t, errors.As(err, &valueErr))
}

func TestPlotDataset(t *testing.T) {
	tbl := table.MustNew(
		table.Column{Name: "age", Values: table.Ints(20, 35, 50)},
		table.Column{Name: "home city", Values: table.Strings("NY", "LA", "NY")},
	)
	types := stype.MustColumnTypeMap(
		stype.ColumnType{Name: "age", Type: stype.Numerical},
		stype.ColumnType{Name: "home city", Type: stype.Categorical},
	)
	ds, err := dataset.New(tbl, types)
	require.NoError(t, err)

	_, err = PlotDataset(ds, t.TempDir(), "png")
	var notMat *errors.NotMaterializedError
	require.True(t, errors.As(err, &notMat))

	_, err = ds.Materialize()
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := PlotDataset(ds, dir, ".png")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "age.png"),
		filepath.Join(dir, "home_city.png"),
	}, paths)
}
