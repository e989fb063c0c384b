// Package report renders column statistics as charts with gonum/plot.
// Numerical columns get their quartiles and mean, categorical columns a
// bar chart of category counts.
package report

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/tabframe/dataset"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/pkg/log"
	"github.com/YuminosukeSato/tabframe/stats"
	"github.com/YuminosukeSato/tabframe/stype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// MaxCategories bounds the number of bars in a categorical chart. Counts
// are ordered by frequency, so the most common categories are kept.
const MaxCategories = 20

var (
	width  = 5 * vg.Inch
	height = 4 * vg.Inch
)

// PlotColumnStats writes a chart of cs to path. The image format follows
// the file extension (.png, .svg, .pdf, ...).
func PlotColumnStats(column string, t stype.Type, cs stats.ColumnStats, path string) error {
	var (
		p   *plot.Plot
		err error
	)
	switch t {
	case stype.Numerical:
		p, err = numericalPlot(column, cs)
	case stype.Categorical:
		p, err = categoricalPlot(column, cs)
	default:
		return errors.NewUnsupportedSemanticTypeError(t.String(), "report")
	}
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "failed to save chart for column '%s'", column)
	}
	return nil
}

// PlotDataset writes one chart per column of a materialized dataset into
// dir and returns the file paths in column order. Columns whose type has
// no chart are skipped.
func PlotDataset(ds *dataset.Dataset, dir, ext string) ([]string, error) {
	colStats, err := ds.ColStats()
	if err != nil {
		return nil, err
	}
	logger := log.GetLoggerWithName("report")

	var paths []string
	for _, ct := range ds.ColumnTypes().Pairs() {
		if ct.Type != stype.Numerical && ct.Type != stype.Categorical {
			logger.Debug("No chart for column", log.ColumnNameKey, ct.Name, log.StypeKey, ct.Type.String())
			continue
		}
		path := filepath.Join(dir, fileName(ct.Name)+"."+strings.TrimPrefix(ext, "."))
		if err := PlotColumnStats(ct.Name, ct.Type, colStats[ct.Name], path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	logger.Info("Wrote column charts", log.DatasetIDKey, ds.ID(), "files", len(paths))
	return paths, nil
}

func numericalPlot(column string, cs stats.ColumnStats) (*plot.Plot, error) {
	q, ok := cs.Quantiles()
	if !ok || len(q) == 0 {
		return nil, errors.NewValueError("PlotColumnStats", fmt.Sprintf("column '%s' has no quantiles", column))
	}
	pts := make(plotter.XYs, len(q))
	step := 100 / float64(max(len(q)-1, 1))
	for i, v := range q {
		if math.IsNaN(v) {
			return nil, errors.NewValueError("PlotColumnStats", fmt.Sprintf("column '%s' has no observed values", column))
		}
		pts[i] = plotter.XY{X: float64(i) * step, Y: v}
	}

	p := plot.New()
	p.Title.Text = column
	p.X.Label.Text = "percentile"
	p.Y.Label.Text = "value"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build quantile line")
	}
	line.LineStyle.Width = vg.Points(2)
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build quantile points")
	}
	scatter.Shape = draw.CircleGlyph{}
	scatter.Radius = vg.Points(3)
	p.Add(line, scatter)
	p.Legend.Add("quantiles", line)

	if mean, ok := cs.Float(stats.StatMean); ok && !math.IsNaN(mean) {
		m, err := plotter.NewLine(plotter.XYs{{X: 0, Y: mean}, {X: 100, Y: mean}})
		if err != nil {
			return nil, errors.Wrap(err, "failed to build mean line")
		}
		m.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(m)
		p.Legend.Add("mean", m)
	}
	return p, nil
}

func categoricalPlot(column string, cs stats.ColumnStats) (*plot.Plot, error) {
	counts, ok := cs.Counts()
	if !ok || counts.Len() == 0 {
		return nil, errors.NewValueError("PlotColumnStats", fmt.Sprintf("column '%s' has no categories", column))
	}
	n := min(counts.Len(), MaxCategories)
	values := make(plotter.Values, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		values[i] = float64(counts.Counts[i])
		labels[i] = fmt.Sprintf("%v", counts.Categories[i])
	}

	p := plot.New()
	p.Title.Text = column
	p.Y.Label.Text = "count"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

func fileName(column string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, column)
}
