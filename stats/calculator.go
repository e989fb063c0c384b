package stats

import (
	"math"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Calculator computes the statistics of one column.
type Calculator interface {
	Compute(values []any) (ColumnStats, error)
}

// CalculatorFunc adapts a function to Calculator.
type CalculatorFunc func(values []any) (ColumnStats, error)

// Compute implements Calculator.
func (f CalculatorFunc) Compute(values []any) (ColumnStats, error) {
	return f(values)
}

// NumericalCalculator computes mean, population std and quartiles.
type NumericalCalculator struct{}

// Compute implements Calculator. Missing values are ignored; a column with no
// observed values yields NaN statistics.
func (NumericalCalculator) Compute(values []any) (ColumnStats, error) {
	data := make([]float64, 0, len(values))
	for _, v := range values {
		f, _, err := ToFloat64(v)
		if err != nil {
			return nil, err
		}
		if !math.IsNaN(f) {
			data = append(data, f)
		}
	}

	if len(data) == 0 {
		nan := math.NaN()
		return ColumnStats{
			StatMean:      nan,
			StatStd:       nan,
			StatQuantiles: []float64{nan, nan, nan, nan, nan},
		}, nil
	}

	mean, std := stat.PopMeanStdDev(data, nil)
	q, err := quartiles(data)
	if err != nil {
		return nil, err
	}
	return ColumnStats{
		StatMean:      mean,
		StatStd:       std,
		StatQuantiles: q,
	}, nil
}

// quartiles returns min, nearest-rank Q1, median, nearest-rank Q3 and max.
func quartiles(data []float64) ([]float64, error) {
	lo, err := mstats.Min(data)
	if err != nil {
		return nil, errors.Wrap(err, "min")
	}
	q1, err := mstats.PercentileNearestRank(data, 25)
	if err != nil {
		return nil, errors.Wrap(err, "25th percentile")
	}
	median, err := mstats.Median(data)
	if err != nil {
		return nil, errors.Wrap(err, "median")
	}
	q3, err := mstats.PercentileNearestRank(data, 75)
	if err != nil {
		return nil, errors.Wrap(err, "75th percentile")
	}
	hi, err := mstats.Max(data)
	if err != nil {
		return nil, errors.Wrap(err, "max")
	}
	return []float64{lo, q1, median, q3, hi}, nil
}

// CategoricalCalculator counts category frequencies.
type CategoricalCalculator struct{}

// Compute implements Calculator.
func (CategoricalCalculator) Compute(values []any) (ColumnStats, error) {
	return ColumnStats{StatCount: CountCategories(values)}, nil
}
