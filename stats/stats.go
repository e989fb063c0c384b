// Package stats computes the per-column statistics a dataset needs to build
// and later reverse its tensor encoding.
package stats

import (
	"github.com/YuminosukeSato/tabframe/stype"
)

// StatType names one statistic.
type StatType string

const (
	// StatMean is the mean of a numerical column (float64).
	StatMean StatType = "MEAN"
	// StatStd is the population standard deviation of a numerical column (float64).
	StatStd StatType = "STD"
	// StatQuantiles holds the 0, 25, 50, 75 and 100 percentiles ([]float64).
	StatQuantiles StatType = "QUANTILES"
	// StatCount holds the category frequencies of a categorical column (CategoryCounts).
	StatCount StatType = "COUNT"
)

// ColumnStats maps a statistic to its value. Which statistics are present
// depends on the column's semantic type.
type ColumnStats map[StatType]any

// Float returns a float64 statistic.
func (cs ColumnStats) Float(st StatType) (float64, bool) {
	v, ok := cs[st].(float64)
	return v, ok
}

// Quantiles returns StatQuantiles.
func (cs ColumnStats) Quantiles() ([]float64, bool) {
	v, ok := cs[StatQuantiles].([]float64)
	return v, ok
}

// Counts returns StatCount.
func (cs ColumnStats) Counts() (CategoryCounts, bool) {
	v, ok := cs[StatCount].(CategoryCounts)
	return v, ok
}

// Clone returns a shallow copy with slice-valued statistics duplicated.
func (cs ColumnStats) Clone() ColumnStats {
	if cs == nil {
		return nil
	}
	out := make(ColumnStats, len(cs))
	for k, v := range cs {
		switch x := v.(type) {
		case []float64:
			out[k] = append([]float64(nil), x...)
		case CategoryCounts:
			out[k] = x.Clone()
		default:
			out[k] = v
		}
	}
	return out
}

// RequiredStats lists the statistics each built-in type produces.
func RequiredStats(t stype.Type) []StatType {
	switch t {
	case stype.Numerical:
		return []StatType{StatMean, StatStd, StatQuantiles}
	case stype.Categorical:
		return []StatType{StatCount}
	default:
		return nil
	}
}
