// Package preprocessing は数値列の正規化を提供する。
// スケーラーは列統計量 (平均・標準偏差・最小値・最大値) から直接構築するか、
// 統計量がない場合は列の値に Fit して使う。テンソルマッパーが materialize 時に使用する。
package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Scaler は1列分の値を変換・逆変換する
type Scaler interface {
	Transform(x []float64) ([]float64, error)
	InverseTransform(x []float64) ([]float64, error)
}

// Fitter は列の値から学習するスケーラー
//
// 統計量から構築されていないスケーラーは、NumericalMapper.Forward が
// 変換前にキャスト済みの列全体で Fit する。
type Fitter interface {
	Fit(x []float64) error
	IsFitted() bool
}

// 標準偏差・範囲がこれより小さい場合は1として扱う（ゼロ除算を避ける）
const minScale = 1e-8

// StandardScaler は1列を平均0、標準偏差1に変換する
type StandardScaler struct {
	// Mean は列の平均値
	Mean float64

	// Scale は列の標準偏差
	Scale float64

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool

	fitted bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// パラメータ:
//   - withMean: 平均を引くかどうか
//   - withStd: 標準偏差で割るかどうか
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(values)
//	scaled, err := scaler.Transform(values)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerFromStats は計算済みの平均・標準偏差から学習済みのスケーラーを作成する
//
// 平均または標準偏差が NaN の場合（観測値のない列）は恒等変換になる。
func NewStandardScalerFromStats(mean, std float64) *StandardScaler {
	s := NewStandardScaler(true, true)
	s.setParams(mean, std)
	return s
}

func (s *StandardScaler) setParams(mean, std float64) {
	s.Mean, s.Scale = 0, 1
	if s.WithMean && !math.IsNaN(mean) {
		s.Mean = mean
	}
	if s.WithStd && !math.IsNaN(std) && math.Abs(std) >= minScale {
		s.Scale = std
	}
	s.fitted = true
}

// Fit は値から平均と母標準偏差を計算する。NaN は欠損値として無視する。
func (s *StandardScaler) Fit(x []float64) error {
	observed := dropNaN(x)
	if len(observed) == 0 {
		return errors.NewValueError("StandardScaler.Fit", "no observed values to fit")
	}
	mean, std := stat.PopMeanStdDev(observed, nil)
	s.setParams(mean, std)
	return nil
}

// IsFitted は学習済みかどうかを返す
func (s *StandardScaler) IsFitted() bool {
	return s.fitted
}

// Transform は学習済みの統計情報を使って値を標準化する。NaN はそのまま残る。
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if !s.fitted {
		return nil, errors.NewValueError("StandardScaler.Transform", "scaler is not fitted")
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean) / s.Scale
	}
	return out, nil
}

// InverseTransform は標準化された値を元のスケールに戻す
func (s *StandardScaler) InverseTransform(x []float64) ([]float64, error) {
	if !s.fitted {
		return nil, errors.NewValueError("StandardScaler.InverseTransform", "scaler is not fitted")
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v*s.Scale + s.Mean
	}
	return out, nil
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.fitted {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(mean=%g, scale=%g)", s.Mean, s.Scale)
}

// MinMaxScaler は1列を指定した範囲（デフォルト[0,1]）にスケーリングする
type MinMaxScaler struct {
	// DataMin は学習データの最小値
	DataMin float64

	// DataRange は学習データの範囲 (max - min)
	DataRange float64

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64

	fitted bool
}

// DefaultFeatureRange はMinMaxScalerのデフォルトのスケーリング範囲
var DefaultFeatureRange = [2]float64{0, 1}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
//
// featureRange[0] < featureRange[1] でない場合は ValidationError を返す。
func NewMinMaxScaler(featureRange [2]float64) (*MinMaxScaler, error) {
	if !(featureRange[0] < featureRange[1]) {
		return nil, errors.NewValidationError("featureRange", "minimum must be less than maximum", featureRange)
	}
	return &MinMaxScaler{FeatureRange: featureRange}, nil
}

// NewMinMaxScalerFromStats は最小値・最大値から学習済みのスケーラーを作成する
func NewMinMaxScalerFromStats(min, max float64, featureRange [2]float64) (*MinMaxScaler, error) {
	m, err := NewMinMaxScaler(featureRange)
	if err != nil {
		return nil, err
	}
	m.setParams(min, max)
	return m, nil
}

func (m *MinMaxScaler) setParams(min, max float64) {
	m.DataMin, m.DataRange = 0, 1
	if !math.IsNaN(min) && !math.IsNaN(max) {
		m.DataMin = min
		// 定数列の場合、範囲を1に設定
		if r := max - min; math.Abs(r) >= minScale {
			m.DataRange = r
		}
	}
	m.fitted = true
}

// Fit は値から最小値・最大値を計算する。NaN は無視する。
func (m *MinMaxScaler) Fit(x []float64) error {
	observed := dropNaN(x)
	if len(observed) == 0 {
		return errors.NewValueError("MinMaxScaler.Fit", "no observed values to fit")
	}
	lo, hi := observed[0], observed[0]
	for _, v := range observed[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	m.setParams(lo, hi)
	return nil
}

// IsFitted は学習済みかどうかを返す
func (m *MinMaxScaler) IsFitted() bool {
	return m.fitted
}

// Transform は値をFeatureRangeにスケーリングする
func (m *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if !m.fitted {
		return nil, errors.NewValueError("MinMaxScaler.Transform", "scaler is not fitted")
	}
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v-m.DataMin)/m.DataRange*featureRange + m.FeatureRange[0]
	}
	return out, nil
}

// InverseTransform はスケーリングされた値を元の範囲に戻す
func (m *MinMaxScaler) InverseTransform(x []float64) ([]float64, error) {
	if !m.fitted {
		return nil, errors.NewValueError("MinMaxScaler.InverseTransform", "scaler is not fitted")
	}
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v-m.FeatureRange[0])/featureRange*m.DataRange + m.DataMin
	}
	return out, nil
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	return fmt.Sprintf("MinMaxScaler(feature_range=[%g, %g])", m.FeatureRange[0], m.FeatureRange[1])
}

func dropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
