package transform

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/hydroml/hydroml/pkg/errors"
)

// 変換メソッド名。探索空間のカテゴリ候補としても使う。
const (
	// MethodNone は変換なしを表す
	MethodNone = "none"
	// MethodMinMax はMin-Maxスケーリング
	MethodMinMax = "minmax"
	// MethodZScore は標準化（平均0、標準偏差1）
	MethodZScore = "zscore"
	// MethodCenter は平均の減算のみ
	MethodCenter = "center"
	// MethodRobust は中央値と四分位範囲によるスケーリング
	MethodRobust = "robust"
	// MethodLog は自然対数変換
	MethodLog = "log"
	// MethodLog2 は底2の対数変換
	MethodLog2 = "log2"
	// MethodLog10 は底10の対数変換
	MethodLog10 = "log10"
	// MethodSqrt は平方根変換
	MethodSqrt = "sqrt"
	// MethodPower はべき乗変換
	MethodPower = "power"
)

// DefaultCategories は探索空間のデフォルト候補である全メソッド名を返す。
// 先頭の "none" は変換を適用しないことを意味する。
func DefaultCategories() []string {
	return []string{
		MethodNone,
		MethodMinMax,
		MethodZScore,
		MethodCenter,
		MethodRobust,
		MethodLog,
		MethodLog2,
		MethodLog10,
		MethodSqrt,
		MethodPower,
	}
}

// NewMethodScaler はメソッド名から未学習のスケーラーを作成する
//
// パラメータ:
//   - method: 変換メソッド名（MethodMinMaxなど）
//
// 戻り値:
//   - Scaler: 未学習のスケーラー
//   - error: メソッド名が未知の場合
func NewMethodScaler(method string) (Scaler, error) {
	switch method {
	case MethodMinMax:
		return NewMinMaxScalerDefault(), nil
	case MethodZScore:
		return NewStandardScaler(true, true), nil
	case MethodCenter:
		return NewStandardScaler(true, false), nil
	case MethodRobust:
		return NewRobustScaler(), nil
	case MethodLog:
		return NewLogScaler(math.E), nil
	case MethodLog2:
		return NewLogScaler(2), nil
	case MethodLog10:
		return NewLogScaler(10), nil
	case MethodSqrt:
		return NewSqrtScaler(), nil
	case MethodPower:
		return NewPowerScaler(2), nil
	default:
		return nil, errors.NewValueError("NewMethodScaler", fmt.Sprintf("unknown transformation method %q", method))
	}
}

// StandardScaler はデータを平均0、標準偏差1に変換するスケーラー
type StandardScaler struct {
	BaseEstimator

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// WithMean は平均を引くかどうか
	WithMean bool

	// WithStd は標準偏差で割るかどうか
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// パラメータ:
//   - withMean: 平均を引くかどうか
//   - withStd: 標準偏差で割るかどうか
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	if s.WithMean {
		for j := 0; j < c; j++ {
			sum := 0.0
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			s.Mean[j] = sum / float64(r)
		}
	}

	if s.WithStd {
		for j := 0; j < c; j++ {
			sumSquares := 0.0
			for i := 0; i < r; i++ {
				diff := X.At(i, j) - s.Mean[j]
				sumSquares += diff * diff
			}
			variance := sumSquares / float64(r)
			s.Scale[j] = math.Sqrt(variance)

			// 標準偏差が0に近い場合は1に設定（ゼロ除算を避ける）
			if math.Abs(s.Scale[j]) < 1e-8 {
				s.Scale[j] = 1.0
			}
		}
	} else {
		for j := 0; j < c; j++ {
			s.Scale[j] = 1.0
		}
	}

	s.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}

	return result, nil
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// MinMaxScaler はデータを指定した範囲（デフォルト[0,1]）にスケーリングするスケーラー
type MinMaxScaler struct {
	BaseEstimator

	// Scale は各特徴量のスケール (max - min)
	Scale []float64

	// DataMin は学習データの最小値
	DataMin []float64

	// DataMax は学習データの最大値
	DataMax []float64

	// NFeatures は特徴量の数
	NFeatures int

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
//
// パラメータ:
//   - featureRange: スケーリング後の範囲 [min, max]
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault はデフォルト設定([0,1]範囲)でMinMaxScalerを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// Fit は訓練データから最小値・最大値を計算する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	m.NFeatures = c
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		minVal := X.At(0, j)
		maxVal := X.At(0, j)

		for i := 1; i < r; i++ {
			val := X.At(i, j)
			if val < minVal {
				minVal = val
			}
			if val > maxVal {
				maxVal = val
			}
		}

		m.DataMin[j] = minVal
		m.DataMax[j] = maxVal

		dataRange := maxVal - minVal
		if math.Abs(dataRange) < 1e-8 {
			// 定数特徴量の場合、スケールを1に設定
			m.Scale[j] = 1.0
		} else {
			m.Scale[j] = dataRange
		}
	}

	m.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータをスケーリングする
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			val := X.At(i, j)
			scaled := (val-m.DataMin[j])/m.Scale[j]*featureRange + m.FeatureRange[0]
			result.Set(i, j, scaled)
		}
	}

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元の範囲に戻す
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			val := X.At(i, j)
			original := (val-m.FeatureRange[0])/featureRange*m.Scale[j] + m.DataMin[j]
			result.Set(i, j, original)
		}
	}

	return result, nil
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}

// RobustScaler は中央値と四分位範囲（IQR）でスケーリングするスケーラー。
// 外れ値の影響を受けにくい。
type RobustScaler struct {
	BaseEstimator

	// Center は各特徴量の中央値
	Center []float64

	// Scale は各特徴量の四分位範囲 (Q3 - Q1)
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int
}

// NewRobustScaler は新しいRobustScalerを作成する
func NewRobustScaler() *RobustScaler {
	return &RobustScaler{}
}

// Fit は訓練データから中央値と四分位範囲を計算する
func (rs *RobustScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("RobustScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	rs.NFeatures = c
	rs.Center = make([]float64, c)
	rs.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = X.At(i, j)
		}
		sort.Float64s(col)

		rs.Center[j] = stat.Quantile(0.5, stat.Empirical, col, nil)
		q1 := stat.Quantile(0.25, stat.Empirical, col, nil)
		q3 := stat.Quantile(0.75, stat.Empirical, col, nil)

		iqr := q3 - q1
		if math.Abs(iqr) < 1e-8 {
			// 四分位範囲が0の場合、スケールを1に設定
			iqr = 1.0
		}
		rs.Scale[j] = iqr
	}

	rs.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータをスケーリングする
func (rs *RobustScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !rs.IsFitted() {
		return nil, errors.NewNotFittedError("RobustScaler", "Transform")
	}

	r, c := X.Dims()
	if c != rs.NFeatures {
		return nil, errors.NewDimensionError("RobustScaler.Transform", rs.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-rs.Center[j])/rs.Scale[j])
		}
	}

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (rs *RobustScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := rs.Fit(X); err != nil {
		return nil, err
	}
	return rs.Transform(X)
}

// InverseTransform はスケーリングされたデータを元のスケールに戻す
func (rs *RobustScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !rs.IsFitted() {
		return nil, errors.NewNotFittedError("RobustScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != rs.NFeatures {
		return nil, errors.NewDimensionError("RobustScaler.InverseTransform", rs.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*rs.Scale[j]+rs.Center[j])
		}
	}

	return result, nil
}

// String はスケーラーの文字列表現を返す
func (rs *RobustScaler) String() string {
	if !rs.IsFitted() {
		return "RobustScaler()"
	}
	return fmt.Sprintf("RobustScaler(n_features=%d)", rs.NFeatures)
}

// LogScaler は対数変換を行うスケーラー。
// 入力は正の値であることを前提とする。負や0を含むデータは
// SpecのTreatNegatives/ReplaceZerosオプションで前処理する。
type LogScaler struct {
	BaseEstimator

	// Base は対数の底
	Base float64

	// NFeatures は特徴量の数
	NFeatures int
}

// NewLogScaler は指定した底のLogScalerを作成する
func NewLogScaler(base float64) *LogScaler {
	return &LogScaler{Base: base}
}

// Fit は特徴量数を記録する
func (l *LogScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LogScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	l.NFeatures = c
	l.SetFitted()
	return nil
}

// Transform は各要素に対数変換を適用する
func (l *LogScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !l.IsFitted() {
		return nil, errors.NewNotFittedError("LogScaler", "Transform")
	}

	r, c := X.Dims()
	if c != l.NFeatures {
		return nil, errors.NewDimensionError("LogScaler.Transform", l.NFeatures, c, 1)
	}

	logBase := math.Log(l.Base)
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, math.Log(X.At(i, j))/logBase)
		}
	}

	return result, nil
}

// FitTransform はFitとTransformを同時に実行する
func (l *LogScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := l.Fit(X); err != nil {
		return nil, err
	}
	return l.Transform(X)
}

// InverseTransform は対数変換を指数関数で元に戻す
func (l *LogScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !l.IsFitted() {
		return nil, errors.NewNotFittedError("LogScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != l.NFeatures {
		return nil, errors.NewDimensionError("LogScaler.InverseTransform", l.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, math.Pow(l.Base, X.At(i, j)))
		}
	}

	return result, nil
}

// String はスケーラーの文字列表現を返す
func (l *LogScaler) String() string {
	return fmt.Sprintf("LogScaler(base=%g)", l.Base)
}

// SqrtScaler は平方根変換を行うスケーラー
type SqrtScaler struct {
	BaseEstimator

	// NFeatures は特徴量の数
	NFeatures int
}

// NewSqrtScaler は新しいSqrtScalerを作成する
func NewSqrtScaler() *SqrtScaler {
	return &SqrtScaler{}
}

// Fit は特徴量数を記録する
func (s *SqrtScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("SqrtScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	s.NFeatures = c
	s.SetFitted()
	return nil
}

// Transform は各要素の平方根を取る
func (s *SqrtScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SqrtScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("SqrtScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, math.Sqrt(X.At(i, j)))
		}
	}

	return result, nil
}

// FitTransform はFitとTransformを同時に実行する
func (s *SqrtScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は平方根変換を二乗で元に戻す
func (s *SqrtScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SqrtScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("SqrtScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			result.Set(i, j, v*v)
		}
	}

	return result, nil
}

// String はスケーラーの文字列表現を返す
func (s *SqrtScaler) String() string {
	return "SqrtScaler()"
}

// PowerScaler はべき乗変換を行うスケーラー
type PowerScaler struct {
	BaseEstimator

	// Exponent はべき指数
	Exponent float64

	// NFeatures は特徴量の数
	NFeatures int
}

// NewPowerScaler は指定した指数のPowerScalerを作成する
func NewPowerScaler(exponent float64) *PowerScaler {
	return &PowerScaler{Exponent: exponent}
}

// Fit は特徴量数を記録する
func (p *PowerScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PowerScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if p.Exponent == 0 {
		return errors.NewValueError("PowerScaler.Fit", "exponent must be non-zero")
	}
	p.NFeatures = c
	p.SetFitted()
	return nil
}

// Transform は各要素をExponent乗する
func (p *PowerScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PowerScaler", "Transform")
	}

	r, c := X.Dims()
	if c != p.NFeatures {
		return nil, errors.NewDimensionError("PowerScaler.Transform", p.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, math.Pow(X.At(i, j), p.Exponent))
		}
	}

	return result, nil
}

// FitTransform はFitとTransformを同時に実行する
func (p *PowerScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// InverseTransform はべき乗変換を逆数乗で元に戻す
func (p *PowerScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PowerScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != p.NFeatures {
		return nil, errors.NewDimensionError("PowerScaler.InverseTransform", p.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, math.Pow(X.At(i, j), 1/p.Exponent))
		}
	}

	return result, nil
}

// String はスケーラーの文字列表現を返す
func (p *PowerScaler) String() string {
	return fmt.Sprintf("PowerScaler(exponent=%g)", p.Exponent)
}
