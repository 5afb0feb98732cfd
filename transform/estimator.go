package transform

import "gonum.org/v1/gonum/mat"

// EstimatorState はスケーラーの学習状態を表す
type EstimatorState int

const (
	// NotFitted はスケーラーが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はスケーラーが学習済みの状態
	Fitted
)

// BaseEstimator は全てのスケーラーの基底となる構造体
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はスケーラーが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はスケーラーを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はスケーラーを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Scaler は逆変換可能なデータ変換のインターフェース。
// InverseTransformは同じ学習済み状態を使って変換を正確に元に戻す。
type Scaler interface {
	Transformer

	// InverseTransform は変換されたデータを元のスケールに戻す
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}
