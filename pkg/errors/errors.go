// Package errors はプロジェクト全体のエラーハンドリングを提供します。
// 変換エンジンと探索空間ビルダーで検出される契約違反を構造化されたエラー型として表現し、
// cockroachdb/errorsによるスタックトレースとzerologによる構造化ログ出力に対応します。
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	変換エンジンのエラー型
//
// ===========================================================================

// InputKindError はデータコンテナが配列・リスト・マッピングのいずれでもない場合のエラーです。
type InputKindError struct {
	Op   string
	Kind string
}

func (e *InputKindError) Error() string {
	return fmt.Sprintf("hydroml: %s: invalid input container kind %q. Expected a single tensor, an ordered list or a named mapping", e.Op, e.Kind)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InputKindError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("kind", e.Kind).
		Str("type", "InputKindError")
}

// NewInputKindError は新しいInputKindErrorを作成し、スタックトレースを付与します。
func NewInputKindError(op, kind string) error {
	err := &InputKindError{Op: op, Kind: kind}
	return errors.WithStack(err)
}

// FeatureSpecError は特徴量名やコンフィグの構造がデータコンテナの構造と一致しない場合のエラーです。
type FeatureSpecError struct {
	Op     string
	Reason string
}

func (e *FeatureSpecError) Error() string {
	return fmt.Sprintf("hydroml: %s: invalid feature specification: %s", e.Op, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FeatureSpecError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "FeatureSpecError")
}

// NewFeatureSpecError は新しいFeatureSpecErrorを作成し、スタックトレースを付与します。
func NewFeatureSpecError(op, format string, args ...interface{}) error {
	err := &FeatureSpecError{Op: op, Reason: fmt.Sprintf(format, args...)}
	return errors.WithStack(err)
}

// MissingScalerKeyError は逆変換時に、対応する順変換で登録されていないキーを参照した場合のエラーです。
// 黙って逆変換をスキップすると誤ったスケールのデータが返るため、必ず呼び出し元まで伝播します。
type MissingScalerKeyError struct {
	Key       string
	Available []string
}

func (e *MissingScalerKeyError) Error() string {
	return fmt.Sprintf("hydroml: scaler key %q for inverse transformation not found. Available keys are [%s]",
		e.Key, strings.Join(e.Available, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingScalerKeyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("key", e.Key).
		Strs("available_keys", e.Available).
		Str("type", "MissingScalerKeyError")
}

// NewMissingScalerKeyError は新しいMissingScalerKeyErrorを作成し、スタックトレースを付与します。
func NewMissingScalerKeyError(key string, available []string) error {
	err := &MissingScalerKeyError{Key: key, Available: available}
	return errors.WithStack(err)
}

// ShapeMismatchError はテーブルと記録済み形状の次元差が1を超える場合のエラーです。
// 2次元以上の差は自動解決できないため即座に失敗します。
type ShapeMismatchError struct {
	Op       string
	Recorded []int
	Got      []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("hydroml: %s: shape mismatch. Recorded shape %v and data shape %v differ by more than one dimension", e.Op, e.Recorded, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Ints("recorded_shape", e.Recorded).
		Ints("got_shape", e.Got).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError は新しいShapeMismatchErrorを作成し、スタックトレースを付与します。
func NewShapeMismatchError(op string, recorded, got []int) error {
	err := &ShapeMismatchError{Op: op, Recorded: recorded, Got: got}
	return errors.WithStack(err)
}

// InvalidFeatureError は探索空間のinclude/exclude/appendが未知または不正な特徴量を参照した場合のエラーです。
type InvalidFeatureError struct {
	Op      string
	Feature string
	Reason  string
}

func (e *InvalidFeatureError) Error() string {
	return fmt.Sprintf("hydroml: %s: invalid feature %q: %s", e.Op, e.Feature, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidFeatureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("feature", e.Feature).
		Str("reason", e.Reason).
		Str("type", "InvalidFeatureError")
}

// NewInvalidFeatureError は新しいInvalidFeatureErrorを作成し、スタックトレースを付与します。
func NewInvalidFeatureError(op, feature, reason string) error {
	err := &InvalidFeatureError{Op: op, Feature: feature, Reason: reason}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	スケーラー共通のエラー型
//
// ===========================================================================

// NotFittedError はスケーラーが未学習の状態で `Transform` や `InverseTransform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("hydroml: %s: this scaler is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("hydroml: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、未知の変換メソッド名を指定した場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("hydroml: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は変換処理に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hydroml: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("hydroml: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
