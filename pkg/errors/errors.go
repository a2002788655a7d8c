// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 最尤推定の失敗モード（設定不正・非収束・非正定値・次元不一致）を
// 構造化されたエラー型として表現します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("mlefit-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、ConvergenceWarningなどのカスタム警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は数値計算が信頼できない領域に入った場合に発生する警告です。
// 致命的ではないが結果の解釈に注意が必要な状況を表します。
type ConvergenceWarning struct {
	Operation string
	Message   string
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s: %s", w.Operation, w.Message)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Operation).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(operation, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Operation: operation, Message: message}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// ConfigurationError は設定値（スケールポリシーなど）が認識できない場合のエラーです。
type ConfigurationError struct {
	Param string
	Value interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("mlefit: invalid value for '%s': %v. Expected 'default', 'none', or a positive real number", e.Param, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError は新しいConfigurationErrorを作成し、スタックトレースを付与します。
func NewConfigurationError(param string, value interface{}) error {
	err := &ConfigurationError{Param: param, Value: value}
	return errors.WithStack(err)
}

// ConvergenceError は最適化アルゴリズムが収束条件を満たさずに終了した場合のエラーです。
type ConvergenceError struct {
	Method     string
	Iterations int
	Status     string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("mlefit: %s did not converge after %d iterations (status: %s). Check that the log-likelihood is concave and that the initial value is reasonable",
		e.Method, e.Iterations, e.Status)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConvergenceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("method", e.Method).
		Int("iterations", e.Iterations).
		Str("status", e.Status).
		Str("type", "ConvergenceError")
}

// NewConvergenceError は新しいConvergenceErrorを作成し、スタックトレースを付与します。
func NewConvergenceError(method string, iterations int, status string) error {
	err := &ConvergenceError{Method: method, Iterations: iterations, Status: status}
	return errors.WithStack(err)
}

// NumericalError は行列分解などの数値計算が失敗した場合のエラーです。
// 典型的には、負のヘッセ行列が正定値でない（モードで局所的に凹でない）場合に発生します。
type NumericalError struct {
	Op     string
	Reason string
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("mlefit: %s: %s", e.Op, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "NumericalError")
}

// NewNumericalError は新しいNumericalErrorを作成し、スタックトレースを付与します。
func NewNumericalError(op, reason string) error {
	err := &NumericalError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// DimensionError は入力の次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("mlefit: %s: dimension mismatch. Expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、信頼区間の裾確率が (0, 0.5) の範囲外の場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("mlefit: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
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
//	数値評価のエラー型
//
// ===========================================================================

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// NaN、Inf、オーバーフロー、アンダーフローなどを検出します。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "loglik(theta0)", "hessian"）
	Values    []float64 // 問題のある値
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("mlefit: non-finite value detected in %s. Values: [%s]", e.Operation, valStr)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
	}
	return errors.WithStack(err)
}
