// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// データセットのマテリアライズ処理で発生するエラーを構造化された型として表現します。
package errors

import (
	"fmt"
	"log"
	"strings"
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
		log.Printf("tabframe-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、DataConversionWarningなどのカスタム警告の処理方法を制御できます。
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
// nilを渡すと従来のハンドラに戻ります。
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

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// DataConversionWarning はデータの型が暗黙的に変換された場合に発生する警告です。
type DataConversionWarning struct {
	Column   string
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	if w.Column != "" {
		return fmt.Sprintf("column '%s': data converted from %s to %s. Reason: %s", w.Column, w.FromType, w.ToType, w.Reason)
	}
	return fmt.Sprintf("data converted from %s to %s. Reason: %s", w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning は新しいDataConversionWarningを作成します。
func NewDataConversionWarning(column, from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{Column: column, FromType: from, ToType: to, Reason: reason}
}

// ===========================================================================
//
//	マテリアライズ関連のエラー型
//
// ===========================================================================

// MissingColumnError は型マッピングまたはターゲットで指定された列がテーブルに存在しない場合のエラーです。
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("'%s'", c)
	}
	return fmt.Sprintf("tabframe: the column(s) %s are specified but missing in the table", strings.Join(quoted, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Strs("columns", e.Columns).
		Str("type", "MissingColumnError")
}

// NewMissingColumnError は新しいMissingColumnErrorを作成し、スタックトレースを付与します。
func NewMissingColumnError(columns ...string) error {
	err := &MissingColumnError{Columns: append([]string(nil), columns...)}
	return errors.WithStack(err)
}

// AlreadyMaterializedError はマテリアライズ後に変更系の操作を呼び出した場合のエラーです。
type AlreadyMaterializedError struct {
	Op string
}

func (e *AlreadyMaterializedError) Error() string {
	return fmt.Sprintf("tabframe: dataset cannot be modified via '%s' post materialization", e.Op)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *AlreadyMaterializedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("type", "AlreadyMaterializedError")
}

// NewAlreadyMaterializedError は新しいAlreadyMaterializedErrorを作成し、スタックトレースを付与します。
func NewAlreadyMaterializedError(op string) error {
	return errors.WithStack(&AlreadyMaterializedError{Op: op})
}

// NotMaterializedError はマテリアライズ前にテンソルを必要とする操作を呼び出した場合のエラーです。
type NotMaterializedError struct {
	Op string
}

func (e *NotMaterializedError) Error() string {
	return fmt.Sprintf("tabframe: '%s' requires a materialized dataset. Call Materialize() first", e.Op)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotMaterializedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("type", "NotMaterializedError")
}

// NewNotMaterializedError は新しいNotMaterializedErrorを作成し、スタックトレースを付与します。
func NewNotMaterializedError(op string) error {
	return errors.WithStack(&NotMaterializedError{Op: op})
}

// UnsupportedSemanticTypeError はセマンティック型に対応する統計計算器やテンソルマッパーが
// 登録されていない場合のエラーです。
type UnsupportedSemanticTypeError struct {
	Type      string
	Component string // "statistics calculator" または "tensor mapper"
}

func (e *UnsupportedSemanticTypeError) Error() string {
	return fmt.Sprintf("tabframe: unable to process the semantic type '%s': no %s registered", e.Type, e.Component)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnsupportedSemanticTypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("stype", e.Type).
		Str("component", e.Component).
		Str("type", "UnsupportedSemanticTypeError")
}

// NewUnsupportedSemanticTypeError は新しいUnsupportedSemanticTypeErrorを作成し、スタックトレースを付与します。
func NewUnsupportedSemanticTypeError(stype, component string) error {
	return errors.WithStack(&UnsupportedSemanticTypeError{Type: stype, Component: component})
}

// MaterializationError は特定の列のマテリアライズに失敗した場合のエラーです。
// 元のエラーをラップし、どの列で失敗したかを示します。
type MaterializationError struct {
	Column string
	Type   string
	Err    error
}

func (e *MaterializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tabframe: materialize column '%s' (%s): %v", e.Column, e.Type, e.Err)
	}
	return fmt.Sprintf("tabframe: materialize column '%s' (%s)", e.Column, e.Type)
}

func (e *MaterializationError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MaterializationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Str("stype", e.Type).
		AnErr("cause", e.Err).
		Str("type", "MaterializationError")
}

// NewMaterializationError は新しいMaterializationErrorを作成し、スタックトレースを付与します。
func NewMaterializationError(column, stype string, err error) error {
	return errors.WithStack(&MaterializationError{Column: column, Type: stype, Err: err})
}

// IndexError は行インデックスが範囲外の場合のエラーです。
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("tabframe: index %d is out of bounds for %d rows", e.Index, e.Size)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IndexError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("index", e.Index).
		Int("size", e.Size).
		Str("type", "IndexError")
}

// NewIndexError は新しいIndexErrorを作成し、スタックトレースを付与します。
func NewIndexError(index, size int) error {
	return errors.WithStack(&IndexError{Index: index, Size: size})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("tabframe: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
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
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// `ValueError`よりも具体的なバリデーションロジックの失敗を示します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tabframe: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、数値列に数値へ変換できない文字列が含まれている場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("tabframe: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
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
	// ErrChecksumMismatch は保存されたデータのチェックサムが一致しない場合のエラーです。
	ErrChecksumMismatch = New("checksum mismatch")

	// ErrUnknownFormat は読み込んだデータの形式が認識できない場合のエラーです。
	ErrUnknownFormat = New("unknown format")
)
