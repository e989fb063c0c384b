package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// PanicError は拡張ポイント（統計計算器・テンソルマッパー）で発生したパニックを
// エラーとして表現します。
type PanicError struct {
	Operation  string
	PanicValue interface{}
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap はパニック値がerrorの場合にそれを返します。
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String はスタックトレース付きの詳細を返します。
func (e *PanicError) String() string {
	return fmt.Sprintf("%s\nStack trace:\n%s", e.Error(), e.StackTrace)
}

// MarshalZerologObject はzerologのLogObjectMarshalerインターフェースを実装します。
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("error_type", "PanicError").
		Str("operation", e.Operation).
		Str("panic_value", fmt.Sprintf("%v", e.PanicValue))
}

// NewPanicError は現在のゴルーチンのスタックを記録したPanicErrorを作成します。
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		Operation:  operation,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
	}
}

// Recover はパニックをエラーに変換します。名前付き戻り値へのポインタを渡して
// 直接deferしてください。
//
//	func (c *myCalculator) Compute(values []any) (cs stats.ColumnStats, err error) {
//	    defer errors.Recover(&err, "myCalculator.Compute")
//	    ...
//	}
//
// 既にエラーが設定されている場合は、そのエラーをパニック情報でラップします。
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = errors.Wrapf(*err, "panic in %s: %v", operation, r)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute はfnを実行し、パニックをPanicErrorとして返します。
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
