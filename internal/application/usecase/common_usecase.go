// internal/application/usecase/common_usecase.go
package usecase

import "errors"

// 共通の「未サポート」エラー型とヘルパー
type notSupportedError struct{ op string }

func (e notSupportedError) Error() string {
	return "usecase: operation not supported: " + e.op
}

// ErrNotSupported は未サポート操作を表すエラーを返します。
// 依存（repo / storage）が未配線の usecase から返ります。
func ErrNotSupported(op string) error { return notSupportedError{op: op} }

// IsNotSupported reports whether err (or anything it wraps) came from ErrNotSupported.
func IsNotSupported(err error) bool {
	var ns notSupportedError
	return errors.As(err, &ns)
}
