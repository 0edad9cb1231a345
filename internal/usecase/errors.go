package usecase

import (
	"errors"
	"fmt"
)

// エラーの種類。HTTPステータスへの変換は handler で1回だけ行う。
type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindNotFound
	KindInsufficientStock
	KindUnauthorized
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindConflict:
		return "CONFLICT"
	default:
		return "STORAGE_FAILURE"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// DB障害など。原因は残すがクライアントには見せない
func storageError(err error) error {
	return &Error{Kind: KindStorage, Message: "db error", Err: err}
}

func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// 種類の分からないエラーは StorageFailure 扱い
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindStorage
}
