package export

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines export error kinds.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindMalformed  ErrorKind = "malformed_row"
	KindWrite      ErrorKind = "write_failed"
	KindTimeout    ErrorKind = "timeout"
	KindCanceled   ErrorKind = "canceled"
	KindInternal   ErrorKind = "internal"
)

// ExportError wraps errors with a kind.
type ExportError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewError creates a new export error.
func NewError(kind ErrorKind, msg string, err error) *ExportError {
	return &ExportError{Kind: kind, Msg: msg, Err: err}
}

// AsGoError maps an error into a go-errors error. The original error is
// wrapped as the source so the ExportError kind stays reachable on the
// chain.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()

	var exportErr *ExportError
	if errors.As(err, &exportErr) && exportErr.Msg != "" {
		msg = exportErr.Msg
	}

	category, code := categoryForKind(kind)
	return errorslib.Wrap(err, category, msg).WithTextCode(code)
}

func categoryForKind(kind ErrorKind) (errorslib.Category, string) {
	switch kind {
	case KindValidation:
		return errorslib.CategoryValidation, "validation"
	case KindNotFound:
		return errorslib.CategoryNotFound, "not_found"
	case KindMalformed:
		return errorslib.CategoryValidation, "malformed_row"
	case KindWrite:
		return errorslib.CategoryOperation, "write_failed"
	case KindTimeout:
		return errorslib.CategoryOperation, "timeout"
	case KindCanceled:
		return errorslib.CategoryOperation, "canceled"
	default:
		return errorslib.CategoryInternal, "internal"
	}
}

// KindFromError maps an error to its export error kind. Errors that have
// already crossed the go-errors boundary are recognized by text code.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		switch kind := ErrorKind(ge.TextCode); kind {
		case KindValidation, KindNotFound, KindMalformed,
			KindWrite, KindTimeout, KindCanceled, KindInternal:
			return kind
		}
	}

	return KindInternal
}
