// Package errvalues defines the error kinds shared by the services and the
// HTTP layer. Services return *Error values; handlers map the Kind to a status.
package errvalues

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindBadRequest           Kind = "bad_request"
	KindUnsupportedFormat    Kind = "unsupported_format"
	KindUnauthorized         Kind = "unauthorized"
	KindForbidden            Kind = "forbidden"
	KindAssetNotFound        Kind = "asset_not_found"
	KindUserNotFound         Kind = "user_not_found"
	KindConflict             Kind = "conflict"
	KindStorageInconsistency Kind = "storage_inconsistency"
	KindUpstreamFailure      Kind = "upstream_failure"
)

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

// Is matches another *Error by kind, so errors.Is(err, ErrForbidden) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Kind sentinels for errors.Is comparisons.
var (
	ErrBadRequest           = New(KindBadRequest, "bad request")
	ErrUnsupportedFormat    = New(KindUnsupportedFormat, "unsupported format")
	ErrUnauthorized         = New(KindUnauthorized, "unauthorized")
	ErrForbidden            = New(KindForbidden, "forbidden")
	ErrAssetNotFound        = New(KindAssetNotFound, "no such asset")
	ErrUserNotFound         = New(KindUserNotFound, "no such user")
	ErrConflict             = New(KindConflict, "conflict")
	ErrStorageInconsistency = New(KindStorageInconsistency, "storage inconsistency")
	ErrUpstreamFailure      = New(KindUpstreamFailure, "upstream failure")
)

// KindOf reports the kind carried by err. Errors that are not *Error are
// treated as upstream failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstreamFailure
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
