// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolkit

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a tool failure. Every operation reports failures through
// one of these kinds; the transports map them to their own conventions.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindUpstream     Kind = "upstream"
	KindUnavailable  Kind = "unavailable"
	KindInternal     Kind = "internal"
)

// HTTPStatus returns the REST status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified tool failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message()
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the error text without the kind prefix.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

// Errorf builds an Error of the given kind. A %w verb in format is honored.
func Errorf(kind Kind, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &Error{Kind: kind, Msg: err.Error(), Err: errors.Unwrap(err)}
}

// Wrap classifies err under kind with a short message. It returns nil for a nil err.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg + ": " + err.Error(), Err: err}
}

// InvalidInput is shorthand for Errorf(KindInvalidInput, ...).
func InvalidInput(format string, args ...any) error {
	return Errorf(KindInvalidInput, format, args...)
}

// NotFound is shorthand for Errorf(KindNotFound, ...).
func NotFound(format string, args ...any) error {
	return Errorf(KindNotFound, format, args...)
}

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindInternal
}
