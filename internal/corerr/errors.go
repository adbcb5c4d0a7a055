// Package corerr defines the fixed vocabulary of error kinds the core
// control-plane returns, so the command dispatcher can map any failure to a
// v1 "ERROR:" line or a v2 {code, message} without per-call-site string
// matching.
package corerr

import (
	"errors"
	"fmt"
)

// Kind is one of the error tags named in spec §7.
type Kind string

const (
	InvalidHandle       Kind = "invalid_handle"
	NotFound            Kind = "not_found"
	ConstraintViolation Kind = "constraint_violation"
	NotSupported        Kind = "not_supported"
	Timeout             Kind = "timeout"
	PermissionDenied    Kind = "permission_denied"
	IOError             Kind = "io_error"
	ParseError          Kind = "parse_error"
	MissingPosition     Kind = "missing_position"
	UnknownMethod       Kind = "unknown_method"
	InvalidArgument     Kind = "invalid_argument"
)

// coreError wraps a Kind with a message and an optional cause.
type coreError struct {
	kind  Kind
	msg   string
	cause error
}

func (e *coreError) Error() string {
	if e.msg == "" {
		return string(e.kind)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *coreError) Unwrap() error { return e.cause }

// New creates an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &coreError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping cause.
func Wrap(kind Kind, cause error, format string, args ...any) error {
	return &coreError{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf returns the Kind carried by err, or "" if err does not carry one.
func KindOf(err error) Kind {
	var ce *coreError
	if errors.As(err, &ce) {
		return ce.kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
