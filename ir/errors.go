package ir

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed taxonomy of error categories a session run can
// surface, per the error handling design.
type ErrorKind int

const (
	// ShapeInference: an operator received inputs it cannot shape-check.
	ShapeInference ErrorKind = iota
	// UnsupportedOp: the operator is recognized but not implementable on the current path.
	UnsupportedOp
	// InvalidModel: a dangling ValueId, missing initializer, unreachable node, or input/init overlap.
	InvalidModel
	// FeedMismatch: a caller-supplied tensor disagrees with the declared input type/shape.
	FeedMismatch
	// KernelFailure: a numeric kernel reported an internal error.
	KernelFailure
	// BackendUnavailable: the requested acceleration backend is not present.
	BackendUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case ShapeInference:
		return "ShapeInference"
	case UnsupportedOp:
		return "UnsupportedOp"
	case InvalidModel:
		return "InvalidModel"
	case FeedMismatch:
		return "FeedMismatch"
	case KernelFailure:
		return "KernelFailure"
	case BackendUnavailable:
		return "BackendUnavailable"
	default:
		return "Unknown"
	}
}

// Error is the runtime's typed, inspectable error. Op names the operator
// involved when relevant (e.g. KernelFailure); it is empty otherwise.
type Error struct {
	Kind ErrorKind
	Op   string
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.msg)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap exposes any wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.err }

// Newf builds an Error of the given kind with a formatted message.
func Newf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, msg: err.Error(), err: err}
}

// Is reports whether err wraps an *Error of the given kind.
func Is(err error, kind ErrorKind) bool {
	var e *Error

	return errors.As(err, &e) && e.Kind == kind
}
