// Package failure defines the error kinds surfaced by zpdev. Every failure is
// fatal for the invocation; nothing is retried.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the part of the workflow that produced it.
type Kind int

const (
	// Unknown is returned by KindOf for errors not created by this package.
	Unknown Kind = iota
	// Configuration covers invalid settings and mutation after finalize.
	Configuration
	// Resolution covers host build failures, including unreachable sources
	// and unresolvable coordinates.
	Resolution
	// IO covers file copy, directory creation and locking failures.
	IO
	// Launch covers a child process that could not be started.
	Launch
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration error"
	case Resolution:
		return "resolution error"
	case IO:
		return "io error"
	case Launch:
		return "launch error"
	default:
		return "error"
	}
}

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind and operation name.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a classified failure from a format string.
func Newf(kind Kind, op string, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of the outermost failure.Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err carries a failure of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
