package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/specialistvlad/zpdev/internal/launcher"
)

// Version is reported by --version. It is set at build time via -ldflags.
var Version = "dev"

// Exit codes for failures that are not a child process's own status.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks bad flags or arguments.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// Execute runs the zpdev command line. Normal output goes to outW, logs and
// help for errors to errW. Every error returned is an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := newRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return toExitError(err)
	}
	return nil
}

// toExitError maps an error to the process exit code: a launched process's
// own status, 2 for usage and configuration problems, 1 for the rest.
func toExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var status *launcher.ExitStatus
	if errors.As(err, &status) {
		return &ExitError{Code: status.Code, Message: fmt.Sprintf("zenithproxy %s", status)}
	}

	var usage *usageError
	if errors.As(err, &usage) || failure.Is(err, failure.Configuration) {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}
