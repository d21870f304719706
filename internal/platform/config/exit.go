package config

import (
	"fmt"
	"os"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
)

// Process exit statuses returned by voidsheet commands.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitNotFound     = 3
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(ExitFailure)
}

// ExitErr writes err to stderr and exits with ExitCode(err).
func ExitErr(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", apperrors.Describe(err))
	os.Exit(ExitCode(err))
}

// ExitCode maps the gRPC code of a domain error to an exit status so scripts
// can tell a bad document from a missing projection.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch status.Code(err) {
	case codes.InvalidArgument:
		return ExitInvalidInput
	case codes.NotFound:
		return ExitNotFound
	default:
		return ExitFailure
	}
}
