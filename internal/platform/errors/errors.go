package errors

import (
	stderrors "errors"
	"maps"
	"slices"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain scopes ErrorInfo reasons to the sheet services.
const Domain = "voidsheet.sheet"

// Error is a coded failure raised where a sheet crosses a boundary: reading a
// document, the Stage 2 precondition, the projection store or a scenario run.
// Resolvers never produce one; they degrade to diagnostics instead.
type Error struct {
	Code     Code
	Message  string            // shown to users and tool callers
	Metadata map[string]string // path, actor id, target and similar context
	Cause    error
}

// Error returns the message only; the cause stays reachable via Unwrap.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so package-level sentinels
// such as pipeline.ErrRecordsNotLoaded work with errors.Is.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var target *Error
	if stderrors.As(err, &target) {
		return target.Code
	}
	return CodeUnknown
}

// Describe renders err for a terminal or a tool result: the message, then the
// code and metadata in key order when err carries a domain error.
func Describe(err error) string {
	var target *Error
	if !stderrors.As(err, &target) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(err.Error())
	b.WriteString(" [")
	b.WriteString(string(target.Code))
	for _, key := range slices.Sorted(maps.Keys(target.Metadata)) {
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(target.Metadata[key])
	}
	b.WriteString("]")
	return b.String()
}

// GRPCStatus lets status.Code and status.FromError read a domain error
// anywhere in a wrapped chain. The code and metadata travel as ErrorInfo.
func (e *Error) GRPCStatus() *status.Status {
	st := status.New(e.Code.GRPCCode(), e.Message)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   string(e.Code),
		Domain:   Domain,
		Metadata: e.Metadata,
	})
	if err != nil {
		return st
	}
	return detailed
}
