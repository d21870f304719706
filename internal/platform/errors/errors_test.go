package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeRecordsNotLoaded, "records not loaded")
	wrapped := fmt.Errorf("stage 2: %w", Wrap(CodeRecordsNotLoaded, "other message", nil))

	if !stderrors.Is(wrapped, sentinel) {
		t.Fatal("expected wrapped error to match sentinel by code")
	}
	if stderrors.Is(wrapped, New(CodeNotFound, "missing")) {
		t.Fatal("expected different codes not to match")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"domain error", New(CodeDocumentInvalid, "bad"), CodeDocumentInvalid},
		{"wrapped domain error", fmt.Errorf("load: %w", New(CodeNotFound, "gone")), CodeNotFound},
		{"plain error", stderrors.New("boom"), CodeUnknown},
		{"nil", nil, CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := WrapWithMetadata(CodeStorageFailed, "put projection", map[string]string{"ActorID": "a1"}, cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if err.Metadata["ActorID"] != "a1" {
		t.Fatalf("expected metadata to be kept, got %v", err.Metadata)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeDocumentInvalid, codes.InvalidArgument},
		{CodeActorInvalidKind, codes.InvalidArgument},
		{CodeRecordsNotLoaded, codes.FailedPrecondition},
		{CodeNotFound, codes.NotFound},
		{CodeStorageFailed, codes.Unavailable},
		{CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.code, tt.want, got)
		}
	}
}

func TestGRPCStatusAttachesErrorInfo(t *testing.T) {
	err := fmt.Errorf("load: %w", WithMetadata(CodeActorInvalidKind, "unknown kind", map[string]string{"Kind": "vehicle"}))
	if got := status.Code(err); got != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %s", got)
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatal("expected grpc status")
	}

	var info *errdetails.ErrorInfo
	for _, detail := range st.Details() {
		if v, ok := detail.(*errdetails.ErrorInfo); ok {
			info = v
		}
	}
	if info == nil {
		t.Fatal("expected ErrorInfo detail")
	}
	if info.Reason != string(CodeActorInvalidKind) || info.Domain != Domain {
		t.Fatalf("unexpected error info: %+v", info)
	}
	if info.Metadata["Kind"] != "vehicle" {
		t.Fatalf("expected metadata kind, got %v", info.Metadata)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", stderrors.New("boom"), "boom"},
		{"code only", New(CodeNotFound, "no projection"), "no projection [NOT_FOUND]"},
		{
			"metadata in key order",
			WithMetadata(CodeDocumentReadFail, "read actor document", map[string]string{"Path": "a.yaml", "Format": "yaml"}),
			"read actor document [DOCUMENT_READ_FAILED Format=yaml Path=a.yaml]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
