// Package errors provides structured domain errors for the sheet services.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Actor errors
	CodeActorInvalidKind Code = "ACTOR_INVALID_KIND"
	CodeActorEmptyID     Code = "ACTOR_EMPTY_ID"

	// Pipeline errors
	CodeRecordsNotLoaded Code = "PIPELINE_RECORDS_NOT_LOADED"
	CodeProfileMissing   Code = "PIPELINE_PROFILE_MISSING"

	// Document errors
	CodeDocumentInvalid  Code = "DOCUMENT_INVALID"
	CodeDocumentEmpty    Code = "DOCUMENT_EMPTY"
	CodeDocumentReadFail Code = "DOCUMENT_READ_FAILED"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeStorageFailed Code = "STORAGE_FAILED"

	// Scenario errors
	CodeScenarioFailed Code = "SCENARIO_FAILED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - bad input documents
	case CodeActorInvalidKind,
		CodeActorEmptyID,
		CodeDocumentInvalid,
		CodeDocumentEmpty:
		return codes.InvalidArgument

	// FailedPrecondition - pipeline ordering contract
	case CodeRecordsNotLoaded,
		CodeProfileMissing,
		CodeScenarioFailed:
		return codes.FailedPrecondition

	case CodeNotFound:
		return codes.NotFound

	case CodeDocumentReadFail,
		CodeStorageFailed:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
