// Package errors provides coded errors for the simulation core and the
// player-facing reasons attached to failed operations.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Resource errors
	CodeInsufficientComputing Code = "RESOURCE_INSUFFICIENT_COMPUTING"
	CodeInsufficientFunding   Code = "RESOURCE_INSUFFICIENT_FUNDING"
	CodeInsufficientInfluence Code = "RESOURCE_INSUFFICIENT_INFLUENCE"
	CodeMissingDataAccess     Code = "RESOURCE_MISSING_DATA_ACCESS"
	CodeInsufficientData      Code = "RESOURCE_INSUFFICIENT_DATA"
	CodeInvalidAmount         Code = "RESOURCE_INVALID_AMOUNT"
	CodeNothingAllocated      Code = "RESOURCE_NOTHING_ALLOCATED"
	CodeInvalidTarget         Code = "RESOURCE_INVALID_TARGET"

	// Research errors
	CodeResearchUnknown      Code = "RESEARCH_UNKNOWN"
	CodeResearchLocked       Code = "RESEARCH_LOCKED"
	CodeResearchNotAvailable Code = "RESEARCH_NOT_AVAILABLE"
	CodeResearchNotCompleted Code = "RESEARCH_NOT_COMPLETED"

	// Deployment errors
	CodeNoDeploymentSlots  Code = "DEPLOYMENT_NO_SLOTS"
	CodeDeploymentNotFound Code = "DEPLOYMENT_NOT_FOUND"

	// Event errors
	CodeEventNotFound  Code = "EVENT_NOT_FOUND"
	CodeChoiceNotFound Code = "EVENT_CHOICE_NOT_FOUND"

	// Save/load errors
	CodeSaveNameEmpty          Code = "SAVE_NAME_EMPTY"
	CodeSaveNotFound           Code = "SAVE_NOT_FOUND"
	CodeSaveCorrupt            Code = "SAVE_CORRUPT"
	CodeStorageUnavailable     Code = "STORAGE_UNAVAILABLE"
	CodeStorageNotConfigured   Code = "STORAGE_NOT_CONFIGURED"
	CodeUnsupportedSaveBackend Code = "STORAGE_UNSUPPORTED_BACKEND"
)

// Kind groups codes by how callers react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindPrecondition
	KindNotFound
	KindUnavailable
)

// Kind classifies c.
func (c Code) Kind() Kind {
	switch c {
	case CodeInvalidAmount,
		CodeInvalidTarget,
		CodeSaveNameEmpty,
		CodeResearchUnknown,
		CodeUnsupportedSaveBackend:
		return KindValidation

	case CodeInsufficientComputing,
		CodeInsufficientFunding,
		CodeInsufficientInfluence,
		CodeMissingDataAccess,
		CodeInsufficientData,
		CodeNothingAllocated,
		CodeResearchLocked,
		CodeResearchNotAvailable,
		CodeResearchNotCompleted,
		CodeNoDeploymentSlots:
		return KindPrecondition

	case CodeSaveNotFound,
		CodeDeploymentNotFound,
		CodeEventNotFound,
		CodeChoiceNotFound:
		return KindNotFound

	case CodeStorageUnavailable,
		CodeStorageNotConfigured:
		return KindUnavailable

	default:
		return KindInternal
	}
}
