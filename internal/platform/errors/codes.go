// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Record errors
	CodeMissionCorruptRecord       Code = "MISSION_CORRUPT_RECORD"
	CodeMissionInvariantViolation  Code = "MISSION_INVARIANT_VIOLATION"
	CodeMissionNotFound            Code = "MISSION_NOT_FOUND"
	CodeMissionNotCompleted        Code = "MISSION_NOT_COMPLETED"
	CodeMissionBrokenConfig        Code = "MISSION_BROKEN_CONFIG"
	CodeMissionClaimVetoed         Code = "MISSION_CLAIM_VETOED"
	CodeMissionInvalidTargetShape  Code = "MISSION_INVALID_TARGET_SHAPE"
	CodeMissionRequirementInvalid  Code = "MISSION_REQUIREMENT_INVALID"
	CodeMissionConfigIDEmpty       Code = "MISSION_CONFIG_ID_EMPTY"
	CodeMissionTypeDuplicate       Code = "MISSION_TYPE_DUPLICATE"
	CodeMissionTypeIDEmpty         Code = "MISSION_TYPE_ID_EMPTY"
	CodeMissionRegistryFrozen      Code = "MISSION_REGISTRY_FROZEN"
	CodeMissionTypeUnknown         Code = "MISSION_TYPE_UNKNOWN"
	CodeMissionDefinitionInvalid   Code = "MISSION_DEFINITION_INVALID"
	CodeMissionDefinitionDuplicate Code = "MISSION_DEFINITION_DUPLICATE"
	CodeMissionCategoryUnknown     Code = "MISSION_CATEGORY_UNKNOWN"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeMissionInvariantViolation,
		CodeMissionInvalidTargetShape,
		CodeMissionRequirementInvalid,
		CodeMissionConfigIDEmpty,
		CodeMissionTypeIDEmpty,
		CodeMissionDefinitionInvalid,
		CodeMissionCategoryUnknown:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeMissionNotCompleted,
		CodeMissionBrokenConfig,
		CodeMissionRegistryFrozen:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeMissionNotFound,
		CodeMissionTypeUnknown:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeMissionTypeDuplicate,
		CodeMissionDefinitionDuplicate:
		return codes.AlreadyExists

	// PermissionDenied - an external collaborator rejected the change
	case CodeMissionClaimVetoed:
		return codes.PermissionDenied

	// DataLoss - carrier payload cannot be decoded
	case CodeMissionCorruptRecord:
		return codes.DataLoss

	default:
		return codes.Internal
	}
}
