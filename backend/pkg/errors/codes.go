package errors

// ErrorCode represents specific error codes for better debugging.
type ErrorCode string

const (
	// Encounter lifecycle.
	ErrCodeEncounterNotFound   ErrorCode = "ENC001"
	ErrCodeEncounterEnded      ErrorCode = "ENC002"
	ErrCodeNotParticipant      ErrorCode = "ENC003"
	ErrCodeNotCurrentTurn      ErrorCode = "ENC004"

	// Action resolution.
	ErrCodeUnknownAction        ErrorCode = "ACT001"
	ErrCodeActionUnaffordable   ErrorCode = "ACT002"
	ErrCodeActionOnCooldown     ErrorCode = "ACT003"
	ErrCodeInvalidTarget        ErrorCode = "ACT004"
	ErrCodeTargetOutOfRange     ErrorCode = "ACT005"

	// Resources.
	ErrCodeResourceNotFound    ErrorCode = "RES001"
	ErrCodeInsufficientUses    ErrorCode = "RES002"

	// Decisions (spec.md §4.12's prompt/decision validation).
	ErrCodePromptMismatch   ErrorCode = "DEC001"
	ErrCodeFieldMismatch    ErrorCode = "DEC002"

	// Validation.
	ErrCodeValidationFailed ErrorCode = "VAL001"
	ErrCodeInvalidInput     ErrorCode = "VAL002"
	ErrCodeMissingRequired  ErrorCode = "VAL003"
	ErrCodeInvalidFormat    ErrorCode = "VAL004"
	ErrCodeOutOfRange       ErrorCode = "VAL005"

	// Registry (spec.md §4.12's content registry).
	ErrCodeDuplicateContentID ErrorCode = "REG001"

	// General.
	ErrCodeInternalError      ErrorCode = "INT001"
	ErrCodeServiceUnavailable ErrorCode = "INT002"
	ErrCodeTimeout            ErrorCode = "INT003"
	ErrCodeRateLimitExceeded  ErrorCode = "INT004"
)

// ErrorCodeMessages provides human-readable descriptions for error codes.
var ErrorCodeMessages = map[ErrorCode]string{
	// Encounter lifecycle.
	ErrCodeEncounterNotFound: "Encounter not found",
	ErrCodeEncounterEnded:    "Encounter has already ended",
	ErrCodeNotParticipant:    "Entity is not a participant in this encounter",
	ErrCodeNotCurrentTurn:    "It is not this entity's turn",

	// Action resolution.
	ErrCodeUnknownAction:      "Unknown action id",
	ErrCodeActionUnaffordable: "Insufficient resources to perform this action",
	ErrCodeActionOnCooldown:   "Action is still on cooldown",
	ErrCodeInvalidTarget:      "Invalid target",
	ErrCodeTargetOutOfRange:   "Target out of range",

	// Resources.
	ErrCodeResourceNotFound: "Resource not found",
	ErrCodeInsufficientUses: "Resource has no uses remaining",

	// Decisions.
	ErrCodePromptMismatch: "Decision does not answer the pending prompt",
	ErrCodeFieldMismatch:  "Decision field does not match the prompt",

	// Validation.
	ErrCodeValidationFailed: "Validation failed",
	ErrCodeInvalidInput:     "Invalid input provided",
	ErrCodeMissingRequired:  "Missing required field",
	ErrCodeInvalidFormat:    "Invalid format",
	ErrCodeOutOfRange:       "Value out of allowed range",

	// Registry.
	ErrCodeDuplicateContentID: "Duplicate content id",

	// General.
	ErrCodeInternalError:      "Internal server error",
	ErrCodeServiceUnavailable: "Service temporarily unavailable",
	ErrCodeTimeout:            "Request timeout",
	ErrCodeRateLimitExceeded:  "Rate limit exceeded",
}

// GetErrorMessage returns the message for an error code.
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := ErrorCodeMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
