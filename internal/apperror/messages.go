package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeServiceTimeout:     "Service request timeout",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeRateLimitExceeded:  "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Operation authorization
	CodeCallerMissing: "No caller principal on the request context",

	// Ledger persistence
	CodeSnapshotSaveFailed: "Failed to persist pool snapshot",
	CodeSnapshotLoadFailed: "Failed to load pool snapshot",
	CodeSnapshotCorrupted:  "Pool snapshot is corrupted",

	// Event feed
	CodeFeedConnectionError: "Event feed connection error",
	CodeFeedSendError:       "Failed to send event feed message",
	CodeFeedClosed:          "Event feed connection closed",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
