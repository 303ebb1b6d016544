package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Pool-specific error codes
const (
	// Operation authorization
	CodeCallerMissing Code = "CALLER_MISSING"

	// Ledger persistence
	CodeSnapshotSaveFailed Code = "SNAPSHOT_SAVE_FAILED"
	CodeSnapshotLoadFailed Code = "SNAPSHOT_LOAD_FAILED"
	CodeSnapshotCorrupted  Code = "SNAPSHOT_CORRUPTED"

	// Event feed
	CodeFeedConnectionError Code = "FEED_CONNECTION_ERROR"
	CodeFeedSendError       Code = "FEED_SEND_ERROR"
	CodeFeedClosed          Code = "FEED_CLOSED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
