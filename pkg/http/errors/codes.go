package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeInvalidToken = "invalid_token"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeInvalidName      = "invalid_name"

	// Resource errors
	ErrCodeNotFound          = "not_found"
	ErrCodeChallengeNotFound = "challenge_not_found"
	ErrCodeReportNotFound    = "report_not_found"

	// Business logic errors
	ErrCodePublishFailed = "publish_failed"
	ErrCodeSubmitFailed  = "submit_failed"
	ErrCodeDeleteFailed  = "delete_failed"
	ErrCodeListFailed    = "list_failed"

	// Server errors
	ErrCodeInternalError = "internal_error"

	// Feature availability
	ErrCodeFeatureNotAvailable = "feature_not_available"
	ErrCodeMethodNotAllowed    = "method_not_allowed"
)
