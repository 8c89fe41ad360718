package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound = "not_found"

	// Form parsing errors
	ErrCodeNotAFormURL     = "not_a_form_url"
	ErrCodeParseFailed     = "parse_failed"
	ErrCodeSignInRequired  = "sign_in_required"
	ErrCodeNoFormData      = "no_form_data"
	ErrCodeUnsupportedForm = "unsupported_form"
	ErrCodeFetchFailed     = "fetch_failed"

	// Submission errors
	ErrCodeSubmissionFailed = "submission_failed"
	ErrCodeGenerationFailed = "generation_failed"

	// Fill job errors
	ErrCodeJobCreationFailed = "job_creation_failed"
	ErrCodeJobNotFound       = "job_not_found"
	ErrCodeInvalidJobID      = "invalid_job_id"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
