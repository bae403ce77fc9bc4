package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeLoginFailed            = "login_failed"
	ErrCodeSignupFailed           = "signup_failed"
	ErrCodeUsernameTaken          = "username_taken"
	ErrCodeAdminRequired          = "admin_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"

	// Resource errors
	ErrCodeNotFound        = "not_found"
	ErrCodeSubjectUnknown  = "subject_unknown"
	ErrCodeSessionUnknown  = "session_unknown"
	ErrCodeQuestionUnknown = "question_unknown"

	// Admin errors
	ErrCodeImportFailed = "import_failed"

	// Server errors
	ErrCodeInternalError  = "internal_error"
	ErrCodeStorageCorrupt = "storage_corrupt"
)
