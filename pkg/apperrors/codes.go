package apperrors

// Error codes - organized by domain

// Authentication errors (AUTH_*)
const (
	ErrCodeInvalidCredentials  = "AUTH_INVALID_CREDENTIALS"
	ErrCodeTokenExpired        = "AUTH_TOKEN_EXPIRED"
	ErrCodeTokenInvalid        = "AUTH_TOKEN_INVALID"
	ErrCodeTokenMalformed      = "AUTH_TOKEN_MALFORMED"
	ErrCodeRefreshTokenInvalid = "AUTH_REFRESH_TOKEN_INVALID"
	ErrCodeRefreshTokenExpired = "AUTH_REFRESH_TOKEN_EXPIRED"
	ErrCodeRefreshTokenReused  = "AUTH_REFRESH_TOKEN_REUSED"
)

// Authorization errors (AUTHZ_*)
const (
	ErrCodeForbidden = "AUTHZ_FORBIDDEN"
	ErrCodeNotOwner  = "AUTHZ_NOT_OWNER"
)

// Validation errors (VALIDATION_*)
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidEmail     = "VALIDATION_INVALID_EMAIL"
	ErrCodeInvalidUsername  = "VALIDATION_INVALID_USERNAME"
	ErrCodeInvalidPassword  = "VALIDATION_INVALID_PASSWORD"
	ErrCodeMissingField     = "VALIDATION_MISSING_FIELD"
	ErrCodeSelfFollow       = "VALIDATION_SELF_FOLLOW"
)

// Resource errors (RESOURCE_*)
const (
	ErrCodeUserNotFound    = "RESOURCE_USER_NOT_FOUND"
	ErrCodePostNotFound    = "RESOURCE_POST_NOT_FOUND"
	ErrCodeCommentNotFound = "RESOURCE_COMMENT_NOT_FOUND"
	ErrCodeResourceExists  = "RESOURCE_ALREADY_EXISTS"
)

// Rate limiting errors (RATE_*)
const (
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

// Internal errors (INTERNAL_*)
const (
	ErrCodeDatabaseError   = "INTERNAL_DATABASE_ERROR"
	ErrCodeEmailSendFailed = "INTERNAL_EMAIL_SEND_FAILED"
	ErrCodeStorageError    = "INTERNAL_STORAGE_ERROR"
	ErrCodeHashingError    = "INTERNAL_HASHING_ERROR"
	ErrCodeUnexpectedError = "INTERNAL_UNEXPECTED_ERROR"
)

// Upload errors (UPLOAD_*)
const (
	ErrCodeUploadMissingFile = "UPLOAD_MISSING_FILE"
	ErrCodeUploadTooLarge    = "UPLOAD_TOO_LARGE"
	ErrCodeUploadBadType     = "UPLOAD_UNSUPPORTED_TYPE"
)
