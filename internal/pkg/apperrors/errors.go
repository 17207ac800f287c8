package apperrors

import "errors"

// Generic errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrTooManyAttempts  = errors.New("too many attempts")
)

// Account and token errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Profile & team errors
var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
	ErrTeamNotFound         = errors.New("team not found")
	ErrAlreadyInTeam        = errors.New("user already belongs to a team")
)

// Request lifecycle errors
var (
	ErrHourRequestNotFound   = errors.New("hour request not found")
	ErrAlreadyReviewed       = errors.New("request has already been reviewed")
	ErrDesignRequestNotFound = errors.New("design request not found")
	ErrInvalidTransition     = errors.New("invalid status transition")
)

// Event, gallery and contact errors
var (
	ErrEventNotFound         = errors.New("event not found")
	ErrAlreadyRegistered     = errors.New("already registered for this event")
	ErrEventFull             = errors.New("no seats available")
	ErrNotRegistered         = errors.New("not registered for this event")
	ErrInvalidCheckInCode    = errors.New("invalid check-in code")
	ErrGalleryImageNotFound  = errors.New("gallery image not found")
	ErrContactMessageMissing = errors.New("contact message not found")
)

// CustomError attaches a client-facing message, and optionally structured
// details, to one of the sentinel errors above
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

func (e *CustomError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError wraps err with a client-facing message
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// WithDetails attaches structured context
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

func NewConflictError(message string) error {
	return NewCustomError(ErrConflict, message)
}

func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

func NewBadRequestError(message string) error {
	return NewCustomError(ErrBadRequest, message)
}

// NewValidationError reports an invalid value of field
func NewValidationError(field, message string) error {
	return NewCustomError(ErrValidationFailed, message).
		WithDetails(map[string]interface{}{"field": field})
}

// Is reports whether err matches target or any of others
func Is(err, target error, others ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range others {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
