package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidation         = errors.New("validation failed")
	ErrPhotosRequired     = errors.New("all three photos are required")
	ErrPledgeNotFound     = errors.New("pledge not found")
	ErrBackendRejected    = errors.New("backend rejected the request")
	ErrBackendUnreachable = errors.New("backend unreachable")
	ErrUploadFailed       = errors.New("photo upload failed")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrInvalidSetting     = errors.New("invalid setting")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
	// Status carries the upstream HTTP status for backend rejections.
	Status int
	// Fields holds per-field messages for validation failures.
	Fields map[string]string
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodePhotosRequired     = "PHOTOS_REQUIRED"
	ErrCodePledgeNotFound     = "PLEDGE_NOT_FOUND"
	ErrCodeBackendRejected    = "BACKEND_REJECTED"
	ErrCodeBackendUnreachable = "BACKEND_UNREACHABLE"
	ErrCodeUploadFailed       = "UPLOAD_FAILED"
	ErrCodeSubmissionInFlight = "SUBMISSION_IN_FLIGHT"
	ErrCodeInvalidSetting     = "INVALID_SETTING"
	ErrCodeStorageError       = "STORAGE_ERROR"
)

// Messages shown to the operator.
const (
	MsgFixFormErrors     = "Please fix the errors in the form"
	MsgPhotosRequired    = "Please upload all three required photos before submitting."
	MsgConnectionError   = "Connection error. Please check your backend server."
	MsgSubmissionPending = "A submission for this form is already in progress"
	MsgFillRequired      = "Please fill in all required fields"
	MsgDeadlineRequired  = "Please select a deadline date"
)

// WrapValidation reports field-level validation failures.
func WrapValidation(fields map[string]string) *BusinessError {
	e := NewBusinessError(ErrCodeValidation, MsgFixFormErrors, ErrValidation)
	e.Fields = fields
	return e
}

// WrapMissingRequired is the simplified form's variant of WrapValidation.
func WrapMissingRequired(fields map[string]string) *BusinessError {
	e := WrapValidation(fields)
	e.Message = MsgFillRequired
	return e
}

func WrapPhotosRequired(fields map[string]string) *BusinessError {
	e := NewBusinessError(ErrCodePhotosRequired, MsgPhotosRequired, ErrPhotosRequired)
	e.Fields = fields
	return e
}

func WrapPledgeNotFound(pledgeID int64) *BusinessError {
	return NewBusinessError(
		ErrCodePledgeNotFound,
		"Pledge not found",
		fmt.Errorf("%w: id %d", ErrPledgeNotFound, pledgeID),
	)
}

// WrapBackendRejected keeps the backend's own message verbatim.
func WrapBackendRejected(status int, message string) *BusinessError {
	e := NewBusinessError(ErrCodeBackendRejected, message, ErrBackendRejected)
	e.Status = status
	return e
}

func WrapBackendUnreachable(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeBackendUnreachable,
		MsgConnectionError,
		fmt.Errorf("%w: %v", ErrBackendUnreachable, err),
	)
}

func WrapUploadFailed(slot string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeUploadFailed,
		fmt.Sprintf("Upload of %s photo failed", slot),
		fmt.Errorf("%w: %v", ErrUploadFailed, err),
	)
}

func WrapSubmissionInFlight(form string) *BusinessError {
	return NewBusinessError(
		ErrCodeSubmissionInFlight,
		MsgSubmissionPending,
		fmt.Errorf("%w: %s", ErrSubmissionInFlight, form),
	)
}

func WrapInvalidSetting(key, message string) *BusinessError {
	e := NewBusinessError(ErrCodeInvalidSetting, message, ErrInvalidSetting)
	e.Fields = map[string]string{key: message}
	return e
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"Storage operation failed",
		fmt.Errorf("%w: %v", ErrStorageUnavailable, err),
	)
}

// AsBusinessError unwraps err into a *BusinessError when possible.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
