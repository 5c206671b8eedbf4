package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigCorrupt    ErrorCode = "CONFIG_CORRUPT"
	ErrConfigUnreadable ErrorCode = "CONFIG_UNREADABLE"
	ErrConfigWrite      ErrorCode = "CONFIG_WRITE"
	ErrProfileNotFound  ErrorCode = "PROFILE_NOT_FOUND"
	ErrProfileExists    ErrorCode = "PROFILE_EXISTS"

	// Identity errors
	ErrAmbiguousRepo ErrorCode = "AMBIGUOUS_REPO"

	// Lifecycle errors
	ErrAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED"
	ErrNotInitialized     ErrorCode = "NOT_INITIALIZED"

	// Overlay errors
	ErrOverlayConflict  ErrorCode = "OVERLAY_CONFLICT"
	ErrCrossDeviceLink  ErrorCode = "CROSS_DEVICE_LINK"
	ErrStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"

	// VCS errors
	ErrGit ErrorCode = "GIT"
)

// ThoughtsError represents a structured error with code and details
type ThoughtsError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ThoughtsError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ThoughtsError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ThoughtsError) Is(target error) bool {
	var targetErr *ThoughtsError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ThoughtsError with the given code and message
func New(code ErrorCode, message string) *ThoughtsError {
	return &ThoughtsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ThoughtsError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ThoughtsError {
	return &ThoughtsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ThoughtsError
func Wrap(err error, code ErrorCode, message string) *ThoughtsError {
	if err == nil {
		return nil
	}
	return &ThoughtsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ThoughtsError {
	if err == nil {
		return nil
	}
	return &ThoughtsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ThoughtsError) WithDetail(key string, value interface{}) *ThoughtsError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var terr *ThoughtsError
	if errors.As(err, &terr) {
		return terr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ThoughtsError
func GetErrorCode(err error) ErrorCode {
	var terr *ThoughtsError
	if errors.As(err, &terr) {
		return terr.Code
	}
	return ErrUnknown
}
