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
	ErrUnknown          ErrorCode = "UNKNOWN"
	ErrInternal         ErrorCode = "INTERNAL"
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrNotFound         ErrorCode = "NOT_FOUND"
	ErrAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	ErrInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Persistence errors
	ErrPersistence ErrorCode = "PERSISTENCE"

	// Profile errors
	ErrProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	ErrProfileActive   ErrorCode = "PROFILE_ACTIVE"
	ErrNoActiveProfile ErrorCode = "NO_ACTIVE_PROFILE"

	// Package errors
	ErrPackageNotFound ErrorCode = "PACKAGE_NOT_FOUND"

	// FileSystem errors
	ErrIOFailure     ErrorCode = "IO_FAILURE"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"

	// External tool errors
	ErrInstallerFailed ErrorCode = "INSTALLER_FAILED"
	ErrGitCommand      ErrorCode = "GIT_COMMAND"

	// Shell errors
	ErrUnsupportedShell ErrorCode = "UNSUPPORTED_SHELL"
)

// ZshrcmanError represents a structured error with code and details
type ZshrcmanError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ZshrcmanError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ZshrcmanError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ZshrcmanError) Is(target error) bool {
	var targetErr *ZshrcmanError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ZshrcmanError with the given code and message
func New(code ErrorCode, message string) *ZshrcmanError {
	return &ZshrcmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ZshrcmanError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ZshrcmanError {
	return &ZshrcmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ZshrcmanError
func Wrap(err error, code ErrorCode, message string) *ZshrcmanError {
	if err == nil {
		return nil
	}
	return &ZshrcmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ZshrcmanError {
	if err == nil {
		return nil
	}
	return &ZshrcmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ZshrcmanError) WithDetail(key string, value interface{}) *ZshrcmanError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ZshrcmanError) WithDetails(details map[string]interface{}) *ZshrcmanError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var zerr *ZshrcmanError
	if errors.As(err, &zerr) {
		return zerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ZshrcmanError
func GetErrorCode(err error) ErrorCode {
	var zerr *ZshrcmanError
	if errors.As(err, &zerr) {
		return zerr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ZshrcmanError
func GetErrorDetails(err error) map[string]interface{} {
	var zerr *ZshrcmanError
	if errors.As(err, &zerr) {
		return zerr.Details
	}
	return nil
}
