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
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Tracking errors
	ErrNotAFile       ErrorCode = "NOT_A_FILE"
	ErrOutOfScopePath ErrorCode = "OUT_OF_SCOPE_PATH"

	// Remote sync errors
	ErrNoRemote       ErrorCode = "NO_REMOTE"
	ErrNoMainBranch   ErrorCode = "NO_MAIN_BRANCH"
	ErrNonFastForward ErrorCode = "NON_FAST_FORWARD"
	ErrRemoteEmpty    ErrorCode = "REMOTE_EMPTY"
	ErrLocalChanges   ErrorCode = "LOCAL_CHANGES"

	// Backend errors
	ErrEngine ErrorCode = "ENGINE_FAILURE"
	ErrIO     ErrorCode = "IO_FAILURE"

	// Interaction errors
	ErrPrompt ErrorCode = "PROMPT"
)

// CfgError represents a structured error with code and details
type CfgError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CfgError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CfgError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CfgError) Is(target error) bool {
	var targetErr *CfgError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CfgError with the given code and message
func New(code ErrorCode, message string) *CfgError {
	return &CfgError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CfgError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CfgError {
	return &CfgError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CfgError.
// Callers must check err for nil first: a nil *CfgError stored in an error
// interface is not a nil error.
func Wrap(err error, code ErrorCode, message string) *CfgError {
	if err == nil {
		return nil
	}
	return &CfgError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CfgError {
	if err == nil {
		return nil
	}
	return &CfgError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CfgError) WithDetail(key string, value interface{}) *CfgError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *CfgError) WithDetails(details map[string]interface{}) *CfgError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error, or any CfgError in its chain, has a specific code
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var cfgErr *CfgError
		if !errors.As(err, &cfgErr) {
			return false
		}
		if cfgErr.Code == code {
			return true
		}
		err = cfgErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CfgError
func GetErrorCode(err error) ErrorCode {
	var cfgErr *CfgError
	if errors.As(err, &cfgErr) {
		return cfgErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CfgError
func GetErrorDetails(err error) map[string]interface{} {
	var cfgErr *CfgError
	if errors.As(err, &cfgErr) {
		return cfgErr.Details
	}
	return nil
}
