package codeimport

import "fmt"

// ErrorCode identifies the failure class of an Error.
type ErrorCode string

const (
	// InvalidConfiguration indicates the Importer was constructed with a
	// non-absolute root directory.
	InvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	// InvalidReference indicates the reference string does not match the
	// grammar or has an empty path segment.
	InvalidReference ErrorCode = "INVALID_REFERENCE"
	// FileRead indicates the referenced file could not be read: missing,
	// permission denied, or not a regular file.
	FileRead ErrorCode = "FILE_READ"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrInvalidConfiguration = &Error{Code: InvalidConfiguration}
	ErrInvalidReference     = &Error{Code: InvalidReference}
	ErrFileRead             = &Error{Code: FileRead}
)

// Error is the error type returned by every operation in this package.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error
}

func newError(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
