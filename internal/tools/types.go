package tools

import "fmt"

// Status indicates whether a tool invocation succeeded.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrorCode classifies tool failures so the calling agent can react to
// specific error types.
type ErrorCode string

const (
	// ErrCodeSecurity indicates a path resolved outside the base directory.
	ErrCodeSecurity ErrorCode = "SecurityError"

	// ErrCodeNotFound indicates the target file or directory does not exist
	// (or is not the expected kind of entry).
	ErrCodeNotFound ErrorCode = "NotFound"

	// ErrCodeValidation indicates malformed input such as an invalid glob
	// or regex pattern.
	ErrCodeValidation ErrorCode = "ValidationError"

	// ErrCodeResourceLimit indicates a file exceeded the configured read
	// size cap.
	ErrCodeResourceLimit ErrorCode = "ResourceLimit"

	// ErrCodeIO indicates an underlying read or decode failure.
	ErrCodeIO ErrorCode = "IOError"
)

// Error is the structured failure payload of a Result.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

// Result is the uniform return value of every tool operation. Business
// failures are carried here with StatusError, never as Go errors; Go errors
// are reserved for system-level problems the protocol layer must handle.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// failure builds an error Result with the same text as message and error
// payload.
func failure(code ErrorCode, format string, args ...any) Result {
	msg := fmt.Sprintf(format, args...)
	return Result{
		Status:  StatusError,
		Message: msg,
		Error:   &Error{Code: code, Message: msg},
	}
}
