package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Scout error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrInvalidStatus    ErrorCode = "INVALID_STATUS"    // 400
	ErrMalformedCommand ErrorCode = "MALFORMED_COMMAND" // 400
	ErrForbidden        ErrorCode = "FORBIDDEN"         // 403
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrAlreadyApplied   ErrorCode = "ALREADY_APPLIED"   // 409
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// ScoutError represents a structured error with code, status, and details.
type ScoutError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ScoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ScoutError {
	return &ScoutError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidStatus creates a 400 error for a status outside the lifecycle set.
func NewInvalidStatus(status string) *ScoutError {
	return &ScoutError{
		Code:    ErrInvalidStatus,
		Status:  400,
		Message: fmt.Sprintf("unknown status: %q", status),
		Details: map[string]any{"status": status},
	}
}

// NewMalformedCommand creates a 400 error for callback data that does not decode
// into a review command.
func NewMalformedCommand(data string) *ScoutError {
	return &ScoutError{
		Code:    ErrMalformedCommand,
		Status:  400,
		Message: fmt.Sprintf("malformed command: %q", data),
		Details: map[string]any{"data": data},
	}
}

// NewForbidden creates a 403 error for callers outside the operator roster.
func NewForbidden(userID int64) *ScoutError {
	return &ScoutError{
		Code:    ErrForbidden,
		Status:  403,
		Message: fmt.Sprintf("user %d is not an operator", userID),
		Details: map[string]any{"user_id": userID},
	}
}

// NewNotFound creates a 404 error for when an application cannot be found.
func NewNotFound(id int64) *ScoutError {
	return &ScoutError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("application not found: %d", id),
		Details: map[string]any{"id": id},
	}
}

// NewAlreadyApplied creates a 409 error for a submitter that already has an application.
func NewAlreadyApplied(submitterID int64) *ScoutError {
	return &ScoutError{
		Code:    ErrAlreadyApplied,
		Status:  409,
		Message: fmt.Sprintf("submitter %d already has an application", submitterID),
		Details: map[string]any{"submitter_id": submitterID},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the underlying error is kept in Details for logging.
func NewInternal(err error) *ScoutError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &ScoutError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or any error it wraps) is a ScoutError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *ScoutError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}
