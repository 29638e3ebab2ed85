// Package clierr defines the coded errors tasklens commands return. The code
// is stable for scripts; the message is for people.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error codes. Uppercase and underscore-separated; scripts match on them.
const (
	TaskNotFound           = "TASK_NOT_FOUND"
	WorkspaceNotFound      = "WORKSPACE_NOT_FOUND"
	WorkspaceAlreadyExists = "WORKSPACE_ALREADY_EXISTS"
	ProjectNotFound        = "PROJECT_NOT_FOUND"
	ProjectAlreadyExists   = "PROJECT_ALREADY_EXISTS"
	InvalidInput           = "INVALID_INPUT"
	InvalidStatus          = "INVALID_STATUS"
	InvalidPriority        = "INVALID_PRIORITY"
	InvalidProgress        = "INVALID_PROGRESS"
	InvalidDate            = "INVALID_DATE"
	InvalidTaskID          = "INVALID_TASK_ID"
	InvalidGroupBy         = "INVALID_GROUP_BY"
	InvalidSort            = "INVALID_SORT"
	IdentityRequired       = "IDENTITY_REQUIRED"
	NoChanges              = "NO_CHANGES"
	ConfirmationReq        = "CONFIRMATION_REQUIRED"
	InternalError          = "INTERNAL_ERROR"
)

// Error is a command failure with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap returns the error passed to Wrap, if any.
func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap gives err a code, keeping err's message and leaving it reachable
// through errors.Is and errors.As. A coded err is returned unchanged.
func Wrap(code string, err error) *Error {
	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}
	return &Error{Code: code, Message: err.Error(), cause: err}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode is 2 for internal failures and 1 for everything the user can fix.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// CodeOf returns the code of the first Error in err's chain, or "" if there
// is none.
func CodeOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// SilentError signals an exit code without additional output.
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
