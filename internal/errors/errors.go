package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return "UNKNOWN"
}

// HasCode reports whether err or any error in its chain carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Error codes follow the pipeline's failure taxonomy: fetch and workbook
// failures are binding-scoped, sanitization/materialize/load failures are
// sheet-scoped, and config failures are fatal at startup.
const (
	CodeConfigInvalid         = "CONFIG_INVALID"
	CodeFetchFailure          = "FETCH_FAILURE"
	CodeUnreadableWorkbook    = "UNREADABLE_WORKBOOK"
	CodeSanitizationCollision = "SANITIZATION_COLLISION"
	CodeMaterializeFailure    = "MATERIALIZE_FAILURE"
	CodeLoadFailure           = "LOAD_FAILURE"
	CodeInternalError         = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func FetchFailure(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeFetchFailure,
		Message: fmt.Sprintf("fetch failed for %s", path),
		Cause:   cause,
	}
}

func UnreadableWorkbook(cause error) *AppError {
	return &AppError{
		Code:    CodeUnreadableWorkbook,
		Message: "byte stream is not a readable workbook",
		Cause:   cause,
	}
}

func SanitizationCollision(name string) *AppError {
	return New(CodeSanitizationCollision, fmt.Sprintf("column identifier %q resolves more than once", name))
}

func MaterializeFailure(table string, cause error) *AppError {
	return &AppError{
		Code:    CodeMaterializeFailure,
		Message: fmt.Sprintf("materialize failed for table %s", table),
		Cause:   cause,
	}
}

func LoadFailure(table string, cause error) *AppError {
	return &AppError{
		Code:    CodeLoadFailure,
		Message: fmt.Sprintf("load failed for table %s", table),
		Cause:   cause,
	}
}
