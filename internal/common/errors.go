package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInternal          = errors.New("internal error")
)

// Error codes for the processing taxonomy. Everything except a top-level
// dispatch failure is recovered into a ProcessingResult soft error.
const (
	CodeLoadError       = "LOAD_ERROR"
	CodePreprocessError = "PREPROCESS_ERROR"
	CodeOCRError        = "OCR_ERROR"
	CodeWriteError      = "WRITE_ERROR"
	CodeConfigError     = "CONFIG_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
