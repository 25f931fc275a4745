package errors

import (
	"fmt"
)

// RoadError is the structured error type for roadwise.
// It provides rich context for error handling, logging, and user presentation.
type RoadError struct {
	// Code is the unique error code (e.g., "ERR_101_CORPUS_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Corpus, Index, Generation, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *RoadError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *RoadError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so errors.Is works across wrapping.
func (e *RoadError) Is(target error) bool {
	if t, ok := target.(*RoadError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *RoadError) WithDetail(key, value string) *RoadError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new RoadError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *RoadError {
	return &RoadError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a RoadError from an existing error.
// The error's message becomes the RoadError message.
func Wrap(code string, err error) *RoadError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// LoadError creates a corpus-loading error. Load errors are fatal:
// without a corpus there is nothing to index or search.
func LoadError(message string, cause error) *RoadError {
	return New(ErrCodeCorpusCorrupt, message, cause)
}

// IndexError creates an index-construction error.
func IndexError(message string, cause error) *RoadError {
	return New(ErrCodeIndexBuild, message, cause)
}

// GenerationError creates an answer-generation error. The pipeline
// responds to these by falling back to a context-only answer.
func GenerationError(message string, cause error) *RoadError {
	return New(ErrCodeGenerationFailed, message, cause)
}

// ValidationError creates a query-validation error.
func ValidationError(code, message string) *RoadError {
	return New(code, message, nil)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *RoadError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is a RoadError with the Retryable flag set.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RoadError); ok {
		return re.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RoadError); ok {
		return re.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a RoadError.
// Returns empty string if not a RoadError.
func GetCode(err error) string {
	if re, ok := err.(*RoadError); ok {
		return re.Code
	}
	return ""
}

// GetCategory extracts the category from a RoadError.
// Returns empty string if not a RoadError.
func GetCategory(err error) Category {
	if re, ok := err.(*RoadError); ok {
		return re.Category
	}
	return ""
}
