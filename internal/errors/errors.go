// Package errors provides a lightweight structured error type (EdgeError)
// for category-based classification in the pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of an EdgeUnity error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Image I/O errors
	CategoryLoad      ErrorCategory = "load"
	CategoryDimension ErrorCategory = "dimension"
	CategorySave      ErrorCategory = "save"

	// Pipeline and infrastructure errors
	CategoryOperator ErrorCategory = "operator"
	CategoryHistory  ErrorCategory = "history"
	CategoryWatch    ErrorCategory = "watch"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// EdgeError is a structured error with category, severity, and context
type EdgeError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for EdgeError
type ContextFields map[string]any

// Error implements the error interface
func (e *EdgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *EdgeError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *EdgeError) WithContext(key string, value any) *EdgeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new EdgeError
func New(category ErrorCategory, severity ErrorSeverity, message string) *EdgeError {
	return &EdgeError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new EdgeError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *EdgeError {
	return &EdgeError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if ee, ok := err.(*EdgeError); ok {
		return ee.Category == category
	}
	return false
}

// GetCategory returns the category of an error, or CategoryInternal for plain errors
func GetCategory(err error) ErrorCategory {
	if ee, ok := err.(*EdgeError); ok {
		return ee.Category
	}
	return CategoryInternal
}
