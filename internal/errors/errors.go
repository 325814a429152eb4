// Package errors provides domain-specific error types and sentinel errors
// for consistent error handling across the assistant.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested knowledge entry was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrEmptyQuery indicates the caller submitted an empty question.
	ErrEmptyQuery = errors.New("empty query")

	// ErrRateLimitExceeded indicates rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrContextCanceled indicates context was canceled.
	ErrContextCanceled = errors.New("context canceled")

	// ErrUnknownSkill indicates an unmapped skill tag reached the composer.
	// Callers treat this as the default skill rather than failing.
	ErrUnknownSkill = errors.New("unknown skill")

	// ErrKnowledgeEmpty indicates the knowledge file parsed to zero entries.
	// Loading an empty knowledge base is a startup failure, never silent.
	ErrKnowledgeEmpty = errors.New("knowledge base is empty")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// LLMError represents text-generation failures with provider context.
type LLMError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *LLMError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm error (provider=%s, status=%d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm error (provider=%s): %v", e.Provider, e.Err)
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

// NewLLMError creates a new LLM error.
func NewLLMError(provider string, statusCode int, err error) *LLMError {
	return &LLMError{
		Provider:   provider,
		StatusCode: statusCode,
		Err:        err,
	}
}
