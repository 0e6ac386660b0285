package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Persistence errors
	CodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
	CodeRepositoryFailure   ErrorCode = "REPOSITORY_FAILURE"
	CodeInvalidFilter       ErrorCode = "INVALID_FILTER"
	CodeQuizNotPersisted    ErrorCode = "QUIZ_NOT_PERSISTED"

	// Quiz specific errors
	CodeQuizNotFound    ErrorCode = "QUIZ_NOT_FOUND"
	CodeLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"details,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates per-field validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}

// Helper functions for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", cause)
}

// NewConstraintViolationError signals a uniqueness or required-field
// violation reported by the store. It is surfaced as a conflict, never
// retried.
func NewConstraintViolationError(op string, cause error) *DomainError {
	return NewError(CodeConstraintViolation, fmt.Sprintf("Constraint violation during %s", op), cause)
}

// NewRepositoryFailureError signals a connectivity or transaction failure at
// the store of record.
func NewRepositoryFailureError(op string, cause error) *DomainError {
	return NewError(CodeRepositoryFailure, fmt.Sprintf("Repository operation %s failed", op), cause)
}

// NewInvalidFilterError names the offending history filter field and the
// format it expected.
func NewInvalidFilterError(field, expected string) *DomainError {
	err := NewError(CodeInvalidFilter, fmt.Sprintf("Invalid filter %q: expected %s", field, expected), nil)
	err.Context = map[string]interface{}{"field": field, "expected": expected}
	return err
}

// NewQuizNotPersistedError reports that question generation succeeded but the
// generated quiz could not be saved. Callers must keep this distinguishable
// from a plain failure so the generated content is not silently discarded.
func NewQuizNotPersistedError(cause error) *DomainError {
	return NewError(CodeQuizNotPersisted, "Quiz was generated but could not be persisted", cause)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %q", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("value %d is out of range [%d, %d]", value, min, max)}
}
