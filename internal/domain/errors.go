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

	// Quiz flow errors
	CodeInvalidDomain           ErrorCode = "INVALID_DOMAIN"
	CodeStoreUnavailable        ErrorCode = "STORE_UNAVAILABLE"
	CodeGenerationUnavailable   ErrorCode = "GENERATION_UNAVAILABLE"
	CodeGenerationFormatInvalid ErrorCode = "GENERATION_FORMAT_INVALID"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
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

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidDomainError() *DomainError {
	return NewError(CodeInvalidDomain, "domain parameter is required", nil)
}

// NewStoreUnavailableError wraps any repository failure other than "not found".
func NewStoreUnavailableError(cause error) *DomainError {
	return NewError(CodeStoreUnavailable, "quiz store is unavailable", cause)
}

// NewGenerationUnavailableError covers model call failures, timeouts and empty completions.
func NewGenerationUnavailableError(cause error) *DomainError {
	return NewError(CodeGenerationUnavailable, "question generation service is unavailable", cause)
}

// NewGenerationFormatError covers unparseable or out-of-contract model output.
func NewGenerationFormatError(message string, cause error) *DomainError {
	return NewError(CodeGenerationFormatInvalid, message, cause)
}
