package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeUpstreamFailure  = "UPSTREAM_FAILURE"
)

// Validation errors
var (
	ErrInvalidDeckStatus  = NewDomainError(ErrCodeValidation, "invalid deck status")
	ErrInvalidJobStatus   = NewDomainError(ErrCodeValidation, "invalid generation job status")
	ErrInvalidStudyStatus = NewDomainError(ErrCodeValidation, "invalid study status")
	ErrEmptySourceText    = NewDomainError(ErrCodeValidation, "deck source text is empty")
	ErrEmptyCardSide      = NewDomainError(ErrCodeValidation, "card question and answer must be non-empty")
	ErrQuestionTooLong    = NewDomainError(ErrCodeValidation, "card question exceeds maximum length")
	ErrAnswerTooLong      = NewDomainError(ErrCodeValidation, "card answer exceeds maximum length")
)

// Not found errors
var (
	ErrDeckNotFound = NewDomainError(ErrCodeNotFound, "deck not found")
	ErrCardNotFound = NewDomainError(ErrCodeNotFound, "card not found")
	ErrJobNotFound  = NewDomainError(ErrCodeNotFound, "generation job not found")
)

// Operation errors
var (
	ErrDeckNotReady      = NewDomainError(ErrCodeInvalidOperation, "deck has no generated cards yet")
	ErrStudyNotStarted   = NewDomainError(ErrCodeInvalidOperation, "no study session for this deck")
	ErrAnswerNotRevealed = NewDomainError(ErrCodeInvalidOperation, "reveal the answer before grading")
	ErrDeckComplete      = NewDomainError(ErrCodeInvalidOperation, "deck traversal is complete")
)

// Generation errors
var (
	// ErrNoCardsGenerated is surfaced after both model attempts produced no
	// parseable cards.
	ErrNoCardsGenerated = NewDomainError(ErrCodeUpstreamFailure, "model returned no usable flashcards")
)

// Storage errors
var (
	ErrStorageOperationFail = NewDomainError(ErrCodeInternalError, "storage operation failed")
)
