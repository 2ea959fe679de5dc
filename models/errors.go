package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeMissingInput     = "MISSING_INPUT"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeUnsupportedSite  = "UNSUPPORTED_SITE"
	ErrCodeFetchFailure     = "FETCH_FAILURE"
	ErrCodeValidation       = "VALIDATION_FAILURE"
	ErrCodeUnexpected       = "UNEXPECTED_FAILURE"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// MsgUnexpected is the only message callers see for unclassified failures.
const MsgUnexpected = "An unexpected error occurred while scraping the recipe"

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// AsScrapeError returns err as a *ScrapeError. Anything unclassified becomes
// an UNEXPECTED_FAILURE wrapping the original error.
func AsScrapeError(err error) *ScrapeError {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se
	}
	return NewScrapeError(ErrCodeUnexpected, MsgUnexpected, err)
}

// ToResponse converts an internal error to the API-facing error envelope.
// The wrapped cause never leaves the process, and unexpected failures always
// carry the generic message.
func (e *ScrapeError) ToResponse() ErrorResponse {
	msg := e.Message
	if e.Code == ErrCodeUnexpected || msg == "" {
		msg = MsgUnexpected
	}
	return ErrorResponse{Error: msg, Code: e.Code}
}
