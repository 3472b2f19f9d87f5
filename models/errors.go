package models

import (
	"errors"
	"fmt"
)

// Error codes used in structured logs and internal error handling. The
// client-visible contract deliberately collapses fetch and extraction
// failures into one shape; these codes keep the distinct failure modes
// available to operators.
const (
	ErrCodeBrowserLaunch  = "BROWSER_LAUNCH_FAILED"
	ErrCodeNavigation     = "NAVIGATION_FAILED"
	ErrCodeTimeout        = "FETCH_TIMEOUT"
	ErrCodeEmptyHTML      = "EMPTY_HTML"
	ErrCodeExtraction     = "EXTRACTION_FAILED"
	ErrCodeExtractionAuth = "EXTRACTION_AUTH_FAILED"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// TaggedError is the internal error type carrying a classification code.
// It implements the error interface and supports error wrapping via Unwrap.
type TaggedError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *TaggedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TaggedError) Unwrap() error {
	return e.Err
}

// NewTaggedError creates a new TaggedError.
func NewTaggedError(code, message string, err error) *TaggedError {
	return &TaggedError{Code: code, Message: message, Err: err}
}

// ErrorCode extracts the classification code from err, unwrapping as needed.
// Untagged errors report ErrCodeInternal.
func ErrorCode(err error) string {
	var tagged *TaggedError
	if errors.As(err, &tagged) {
		return tagged.Code
	}
	return ErrCodeInternal
}
