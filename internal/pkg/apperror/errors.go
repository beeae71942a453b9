package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that knows how it should be rendered over HTTP.
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// WithDetails attaches details rendered alongside the message.
func (e *AppError) WithDetails(details any) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// Wrap keeps the underlying cause for logs; it is never rendered to clients.
func (e *AppError) Wrap(cause error) *AppError {
	clone := *e
	clone.cause = cause
	return &clone
}

// Is matches on Code so sentinel values can be compared after Wrap/WithDetails.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(statusCode int, code, message string) *AppError {
	return &AppError{StatusCode: statusCode, Code: code, Message: message}
}

func NewUnauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func NewNotFound(message string) *AppError {
	return New(http.StatusNotFound, "NOT_FOUND", message)
}

func NewValidation(message string) *AppError {
	return New(http.StatusBadRequest, "VALIDATION_ERROR", message)
}

func NewConflict(message string) *AppError {
	return New(http.StatusConflict, "CONFLICT", message)
}

func NewUpstreamFailure(message string) *AppError {
	return New(http.StatusInternalServerError, "UPSTREAM_FAILURE", message)
}

func NewTooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", message)
}

var (
	ErrUnauthorized        = NewUnauthorized("authentication required")
	ErrInvalidCredentials  = NewUnauthorized("invalid email or password")
	ErrNotFound            = NewNotFound("not found")
	ErrEmailTaken          = NewConflict("email already registered")
	ErrAIServiceFailure    = NewUpstreamFailure("AI service failed to respond")
	ErrAIServiceMisconfig  = NewUpstreamFailure("AI service is not configured")
	ErrRateLimited         = NewTooManyRequests("too many requests, slow down")
	ErrSessionTitleMissing = NewValidation("title is required")
)

// As extracts an *AppError from err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
