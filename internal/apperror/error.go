// Package apperror provides coded errors shared by every bounded context.
package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// AppError is an error with a stable code, a human message and optional
// context and cause.
type AppError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Context    string `json:"context,omitempty"`
	cause      error
}

// Error renders "CODE: message (context): cause".
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Context != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Context)
		sb.WriteString(")")
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

// Unwrap returns the cause.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Fields returns the error as structured log fields.
func (e *AppError) Fields() map[string]any {
	f := map[string]any{
		"code":    string(e.Code),
		"message": e.Message,
	}
	if e.Context != "" {
		f["context"] = e.Context
	}
	if e.cause != nil {
		f["cause"] = e.cause.Error()
	}
	return f
}

// Option configures an AppError.
type Option func(*AppError)

// New creates an AppError. The message comes from the message table, or the
// code itself when the table has none.
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:       code,
		Message:    messages[code],
		StatusCode: getDefaultStatusCode(code),
	}
	for _, opt := range opts {
		opt(err)
	}
	if err.Message == "" {
		err.Message = string(code)
	}
	return err
}

// WithContext adds context, e.g. the token or pool involved.
func WithContext(context string) Option {
	return func(e *AppError) {
		e.Context = context
	}
}

// WithCause wraps an underlying error.
func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

// WithStatusCode overrides the status derived from the code.
func WithStatusCode(statusCode int) Option {
	return func(e *AppError) {
		e.StatusCode = statusCode
	}
}

// External marks a failure of a third-party service.
func External(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusServiceUnavailable))
}

// Wrap returns err unchanged when it already is an AppError (filling in an
// empty context), or wraps it with code otherwise.
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if context != "" && appErr.Context == "" {
			appErr.Context = context
		}
		return appErr
	}

	return New(code, WithContext(context), WithCause(err))
}

// IsAppError reports whether err wraps an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the code, CodeUnknownError for plain errors.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

func getDefaultStatusCode(code Code) int {
	c := string(code)
	switch {
	case strings.Contains(c, "NOT_FOUND"), code == CodeCacheMiss:
		return http.StatusNotFound
	case strings.Contains(c, "INVALID"), code == CodeRequiredField, code == CodeValidationError:
		return http.StatusBadRequest
	case strings.Contains(c, "CONNECTION"),
		strings.Contains(c, "TIMEOUT"),
		strings.Contains(c, "CIRCUIT"),
		strings.Contains(c, "UNAVAILABLE"):
		return http.StatusServiceUnavailable
	case code == CodeRateLimitExceeded, code == CodeTelegramRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
