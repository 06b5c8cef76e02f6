package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Category groups error codes by where they originate.
type Category string

const (
	CategoryToast      Category = "toast"
	CategoryRequest    Category = "request"
	CategoryValidation Category = "validation"
	CategoryConfig     Category = "config"
	CategoryService    Category = "service"
)

// ToastError is a coded error with an optional detail, hint and cause.
type ToastError struct {
	// Code is the registry code (e.g. "T001").
	Code string

	// Category is the error group.
	Category Category

	// Message is a short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Field names the request or config field at fault, if any.
	Field string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Status is the HTTP status handlers respond with.
	Status int

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ToastError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ToastError) Unwrap() error {
	return e.Wrapped
}

// Is matches another ToastError by code.
func (e *ToastError) Is(target error) bool {
	t, ok := target.(*ToastError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithDetail sets the detailed explanation.
func (e *ToastError) WithDetail(format string, args ...any) *ToastError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithField names the offending field.
func (e *ToastError) WithField(field string) *ToastError {
	e.Field = field
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *ToastError) WithSuggestion(s string) *ToastError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *ToastError) Wrap(err error) *ToastError {
	e.Wrapped = err
	return e
}

// HTTPStatus returns the status handlers respond with.
func (e *ToastError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// New creates a ToastError from a registered code.
func New(code string) *ToastError {
	template, ok := registry[code]
	if !ok {
		return &ToastError{
			Code:    code,
			Message: "Unknown error",
			Status:  http.StatusInternalServerError,
		}
	}
	return &ToastError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		Status:   template.Status,
	}
}

// Newf creates an uncoded ToastError with a formatted message.
func Newf(category Category, format string, args ...any) *ToastError {
	return &ToastError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Status:   http.StatusInternalServerError,
	}
}

// FromError returns err as a ToastError, wrapping it under code when it is
// not one already.
func FromError(err error, code string) *ToastError {
	if err == nil {
		return nil
	}
	var te *ToastError
	if stderrors.As(err, &te) {
		return te
	}
	return New(code).Wrap(err)
}

// Sentinels for errors.Is checks.
var (
	ErrUnknownToast       = &ToastError{Code: CodeUnknownToast}
	ErrInvalidPosition    = &ToastError{Code: CodeInvalidPosition}
	ErrInvalidInteraction = &ToastError{Code: CodeInvalidInteraction}
	ErrServiceUnavailable = &ToastError{Code: CodeServiceUnavailable}
)
