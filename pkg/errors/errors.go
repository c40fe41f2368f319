// Package errors defines the application-level error envelope. Domain errors
// stay transport-free; this package assigns them stable error codes and the
// HTTP status mapping lives here alone.
package errors

import (
	"errors"
	"net/http"

	"cantina/domain/shared"
)

// ErrorCode is a stable machine-readable failure classifier.
type ErrorCode string

const (
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	CodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	CodeInvalidOrderState ErrorCode = "INVALID_ORDER_STATE"
	CodePaymentDeclined   ErrorCode = "PAYMENT_DECLINED"
)

// AppError pairs a code with a caller-facing message.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return string(e.Code) + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode maps the code onto an HTTP status.
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeInsufficientStock, CodeInvalidOrderState:
		return http.StatusUnprocessableEntity
	case CodePaymentDeclined:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// New creates an error with a code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// FromDomainError classifies a domain error by its sentinel. The original
// error stays in the chain for logging.
func FromDomainError(err error) *AppError {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	case errors.Is(err, shared.ErrForbidden):
		return Wrap(err, CodeForbidden, err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, err.Error())
	case errors.Is(err, shared.ErrInsufficientStock):
		return Wrap(err, CodeInsufficientStock, err.Error())
	case errors.Is(err, shared.ErrInvalidState):
		return Wrap(err, CodeInvalidOrderState, err.Error())
	case errors.Is(err, shared.ErrConflict), errors.Is(err, shared.ErrConcurrentModification):
		return Wrap(err, CodeConflict, err.Error())
	case errors.Is(err, shared.ErrPaymentDeclined):
		return Wrap(err, CodePaymentDeclined, err.Error())
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
