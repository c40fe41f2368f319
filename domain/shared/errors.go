/*
Package shared holds the domain kernel: value objects, the aggregate root
contract, domain events, and the error vocabulary used by every subdomain.

Errors follow the sentinel + structured error pattern:
 1. Sentinel errors classify the failure for errors.Is() checks.
 2. DomainError carries entity/field context and captures the call stack at
    creation; formatting is deferred until a log line actually needs it.
 3. Domain errors never carry transport concepts (no HTTP status codes here).
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// ErrNotFound - the requested cafe/item/order does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden - the actor lacks the required role or ownership.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput - malformed or out-of-range caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientStock - requested quantity exceeds current availability.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidState - the operation is not permitted from the current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict - duplicate resource.
	ErrConflict = errors.New("conflict")

	// ErrConcurrentModification - optimistic lock version mismatch. Kept
	// separate from ErrConflict so the transaction retry can target it.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrPaymentDeclined - the payment collaborator reported a failure.
	// Distinct from ErrInvalidInput: the request was well-formed.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrInternal - unexpected persistence or infrastructure failure.
	ErrInternal = errors.New("internal error")
)

// ============================================================================
// Structured domain error
// ============================================================================

// DomainError is a structured error carrying business context and the stack
// of the creation point. Supports errors.Is() through Unwrap.
type DomainError struct {
	// Err is the underlying sentinel, used for errors.Is() classification.
	Err error

	// Entity names the aggregate the error relates to ("order", "menu item").
	Entity string

	// Message is the human-readable description surfaced to callers.
	Message string

	// Field optionally names the offending field for validation errors.
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured frames on demand (called at log time only).
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// Stacker is implemented by errors that can report their creation stack.
// The API layer uses it to log the point of failure.
type Stacker interface {
	Stack() []string
}

// ============================================================================
// Stack capture helpers (exported for subdomain error packages)
// ============================================================================

// CaptureStack captures the current call stack.
// skip is the number of frames to drop (usually 3: Callers, CaptureStack, NewXxxError).
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders captured frames, filtering runtime internals.
// Returns at most 10 frames.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// ============================================================================
// Constructors
// ============================================================================

// NewNotFoundError creates a "not found" domain error with the entity name.
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewForbiddenError creates a "forbidden" domain error.
func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates an "invalid input" domain error.
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a "conflict" domain error.
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewInvalidStateError creates an "invalid state" domain error.
func NewInvalidStateError(entity, message string) error {
	return &DomainError{
		Err:     ErrInvalidState,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}
