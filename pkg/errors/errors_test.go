package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"cantina/domain/shared"
)

func TestFromDomainErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		code       ErrorCode
		httpStatus int
	}{
		{"not found", shared.NewNotFoundError("order ord-1"), CodeNotFound, http.StatusNotFound},
		{"forbidden", shared.NewForbiddenError("order", "belongs to another customer"), CodeForbidden, http.StatusForbidden},
		{"validation", shared.NewValidationError("order", "items", "order must contain at least one item"), CodeValidation, http.StatusBadRequest},
		{"invalid state", shared.NewInvalidStateError("order", "cannot update"), CodeInvalidOrderState, http.StatusUnprocessableEntity},
		{"conflict", shared.NewConflictError("order", "order number exists"), CodeConflict, http.StatusConflict},
		{"stock", shared.ErrInsufficientStock, CodeInsufficientStock, http.StatusUnprocessableEntity},
		{"payment", shared.ErrPaymentDeclined, CodePaymentDeclined, http.StatusPaymentRequired},
		{"unknown", assertedErr{}, CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromDomainError(tc.err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.httpStatus, appErr.HTTPStatusCode())
		})
	}
}

type assertedErr struct{}

func (assertedErr) Error() string { return "boom" }

func TestInternalErrorHidesDetail(t *testing.T) {
	appErr := FromDomainError(assertedErr{})
	assert.Equal(t, "internal server error", appErr.Message)
}

func TestIs(t *testing.T) {
	err := NotFound("order not found")
	assert.True(t, Is(err, CodeNotFound))
	assert.False(t, Is(err, CodeConflict))
	assert.False(t, Is(assertedErr{}, CodeNotFound))
}

func TestRateLimitStatus(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequests("slow down").HTTPStatusCode())
}
