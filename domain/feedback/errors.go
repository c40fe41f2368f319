package feedback

import (
	"fmt"

	"cantina/domain/shared"
)

// NewFeedbackNotFoundError reports an order without feedback.
func NewFeedbackNotFoundError(orderID string) error {
	return shared.NewNotFoundError(fmt.Sprintf("feedback for order %s", orderID))
}

// NewAlreadySubmittedError reports a second feedback attempt for the same order.
func NewAlreadySubmittedError(orderID string) error {
	return shared.NewConflictError("feedback",
		fmt.Sprintf("feedback for order %s already submitted", orderID))
}

// NewOrderNotEligibleError reports feedback against an order that has not
// reached the customer yet.
func NewOrderNotEligibleError(orderID, status string) error {
	return shared.NewInvalidStateError("feedback",
		fmt.Sprintf("order %s is not eligible for feedback in status %s", orderID, status))
}

// NewNotOrderOwnerError reports feedback by someone other than the order's customer.
func NewNotOrderOwnerError(orderID string) error {
	return shared.NewForbiddenError("feedback",
		fmt.Sprintf("order %s belongs to another customer", orderID))
}
