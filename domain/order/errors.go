package order

import (
	"fmt"

	"cantina/domain/shared"
)

// NewOrderNotFoundError reports an unknown order id.
func NewOrderNotFoundError(orderID string) error {
	return shared.NewNotFoundError(fmt.Sprintf("order %s", orderID))
}

// NewInvalidStateError reports a lifecycle move the order does not allow.
func NewInvalidStateError(orderID, reason string) error {
	return shared.NewInvalidStateError(fmt.Sprintf("order %s", orderID), reason)
}

// NewNotCancellableError reports a cancellation outside the pending window.
func NewNotCancellableError(orderID string, status OrderStatus) error {
	return shared.NewInvalidStateError(fmt.Sprintf("order %s", orderID),
		fmt.Sprintf("only pending orders can be cancelled, current status is %s", status))
}

// NewNotOwnerError reports an access attempt by someone other than the
// order's customer.
func NewNotOwnerError(orderID string) error {
	return shared.NewForbiddenError(fmt.Sprintf("order %s", orderID), "order belongs to another customer")
}

// NewDuplicateOrderNumberError reports an order number collision on insert.
func NewDuplicateOrderNumberError(orderNumber string) error {
	return shared.NewConflictError("order", fmt.Sprintf("order number %s already exists", orderNumber))
}
