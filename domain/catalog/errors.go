package catalog

import (
	"fmt"

	"cantina/domain/shared"
)

// InsufficientStockError is returned when an order line asks for more units
// than the item currently has. It carries enough detail for the API layer to
// tell the customer what to reduce.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Requested int
	Available int
	stack     []uintptr
}

// NewInsufficientStockError builds the rich stock failure for one item.
func NewInsufficientStockError(itemID, itemName string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ItemID:    itemID,
		ItemName:  itemName,
		Requested: requested,
		Available: available,
		stack:     shared.CaptureStack(3),
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough %s available, only %d left", e.ItemName, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

func (e *InsufficientStockError) Stack() []string {
	return shared.FormatStack(e.stack)
}

// NewCafeNotFoundError reports an unknown or inactive-for-lookup cafe id.
func NewCafeNotFoundError(cafeID string) error {
	return shared.NewNotFoundError(fmt.Sprintf("cafe %s", cafeID))
}

// NewItemNotFoundError reports an unknown menu item id.
func NewItemNotFoundError(itemID string) error {
	return shared.NewNotFoundError(fmt.Sprintf("menu item %s", itemID))
}

// NewItemUnavailableError reports an order line against an item that is not
// currently purchasable in the target cafe. The id is echoed so multi-line
// orders can tell which line failed.
func NewItemUnavailableError(itemID string) error {
	return shared.NewValidationError("order", "items",
		fmt.Sprintf("menu item %s not found or not available", itemID))
}

var _ shared.Stacker = (*InsufficientStockError)(nil)
