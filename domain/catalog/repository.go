package catalog

import "context"

// Repository is the persistence port for cafes and menu items.
//
// DecrementStock is the hot path of checkout. Implementations must make the
// check-and-decrement atomic (the MySQL implementation issues a conditional
// UPDATE guarded by available_quantity >= qty) and return
// shared.ErrInsufficientStock when the guard does not match; callers re-read
// the item to produce the customer-facing message.
type Repository interface {
	FindCafe(ctx context.Context, cafeID string) (*Cafe, error)
	FindAllCafes(ctx context.Context) ([]*Cafe, error)
	FindItem(ctx context.Context, itemID string) (*MenuItem, error)
	FindItemsByCafe(ctx context.Context, cafeID string) ([]*MenuItem, error)

	SaveCafe(ctx context.Context, cafe *Cafe) error
	SaveItem(ctx context.Context, item *MenuItem) error

	DecrementStock(ctx context.Context, itemID string, qty int) error
	RestoreStock(ctx context.Context, itemID string, qty int) error
}
