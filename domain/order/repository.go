package order

import "context"

// Repository is the persistence port for the order aggregate.
//
// Save inserts the order together with its lines in the ambient transaction
// and maps an order_number unique-index violation to a conflict error.
// Update rewrites mutable fields guarded by the optimistic-lock version and
// returns a conflict when the guard misses.
type Repository interface {
	Save(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, orderID string) (*Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	FindByCafe(ctx context.Context, cafeID string) ([]*Order, error)
}
