package feedback

import "context"

// Repository is the persistence port for order feedback.
type Repository interface {
	Save(ctx context.Context, f *Feedback) error
	FindByOrder(ctx context.Context, orderID string) (*Feedback, error)
	ExistsForOrder(ctx context.Context, orderID string) (bool, error)
	FindByCafe(ctx context.Context, cafeID string) ([]*Feedback, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*Feedback, error)
}
