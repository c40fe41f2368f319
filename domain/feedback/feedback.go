// Package feedback holds post-delivery order ratings. One feedback entry per
// order, written by the order's customer once the food actually reached them.
package feedback

import (
	"time"

	"cantina/domain/shared"
)

// Feedback is a customer's rating of one completed order.
type Feedback struct {
	id         string
	orderID    string
	customerID string
	cafeID     string
	rating     int
	comment    string
	createdAt  time.Time
}

// NewFeedback creates a rating for an order. The service has already checked
// ownership, order status, and that no feedback exists for the order.
func NewFeedback(id, orderID, customerID, cafeID string, rating int, comment string) (*Feedback, error) {
	if id == "" {
		return nil, shared.NewValidationError("feedback", "id", "feedback id is required")
	}
	if orderID == "" {
		return nil, shared.NewValidationError("feedback", "order_id", "order id is required")
	}
	if customerID == "" {
		return nil, shared.NewValidationError("feedback", "customer_id", "customer id is required")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewValidationError("feedback", "rating", "rating must be between 1 and 5")
	}
	return &Feedback{
		id:         id,
		orderID:    orderID,
		customerID: customerID,
		cafeID:     cafeID,
		rating:     rating,
		comment:    comment,
		createdAt:  time.Now(),
	}, nil
}

func (f *Feedback) ID() string           { return f.id }
func (f *Feedback) OrderID() string      { return f.orderID }
func (f *Feedback) CustomerID() string   { return f.customerID }
func (f *Feedback) CafeID() string       { return f.cafeID }
func (f *Feedback) Rating() int          { return f.rating }
func (f *Feedback) Comment() string      { return f.comment }
func (f *Feedback) CreatedAt() time.Time { return f.createdAt }

// ReconstructionDTO rebuilds a Feedback from storage.
type ReconstructionDTO struct {
	ID         string
	OrderID    string
	CustomerID string
	CafeID     string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// RebuildFromDTO reconstructs the entity without firing creation rules.
func RebuildFromDTO(dto ReconstructionDTO) *Feedback {
	return &Feedback{
		id:         dto.ID,
		orderID:    dto.OrderID,
		customerID: dto.CustomerID,
		cafeID:     dto.CafeID,
		rating:     dto.Rating,
		comment:    dto.Comment,
		createdAt:  dto.CreatedAt,
	}
}
