// Package feedback orchestrates order ratings. The eligibility gate lives
// here: ownership, order status, and the one-feedback-per-order rule are all
// checked before the domain entity is created.
package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cantina/domain/catalog"
	"cantina/domain/feedback"
	"cantina/domain/order"
	"cantina/domain/shared"
	"cantina/pkg/logger"
)

// Service coordinates feedback submission and queries.
type Service struct {
	feedbackRepo feedback.Repository
	orderRepo    order.Repository
	catalogRepo  catalog.Repository
	uowFactory   shared.UnitOfWorkFactory
}

// NewService creates the feedback application service.
func NewService(feedbackRepo feedback.Repository, orderRepo order.Repository, catalogRepo catalog.Repository, uowFactory shared.UnitOfWorkFactory) *Service {
	return &Service{
		feedbackRepo: feedbackRepo,
		orderRepo:    orderRepo,
		catalogRepo:  catalogRepo,
		uowFactory:   uowFactory,
	}
}

// SubmitRequest rates one order. The order id comes from the URL path.
type SubmitRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Response is the wire form of a feedback entry.
type Response struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	CafeID     string    `json:"cafe_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toResponse(f *feedback.Feedback) *Response {
	return &Response{
		ID:         f.ID(),
		OrderID:    f.OrderID(),
		CustomerID: f.CustomerID(),
		CafeID:     f.CafeID(),
		Rating:     f.Rating(),
		Comment:    f.Comment(),
		CreatedAt:  f.CreatedAt(),
	}
}

// Submit records feedback for an order. The order must belong to the actor,
// must have reached the customer (READY or DELIVERED), and must not have been
// rated before.
func (s *Service) Submit(ctx context.Context, actor shared.Actor, orderID string, req SubmitRequest) (*Response, error) {
	var submitted *feedback.Feedback
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(actor) {
			return feedback.NewNotOrderOwnerError(orderID)
		}
		if o.Status() != order.StatusDelivered && o.Status() != order.StatusReady {
			return feedback.NewOrderNotEligibleError(orderID, string(o.Status()))
		}

		// Checked in the same transaction as the insert; the unique index
		// on order_id backstops a race between two submissions.
		exists, err := s.feedbackRepo.ExistsForOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if exists {
			return feedback.NewAlreadySubmittedError(orderID)
		}

		f, err := feedback.NewFeedback(uuid.NewString(), orderID, actor.UserID, o.CafeID(), req.Rating, req.Comment)
		if err != nil {
			return err
		}
		if err := s.feedbackRepo.Save(ctx, f); err != nil {
			return err
		}
		submitted = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("feedback submitted",
		zap.String("order_id", orderID),
		zap.Int("rating", req.Rating))
	return toResponse(submitted), nil
}

// GetForOrder returns the feedback of one order, visible to the order's
// customer, the cafe's owner, and super admins.
func (s *Service) GetForOrder(ctx context.Context, actor shared.Actor, orderID string) (*Response, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(actor) && actor.Role != shared.RoleSuperAdmin {
		allowed := false
		if actor.IsCafeOwner() {
			cafe, err := s.catalogRepo.FindCafe(ctx, o.CafeID())
			allowed = err == nil && cafe.IsOwnedBy(actor)
		}
		if !allowed {
			return nil, feedback.NewNotOrderOwnerError(orderID)
		}
	}

	f, err := s.feedbackRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toResponse(f), nil
}

// ListForCafe returns every feedback entry for a cafe the actor owns.
func (s *Service) ListForCafe(ctx context.Context, actor shared.Actor, cafeID string) ([]*Response, error) {
	if actor.Role != shared.RoleSuperAdmin {
		cafe, err := s.catalogRepo.FindCafe(ctx, cafeID)
		if err != nil {
			return nil, err
		}
		if !cafe.IsOwnedBy(actor) {
			return nil, shared.NewForbiddenError("cafe", "cafe belongs to another owner")
		}
	}

	entries, err := s.feedbackRepo.FindByCafe(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	responses := make([]*Response, 0, len(entries))
	for _, f := range entries {
		responses = append(responses, toResponse(f))
	}
	return responses, nil
}

// ListMine returns every feedback entry the actor submitted.
func (s *Service) ListMine(ctx context.Context, actor shared.Actor) ([]*Response, error) {
	entries, err := s.feedbackRepo.FindByCustomer(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	responses := make([]*Response, 0, len(entries))
	for _, f := range entries {
		responses = append(responses, toResponse(f))
	}
	return responses, nil
}
