package mocks

import (
	"context"
	"sync"

	"cantina/domain/feedback"
)

// MockFeedbackRepository keeps feedback entries in a map keyed by order id.
type MockFeedbackRepository struct {
	mu      sync.RWMutex
	byOrder map[string]*feedback.Feedback
}

func NewMockFeedbackRepository() *MockFeedbackRepository {
	return &MockFeedbackRepository{
		byOrder: make(map[string]*feedback.Feedback),
	}
}

func (r *MockFeedbackRepository) Save(ctx context.Context, f *feedback.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byOrder[f.OrderID()]; exists {
		return feedback.NewAlreadySubmittedError(f.OrderID())
	}
	r.byOrder[f.OrderID()] = f
	return nil
}

func (r *MockFeedbackRepository) FindByOrder(ctx context.Context, orderID string) (*feedback.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byOrder[orderID]
	if !ok {
		return nil, feedback.NewFeedbackNotFoundError(orderID)
	}
	return f, nil
}

func (r *MockFeedbackRepository) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byOrder[orderID]
	return ok, nil
}

func (r *MockFeedbackRepository) FindByCafe(ctx context.Context, cafeID string) ([]*feedback.Feedback, error) {
	return r.filter(func(f *feedback.Feedback) bool { return f.CafeID() == cafeID }), nil
}

func (r *MockFeedbackRepository) FindByCustomer(ctx context.Context, customerID string) ([]*feedback.Feedback, error) {
	return r.filter(func(f *feedback.Feedback) bool { return f.CustomerID() == customerID }), nil
}

func (r *MockFeedbackRepository) filter(keep func(*feedback.Feedback) bool) []*feedback.Feedback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*feedback.Feedback, 0)
	for _, f := range r.byOrder {
		if keep(f) {
			matched = append(matched, f)
		}
	}
	return matched
}

var _ feedback.Repository = (*MockFeedbackRepository)(nil)
