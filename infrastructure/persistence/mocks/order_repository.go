package mocks

import (
	"context"
	"sort"
	"sync"

	"cantina/domain/order"
)

// MockOrderRepository keeps orders in a map.
type MockOrderRepository struct {
	mu           sync.RWMutex
	orders       map[string]*order.Order
	orderNumbers map[string]struct{}
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders:       make(map[string]*order.Order),
		orderNumbers: make(map[string]struct{}),
	}
}

func (r *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orderNumbers[o.OrderNumber()]; exists {
		return order.NewDuplicateOrderNumberError(o.OrderNumber())
	}
	r.orders[o.ID()] = o
	r.orderNumbers[o.OrderNumber()] = struct{}{}
	o.MarkPersisted()
	o.IncrementVersionForSave()
	return nil
}

func (r *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID()]; !ok {
		return order.NewOrderNotFoundError(o.ID())
	}
	r.orders[o.ID()] = o
	o.IncrementVersionForSave()
	return nil
}

func (r *MockOrderRepository) FindByID(ctx context.Context, orderID string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, order.NewOrderNotFoundError(orderID)
	}
	return o, nil
}

func (r *MockOrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.filter(func(o *order.Order) bool { return o.CustomerID() == customerID }), nil
}

func (r *MockOrderRepository) FindByCafe(ctx context.Context, cafeID string) ([]*order.Order, error) {
	return r.filter(func(o *order.Order) bool { return o.CafeID() == cafeID }), nil
}

func (r *MockOrderRepository) filter(keep func(*order.Order) bool) []*order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*order.Order, 0)
	for _, o := range r.orders {
		if keep(o) {
			matched = append(matched, o)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})
	return matched
}

var _ order.Repository = (*MockOrderRepository)(nil)
