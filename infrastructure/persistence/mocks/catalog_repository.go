// Package mocks provides in-memory repository implementations. They back the
// application tests and the database.type=mock runtime mode; behavior mirrors
// the MySQL implementations, including atomic check-and-decrement semantics.
package mocks

import (
	"context"
	"sync"

	"cantina/domain/catalog"
	"cantina/domain/shared"
)

// MockCatalogRepository keeps cafes and menu items in maps. The mutex makes
// DecrementStock an atomic check-and-decrement, matching the conditional
// UPDATE of the MySQL implementation.
type MockCatalogRepository struct {
	mu    sync.RWMutex
	cafes map[string]*catalog.Cafe
	items map[string]*catalog.MenuItem
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		cafes: make(map[string]*catalog.Cafe),
		items: make(map[string]*catalog.MenuItem),
	}
}

// NewMockCatalogRepositoryWithData seeds a demo cafe with a small menu.
func NewMockCatalogRepositoryWithData() *MockCatalogRepository {
	repo := NewMockCatalogRepository()

	cafe, _ := catalog.NewCafe("cafe-1", "North Lobby Cafe", "Coffee and quick bites",
		"Building A, Floor 1", "555-0100", "owner-1")
	repo.cafes[cafe.ID()] = cafe

	seed := []struct {
		id, name, desc string
		price          int64
		maxDaily, prep int
		stock          int
	}{
		{"item-1", "Latte", "Double shot, steamed milk", 450, 100, 5, 50},
		{"item-2", "Americano", "Long black", 325, 100, 3, 50},
		{"item-3", "Turkey Sandwich", "On sourdough", 875, 40, 10, 20},
		{"item-4", "Fruit Cup", "Seasonal fruit", 400, 30, 2, 15},
	}
	for _, s := range seed {
		item, _ := catalog.NewMenuItem(s.id, cafe.ID(), s.name, s.desc,
			shared.NewMoney(s.price, "USD"), s.maxDaily, s.prep)
		_ = item.Restock(s.stock)
		item.PullEvents()
		repo.items[item.ID()] = item
	}

	return repo
}

func (r *MockCatalogRepository) FindCafe(ctx context.Context, cafeID string) (*catalog.Cafe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cafe, ok := r.cafes[cafeID]
	if !ok {
		return nil, catalog.NewCafeNotFoundError(cafeID)
	}
	return cafe, nil
}

func (r *MockCatalogRepository) FindAllCafes(ctx context.Context) ([]*catalog.Cafe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cafes := make([]*catalog.Cafe, 0, len(r.cafes))
	for _, cafe := range r.cafes {
		cafes = append(cafes, cafe)
	}
	return cafes, nil
}

func (r *MockCatalogRepository) FindItem(ctx context.Context, itemID string) (*catalog.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, catalog.NewItemNotFoundError(itemID)
	}
	return item, nil
}

func (r *MockCatalogRepository) FindItemsByCafe(ctx context.Context, cafeID string) ([]*catalog.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*catalog.MenuItem, 0)
	for _, item := range r.items {
		if item.CafeID() == cafeID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *MockCatalogRepository) SaveCafe(ctx context.Context, cafe *catalog.Cafe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cafes[cafe.ID()] = cafe
	return nil
}

func (r *MockCatalogRepository) SaveItem(ctx context.Context, item *catalog.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID()] = item
	item.IncrementVersionForSave()
	return nil
}

func (r *MockCatalogRepository) DecrementStock(ctx context.Context, itemID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return shared.ErrInsufficientStock
	}
	if !item.CanFulfill(qty) {
		return shared.ErrInsufficientStock
	}
	return item.Deduct(qty)
}

func (r *MockCatalogRepository) RestoreStock(ctx context.Context, itemID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return catalog.NewItemNotFoundError(itemID)
	}
	return item.Restore(qty)
}

var _ catalog.Repository = (*MockCatalogRepository)(nil)
