/*
Package catalog is the menu subdomain: cafes, their menu items, and the stock
ledger invariant. The order engine is the only writer of available_quantity
during checkout and cancellation; restock and availability toggles are
operator-driven mutations that go through the MenuItem aggregate.
*/
package catalog

import (
	"time"

	"cantina/domain/shared"
)

// MenuItem aggregate root. Holds the purchasable item's price, stock counters
// and preparation time. Invariant: 0 <= availableQuantity, and restocks never
// push availableQuantity above maxDailyQuantity (cancellation restores are
// deliberately uncapped, see Restore).
type MenuItem struct {
	id               string
	cafeID           string
	name             string
	description      string
	price            shared.Money
	availableQty     int
	maxDailyQty      int
	isAvailable      bool
	preparationTime  int // minutes
	version          int
	createdAt        time.Time
	updatedAt        time.Time

	events []shared.DomainEvent
}

// NewMenuItem creates a menu item for a cafe.
func NewMenuItem(id, cafeID, name, description string, price shared.Money, maxDailyQty, preparationTime int) (*MenuItem, error) {
	if id == "" || cafeID == "" {
		return nil, shared.NewValidationError("menu item", "id", "menu item and cafe ids are required")
	}
	if name == "" {
		return nil, shared.NewValidationError("menu item", "name", "menu item name is required")
	}
	if !price.IsPositive() {
		return nil, shared.NewValidationError("menu item", "price", "price must be positive")
	}
	if maxDailyQty < 0 {
		return nil, shared.NewValidationError("menu item", "max_daily_quantity", "max daily quantity must not be negative")
	}
	if preparationTime < 0 {
		return nil, shared.NewValidationError("menu item", "preparation_time", "preparation time must not be negative")
	}

	now := time.Now()
	return &MenuItem{
		id:              id,
		cafeID:          cafeID,
		name:            name,
		description:     description,
		price:           price,
		availableQty:    0,
		maxDailyQty:     maxDailyQty,
		isAvailable:     true,
		preparationTime: preparationTime,
		version:         0,
		createdAt:       now,
		updatedAt:       now,
		events:          make([]shared.DomainEvent, 0),
	}, nil
}

// CanFulfill reports whether an order line for qty can currently be served.
func (m *MenuItem) CanFulfill(qty int) bool {
	return m.isAvailable && qty > 0 && qty <= m.availableQty
}

// Deduct removes qty from the available stock.
// The MySQL repository performs this as a conditional UPDATE instead of a
// load-modify-save; this method carries the same rule for in-memory use.
func (m *MenuItem) Deduct(qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("menu item", "quantity", "quantity must be positive")
	}
	if qty > m.availableQty {
		return NewInsufficientStockError(m.id, m.name, qty, m.availableQty)
	}
	m.availableQty -= qty
	m.touch()
	return nil
}

// Restore returns qty units to the available stock after a cancellation.
// Deliberately uncapped: the restored quantity was genuinely available before
// the order was placed, even if a restock moved max_daily_quantity since.
func (m *MenuItem) Restore(qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("menu item", "quantity", "quantity must be positive")
	}
	m.availableQty += qty
	m.touch()
	return nil
}

// Restock sets the available quantity, clamped to max_daily_quantity, and
// forces the item back on the menu.
func (m *MenuItem) Restock(qty int) error {
	if qty < 0 {
		return shared.NewValidationError("menu item", "quantity", "restock quantity must not be negative")
	}
	if qty > m.maxDailyQty {
		qty = m.maxDailyQty
	}
	m.availableQty = qty
	m.isAvailable = true
	m.touch()
	m.events = append(m.events, NewItemRestockedEvent(m.id, m.cafeID, m.name, m.availableQty))
	return nil
}

// RestockToMax resets the available quantity to the daily maximum.
func (m *MenuItem) RestockToMax() error {
	return m.Restock(m.maxDailyQty)
}

// ToggleAvailability flips is_available. Toggling off zeroes the stock; the
// quantity is not preserved for a later toggle-back.
func (m *MenuItem) ToggleAvailability() {
	m.isAvailable = !m.isAvailable
	if !m.isAvailable {
		m.availableQty = 0
	}
	m.touch()
	m.events = append(m.events, NewItemAvailabilityChangedEvent(m.id, m.cafeID, m.name, m.isAvailable, m.availableQty))
}

func (m *MenuItem) touch() {
	m.updatedAt = time.Now()
}

func (m *MenuItem) ID() string             { return m.id }
func (m *MenuItem) CafeID() string         { return m.cafeID }
func (m *MenuItem) Name() string           { return m.name }
func (m *MenuItem) Description() string    { return m.description }
func (m *MenuItem) Price() shared.Money    { return m.price }
func (m *MenuItem) AvailableQuantity() int { return m.availableQty }
func (m *MenuItem) MaxDailyQuantity() int  { return m.maxDailyQty }
func (m *MenuItem) IsAvailable() bool      { return m.isAvailable }
func (m *MenuItem) PreparationTime() int   { return m.preparationTime }
func (m *MenuItem) Version() int           { return m.version }
func (m *MenuItem) CreatedAt() time.Time   { return m.createdAt }
func (m *MenuItem) UpdatedAt() time.Time   { return m.updatedAt }

// IncrementVersionForSave is called by the repository after a successful save.
func (m *MenuItem) IncrementVersionForSave() {
	m.version++
}

// PullEvents returns and clears the recorded domain events.
func (m *MenuItem) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(m.events))
	copy(events, m.events)
	m.events = make([]shared.DomainEvent, 0)
	return events
}

// ItemReconstructionDTO rebuilds a MenuItem from storage.
// Repository-layer use only.
type ItemReconstructionDTO struct {
	ID              string
	CafeID          string
	Name            string
	Description     string
	Price           shared.Money
	AvailableQty    int
	MaxDailyQty     int
	IsAvailable     bool
	PreparationTime int
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RebuildItemFromDTO reconstructs the aggregate without firing creation rules.
func RebuildItemFromDTO(dto ItemReconstructionDTO) *MenuItem {
	return &MenuItem{
		id:              dto.ID,
		cafeID:          dto.CafeID,
		name:            dto.Name,
		description:     dto.Description,
		price:           dto.Price,
		availableQty:    dto.AvailableQty,
		maxDailyQty:     dto.MaxDailyQty,
		isAvailable:     dto.IsAvailable,
		preparationTime: dto.PreparationTime,
		version:         dto.Version,
		createdAt:       dto.CreatedAt,
		updatedAt:       dto.UpdatedAt,
	}
}

var _ shared.AggregateRoot = (*MenuItem)(nil)
