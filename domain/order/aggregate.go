/*
Package order holds the order lifecycle aggregate. An Order is created from
already-priced menu lines, moves through the preparation pipeline, and can be
cancelled by its owner while still pending. Stock movement itself lives in the
catalog subdomain; this aggregate only records what was reserved so a
cancellation knows what to give back.
*/
package order

import (
	"fmt"
	"math/rand/v2"
	"time"

	"cantina/domain/shared"
)

// OrderStatus is the preparation pipeline state.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusAccepted  OrderStatus = "ACCEPTED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// ParseStatus maps a wire value onto a known status.
func ParseStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether no further status updates are accepted.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentStatus tracks the charge attached to the order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// OrderItem is a priced line inside the order. Immutable once created; the
// unit price and name are snapshotted so later menu edits do not rewrite
// order history.
type OrderItem struct {
	menuItemID   string
	itemName     string
	quantity     int
	unitPrice    shared.Money
	subtotal     shared.Money
	instructions string
}

// NewOrderItem snapshots one menu line into the order. Instructions are the
// per-line preparation notes, "" when the customer left none.
func NewOrderItem(menuItemID, itemName string, quantity int, unitPrice shared.Money, instructions string) (OrderItem, error) {
	if menuItemID == "" {
		return OrderItem{}, shared.NewValidationError("order item", "menu_item_id", "menu item id is required")
	}
	if quantity <= 0 {
		return OrderItem{}, shared.NewValidationError("order item", "quantity", "quantity must be positive")
	}
	subtotal, err := unitPrice.Multiply(quantity)
	if err != nil {
		return OrderItem{}, shared.NewValidationError("order item", "subtotal", err.Error())
	}
	return OrderItem{
		menuItemID:   menuItemID,
		itemName:     itemName,
		quantity:     quantity,
		unitPrice:    unitPrice,
		subtotal:     subtotal,
		instructions: instructions,
	}, nil
}

func (i OrderItem) MenuItemID() string      { return i.menuItemID }
func (i OrderItem) ItemName() string        { return i.itemName }
func (i OrderItem) Quantity() int           { return i.quantity }
func (i OrderItem) UnitPrice() shared.Money { return i.unitPrice }
func (i OrderItem) Subtotal() shared.Money  { return i.subtotal }
func (i OrderItem) Instructions() string    { return i.instructions }

// Order aggregate root.
type Order struct {
	id                   string
	orderNumber          string
	customerID           string
	cafeID               string
	items                []OrderItem
	totalAmount          shared.Money
	status               OrderStatus
	estimatedPrepTime    int // minutes, max over the lines
	paymentStatus        PaymentStatus
	paymentMethod        string
	paymentTransactionID string
	specialInstructions  string
	version              int
	isNew                bool
	createdAt            time.Time
	updatedAt            time.Time

	events []shared.DomainEvent
}

// NewOrder creates a pending order from priced lines. The caller has already
// validated the lines against the menu and reserved stock for them.
func NewOrder(id, orderNumber, customerID, cafeID string, items []OrderItem, specialInstructions string) (*Order, error) {
	if id == "" {
		return nil, shared.NewValidationError("order", "id", "order id is required")
	}
	if orderNumber == "" {
		return nil, shared.NewValidationError("order", "order_number", "order number is required")
	}
	if customerID == "" {
		return nil, shared.NewValidationError("order", "customer_id", "customer id is required")
	}
	if cafeID == "" {
		return nil, shared.NewValidationError("order", "cafe_id", "cafe id is required")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("order", "items", "order must contain at least one item")
	}

	total := shared.Zero(items[0].subtotal.Currency())
	for _, item := range items {
		var err error
		total, err = total.Add(item.subtotal)
		if err != nil {
			return nil, shared.NewValidationError("order", "total_amount", err.Error())
		}
	}

	now := time.Now()
	o := &Order{
		id:                  id,
		orderNumber:         orderNumber,
		customerID:          customerID,
		cafeID:              cafeID,
		items:               items,
		totalAmount:         total,
		status:              StatusPending,
		estimatedPrepTime:   0,
		paymentStatus:       PaymentPending,
		specialInstructions: specialInstructions,
		version:             0,
		isNew:               true,
		createdAt:           now,
		updatedAt:           now,
		events:              make([]shared.DomainEvent, 0),
	}
	o.events = append(o.events, NewOrderPlacedEvent(o))
	return o, nil
}

// SetEstimatedPrepTime records the kitchen estimate in minutes.
func (o *Order) SetEstimatedPrepTime(minutes int) {
	if minutes < 0 {
		minutes = 0
	}
	o.estimatedPrepTime = minutes
}

// MarkPaid attaches a completed charge to the order.
func (o *Order) MarkPaid(method, transactionID string) error {
	if o.paymentStatus == PaymentCompleted {
		return NewInvalidStateError(o.id, "payment already completed")
	}
	o.paymentStatus = PaymentCompleted
	o.paymentMethod = method
	o.paymentTransactionID = transactionID
	o.updatedAt = time.Now()
	return nil
}

// UpdateStatus moves the order along the preparation pipeline. Orders that
// reached a terminal state reject every further update, and cancellation must
// go through Cancel so the stock restore happens.
func (o *Order) UpdateStatus(target OrderStatus) error {
	if target == StatusCancelled {
		return NewInvalidStateError(o.id, "use cancellation to cancel an order")
	}
	if o.status.IsTerminal() {
		return NewInvalidStateError(o.id, fmt.Sprintf("cannot update order in status %s", o.status))
	}
	if target == o.status {
		return NewInvalidStateError(o.id, fmt.Sprintf("order is already %s", o.status))
	}

	from := o.status
	o.status = target
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderStatusChangedEvent(o, from, target))
	return nil
}

// Cancel withdraws a pending order. Once the kitchen accepted it the window
// is closed and the order must run to completion.
func (o *Order) Cancel() error {
	if o.status != StatusPending {
		return NewNotCancellableError(o.id, o.status)
	}
	from := o.status
	o.status = StatusCancelled
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderCancelledEvent(o, from))
	return nil
}

// IsOwnedBy reports whether actor placed this order.
func (o *Order) IsOwnedBy(actor shared.Actor) bool {
	return o.customerID == actor.UserID
}

func (o *Order) ID() string                   { return o.id }
func (o *Order) OrderNumber() string          { return o.orderNumber }
func (o *Order) CustomerID() string           { return o.customerID }
func (o *Order) CafeID() string               { return o.cafeID }
func (o *Order) TotalAmount() shared.Money    { return o.totalAmount }
func (o *Order) Status() OrderStatus          { return o.status }
func (o *Order) EstimatedPrepTime() int       { return o.estimatedPrepTime }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) PaymentMethod() string        { return o.paymentMethod }
func (o *Order) PaymentTransactionID() string { return o.paymentTransactionID }
func (o *Order) SpecialInstructions() string  { return o.specialInstructions }
func (o *Order) Version() int                 { return o.version }
func (o *Order) IsNew() bool                  { return o.isNew }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// Items returns a copy of the order lines.
func (o *Order) Items() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

// MarkPersisted is called by the repository after the first successful save.
func (o *Order) MarkPersisted() {
	o.isNew = false
}

// IncrementVersionForSave is called by the repository after a successful save.
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// PullEvents returns and clears the recorded domain events.
func (o *Order) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(o.events))
	copy(events, o.events)
	o.events = make([]shared.DomainEvent, 0)
	return events
}

const orderNumberCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOrderNumber builds a short human-readable reference like
// ORD-483921-K7Q2. The timestamp fragment plus random suffix keeps collisions
// rare; the unique index on order_number catches the rest.
func GenerateOrderNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberCharset[rand.IntN(len(orderNumberCharset))]
	}
	return fmt.Sprintf("ORD-%06d-%s", time.Now().Unix()%1_000_000, suffix)
}

// ReconstructionDTO rebuilds an Order from storage. Repository-layer use only.
type ReconstructionDTO struct {
	ID                   string
	OrderNumber          string
	CustomerID           string
	CafeID               string
	Items                []ItemReconstructionDTO
	TotalAmount          shared.Money
	Status               OrderStatus
	EstimatedPrepTime    int
	PaymentStatus        PaymentStatus
	PaymentMethod        string
	PaymentTransactionID string
	SpecialInstructions  string
	Version              int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ItemReconstructionDTO rebuilds one order line from storage.
type ItemReconstructionDTO struct {
	MenuItemID   string
	ItemName     string
	Quantity     int
	UnitPrice    shared.Money
	Subtotal     shared.Money
	Instructions string
}

// RebuildFromDTO reconstructs the aggregate without firing creation rules.
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	items := make([]OrderItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, OrderItem{
			menuItemID:   it.MenuItemID,
			itemName:     it.ItemName,
			quantity:     it.Quantity,
			unitPrice:    it.UnitPrice,
			subtotal:     it.Subtotal,
			instructions: it.Instructions,
		})
	}
	return &Order{
		id:                   dto.ID,
		orderNumber:          dto.OrderNumber,
		customerID:           dto.CustomerID,
		cafeID:               dto.CafeID,
		items:                items,
		totalAmount:          dto.TotalAmount,
		status:               dto.Status,
		estimatedPrepTime:    dto.EstimatedPrepTime,
		paymentStatus:        dto.PaymentStatus,
		paymentMethod:        dto.PaymentMethod,
		paymentTransactionID: dto.PaymentTransactionID,
		specialInstructions:  dto.SpecialInstructions,
		version:              dto.Version,
		isNew:                false,
		createdAt:            dto.CreatedAt,
		updatedAt:            dto.UpdatedAt,
		events:               make([]shared.DomainEvent, 0),
	}
}

var _ shared.AggregateRoot = (*Order)(nil)
