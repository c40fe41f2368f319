package order

import "time"

// EventLine is the per-item payload carried by order events. Cancellation
// consumers use it to restore stock without re-reading the order.
type EventLine struct {
	MenuItemID string `json:"menu_item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int    `json:"quantity"`
}

func eventLines(o *Order) []EventLine {
	lines := make([]EventLine, 0, len(o.items))
	for _, it := range o.items {
		lines = append(lines, EventLine{
			MenuItemID: it.menuItemID,
			ItemName:   it.itemName,
			Quantity:   it.quantity,
		})
	}
	return lines
}

// OrderPlacedEvent fires once when the order is created.
type OrderPlacedEvent struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	CustomerID  string      `json:"customer_id"`
	CafeID      string      `json:"cafe_id"`
	TotalAmount int64       `json:"total_amount"`
	Currency    string      `json:"currency"`
	Items       []EventLine `json:"items"`
	occurredOn  time.Time   `json:"-"`
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
		CustomerID:  o.customerID,
		CafeID:      o.cafeID,
		TotalAmount: o.totalAmount.Amount(),
		Currency:    o.totalAmount.Currency(),
		Items:       eventLines(o),
		occurredOn:  time.Now(),
	}
}

func (e *OrderPlacedEvent) EventName() string     { return "order.placed" }
func (e *OrderPlacedEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *OrderPlacedEvent) AggregateID() string   { return e.OrderID }

// OrderStatusChangedEvent fires on every pipeline move.
type OrderStatusChangedEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  string    `json:"customer_id"`
	CafeID      string    `json:"cafe_id"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	occurredOn  time.Time `json:"-"`
}

func NewOrderStatusChangedEvent(o *Order, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
		CustomerID:  o.customerID,
		CafeID:      o.cafeID,
		FromStatus:  string(from),
		ToStatus:    string(to),
		occurredOn:  time.Now(),
	}
}

func (e *OrderStatusChangedEvent) EventName() string     { return "order.status_changed" }
func (e *OrderStatusChangedEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *OrderStatusChangedEvent) AggregateID() string   { return e.OrderID }

// OrderCancelledEvent fires when the customer withdraws a pending order.
type OrderCancelledEvent struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	CustomerID  string      `json:"customer_id"`
	CafeID      string      `json:"cafe_id"`
	FromStatus  string      `json:"from_status"`
	Items       []EventLine `json:"items"`
	occurredOn  time.Time   `json:"-"`
}

func NewOrderCancelledEvent(o *Order, from OrderStatus) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
		CustomerID:  o.customerID,
		CafeID:      o.cafeID,
		FromStatus:  string(from),
		Items:       eventLines(o),
		occurredOn:  time.Now(),
	}
}

func (e *OrderCancelledEvent) EventName() string     { return "order.cancelled" }
func (e *OrderCancelledEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *OrderCancelledEvent) AggregateID() string   { return e.OrderID }
