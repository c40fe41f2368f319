package catalog

import "time"

// ItemRestockedEvent fires when an operator resets an item's stock.
type ItemRestockedEvent struct {
	ItemID     string    `json:"item_id"`
	CafeID     string    `json:"cafe_id"`
	ItemName   string    `json:"item_name"`
	NewQty     int       `json:"new_quantity"`
	occurredOn time.Time `json:"-"`
}

func NewItemRestockedEvent(itemID, cafeID, itemName string, newQty int) *ItemRestockedEvent {
	return &ItemRestockedEvent{
		ItemID:     itemID,
		CafeID:     cafeID,
		ItemName:   itemName,
		NewQty:     newQty,
		occurredOn: time.Now(),
	}
}

func (e *ItemRestockedEvent) EventName() string     { return "catalog.item_restocked" }
func (e *ItemRestockedEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *ItemRestockedEvent) AggregateID() string   { return e.ItemID }

// ItemAvailabilityChangedEvent fires when an operator toggles an item on or
// off the menu.
type ItemAvailabilityChangedEvent struct {
	ItemID       string    `json:"item_id"`
	CafeID       string    `json:"cafe_id"`
	ItemName     string    `json:"item_name"`
	IsAvailable  bool      `json:"is_available"`
	RemainingQty int       `json:"remaining_quantity"`
	occurredOn   time.Time `json:"-"`
}

func NewItemAvailabilityChangedEvent(itemID, cafeID, itemName string, isAvailable bool, remainingQty int) *ItemAvailabilityChangedEvent {
	return &ItemAvailabilityChangedEvent{
		ItemID:       itemID,
		CafeID:       cafeID,
		ItemName:     itemName,
		IsAvailable:  isAvailable,
		RemainingQty: remainingQty,
		occurredOn:   time.Now(),
	}
}

func (e *ItemAvailabilityChangedEvent) EventName() string     { return "catalog.item_availability_changed" }
func (e *ItemAvailabilityChangedEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *ItemAvailabilityChangedEvent) AggregateID() string   { return e.ItemID }
