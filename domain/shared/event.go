package shared

import (
	"fmt"
	"time"
)

// DomainEvent is recorded by aggregates when business-relevant state changes.
// Events are collected by the unit of work, saved to the outbox table in the
// same transaction, and published asynchronously by the outbox worker.
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	AggregateID() string
}

// ValidateEvent rejects malformed events before they reach the outbox.
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if event.AggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}
	return nil
}
