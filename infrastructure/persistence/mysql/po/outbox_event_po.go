package po

import (
	"encoding/json"
	"time"

	"cantina/domain/shared"

	"github.com/google/uuid"
)

// OutboxEventPO maps the outbox_events table. Rows are written in the same
// transaction as the business change and published asynchronously.
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`
	Payload     string    `gorm:"type:json;not null"`
	Status      string    `gorm:"size:20;default:PENDING;not null"`
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus is the outbox row lifecycle.
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// envelope wraps the event payload with its metadata.
type envelope struct {
	EventName   string      `json:"event_name"`
	AggregateID string      `json:"aggregate_id"`
	OccurredOn  time.Time   `json:"occurred_on"`
	Data        interface{} `json:"data"`
}

// FromDomainEvent serializes a domain event into an outbox row. Events are
// plain structs with exported JSON fields, so the payload is the event itself
// inside a metadata envelope.
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := json.Marshal(envelope{
		EventName:   event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredOn:  event.OccurredOn(),
		Data:        event,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEventPO{
		ID:          uuid.NewString(),
		AggregateID: event.AggregateID(),
		EventType:   event.EventName(),
		Payload:     string(payload),
		Status:      string(EventStatusPending),
		RetryCount:  0,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}
