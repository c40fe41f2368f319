// Package notify fans events out to connected clients, keyed by role. The
// outbox worker publishes into the hub; the API layer streams each
// subscriber's channel out over SSE.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cantina/domain/shared"
	"cantina/pkg/logger"
)

// Notification is one message delivered to subscribers.
type Notification struct {
	EventType string    `json:"event_type"`
	Payload   string    `json:"payload"`
	SentAt    time.Time `json:"sent_at"`
}

// subscriber is one connected client.
type subscriber struct {
	id   string
	role shared.Role
	ch   chan Notification
}

// Hub is the in-process notification broker. Publishing never blocks: a
// subscriber whose buffer is full misses the message, which is acceptable
// for advisory order notifications.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	bufferSize  int
}

// NewHub creates a hub with the given per-subscriber buffer.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Hub{
		subscribers: make(map[string]*subscriber),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a client and returns its channel. The caller must call
// Unsubscribe with the same id when the connection closes.
func (h *Hub) Subscribe(id string, role shared.Role) <-chan Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{
		id:   id,
		role: role,
		ch:   make(chan Notification, h.bufferSize),
	}
	h.subscribers[id] = sub

	logger.Debug("notification subscriber connected",
		zap.String("subscriber_id", id),
		zap.String("role", string(role)))
	return sub.ch
}

// Unsubscribe removes a client and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subscribers[id]
	if !ok {
		return
	}
	delete(h.subscribers, id)
	close(sub.ch)

	logger.Debug("notification subscriber disconnected", zap.String("subscriber_id", id))
}

// Broadcast delivers the notification to every subscriber with one of the
// given roles. An empty role list means everyone.
func (h *Hub) Broadcast(n Notification, roles ...shared.Role) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers {
		if len(roles) > 0 && !roleMatches(sub.role, roles) {
			continue
		}
		select {
		case sub.ch <- n:
		default:
			logger.Warn("notification dropped, subscriber buffer full",
				zap.String("subscriber_id", sub.id),
				zap.String("event_type", n.EventType))
		}
	}
}

// SubscriberCount reports how many clients are connected.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func roleMatches(role shared.Role, roles []shared.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// HubPublisher adapts the hub to the outbox publisher port. Order lifecycle
// events go to cafe operators; everything else goes to everyone.
type HubPublisher struct {
	hub *Hub
}

func NewHubPublisher(hub *Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(ctx context.Context, eventType, payload string) error {
	n := Notification{
		EventType: eventType,
		Payload:   payload,
		SentAt:    time.Now(),
	}

	switch eventType {
	case "order.placed", "order.cancelled":
		p.hub.Broadcast(n, shared.RoleCafeOwner, shared.RoleSuperAdmin)
	default:
		p.hub.Broadcast(n)
	}
	return nil
}
