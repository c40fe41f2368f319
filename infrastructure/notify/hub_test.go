package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/domain/shared"
)

func receiveOne(t *testing.T, ch <-chan Notification) Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
		return Notification{}
	}
}

func TestBroadcastToAll(t *testing.T) {
	hub := NewHub(4)
	a := hub.Subscribe("a", shared.RoleEmployee)
	b := hub.Subscribe("b", shared.RoleCafeOwner)

	hub.Broadcast(Notification{EventType: "catalog.item_restocked"})

	assert.Equal(t, "catalog.item_restocked", receiveOne(t, a).EventType)
	assert.Equal(t, "catalog.item_restocked", receiveOne(t, b).EventType)
}

func TestBroadcastFiltersByRole(t *testing.T) {
	hub := NewHub(4)
	emp := hub.Subscribe("emp", shared.RoleEmployee)
	owner := hub.Subscribe("owner", shared.RoleCafeOwner)

	hub.Broadcast(Notification{EventType: "order.placed"}, shared.RoleCafeOwner)

	assert.Equal(t, "order.placed", receiveOne(t, owner).EventType)
	select {
	case n := <-emp:
		t.Fatalf("employee should not receive %s", n.EventType)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(1)
	ch := hub.Subscribe("slow", shared.RoleEmployee)

	// Nobody reads; the second broadcast must not block.
	done := make(chan struct{})
	go func() {
		hub.Broadcast(Notification{EventType: "first"})
		hub.Broadcast(Notification{EventType: "second"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full subscriber buffer")
	}
	assert.Equal(t, "first", receiveOne(t, ch).EventType)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(4)
	ch := hub.Subscribe("a", shared.RoleEmployee)
	require.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe("a")
	assert.Zero(t, hub.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// Unsubscribing twice is harmless.
	hub.Unsubscribe("a")
}

func TestHubPublisherRoutesOrderEventsToOperators(t *testing.T) {
	hub := NewHub(4)
	emp := hub.Subscribe("emp", shared.RoleEmployee)
	owner := hub.Subscribe("owner", shared.RoleCafeOwner)
	admin := hub.Subscribe("admin", shared.RoleSuperAdmin)

	p := NewHubPublisher(hub)
	require.NoError(t, p.Publish(context.Background(), "order.placed", `{"order_id":"order-1"}`))

	assert.Equal(t, "order.placed", receiveOne(t, owner).EventType)
	assert.Equal(t, "order.placed", receiveOne(t, admin).EventType)
	select {
	case <-emp:
		t.Fatal("employees should not receive order.placed")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, p.Publish(context.Background(), "catalog.item_restocked", `{}`))
	assert.Equal(t, "catalog.item_restocked", receiveOne(t, emp).EventType)
}
