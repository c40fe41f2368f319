package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"cantina/domain/shared"
)

// EventPublisher receives serialized events after a successful execution.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, payload string) error
}

// MockUnitOfWork is the in-memory counterpart of the MySQL unit-of-work
// factory. New hands out one execution per business flow; events drained from
// successful executions accumulate here so tests can assert on what would
// have reached the outbox. With a publisher set they are also delivered
// directly, which stands in for the outbox worker in the in-memory mode.
type MockUnitOfWork struct {
	mu        sync.Mutex
	collected []shared.DomainEvent
	publisher EventPublisher
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		collected: make([]shared.DomainEvent, 0),
	}
}

// New returns a fresh unit of work carrying its own aggregate registry, so
// concurrent flows cannot mix their events.
func (u *MockUnitOfWork) New() shared.UnitOfWork {
	return &mockExecution{parent: u}
}

// SetPublisher delivers future events directly after each execution.
func (u *MockUnitOfWork) SetPublisher(publisher EventPublisher) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.publisher = publisher
}

// CollectedEvents returns every event drained across all executions.
func (u *MockUnitOfWork) CollectedEvents() []shared.DomainEvent {
	u.mu.Lock()
	defer u.mu.Unlock()
	events := make([]shared.DomainEvent, len(u.collected))
	copy(events, u.collected)
	return events
}

func (u *MockUnitOfWork) collect(ctx context.Context, drained []shared.DomainEvent) {
	u.mu.Lock()
	u.collected = append(u.collected, drained...)
	publisher := u.publisher
	u.mu.Unlock()

	if publisher == nil {
		return
	}
	for _, event := range drained {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		_ = publisher.Publish(ctx, event.EventName(), string(payload))
	}
}

// mockExecution is one unit of work. It runs the closure without a real
// transaction; there is no rollback, so tests that need failure atomicity
// assert on repository state.
type mockExecution struct {
	mu         sync.Mutex
	parent     *MockUnitOfWork
	aggregates []shared.AggregateRoot
}

func (e *mockExecution) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	e.mu.Lock()
	e.aggregates = e.aggregates[:0]
	e.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	var drained []shared.DomainEvent
	for _, agg := range e.aggregates {
		drained = append(drained, agg.PullEvents()...)
	}
	e.mu.Unlock()

	e.parent.collect(ctx, drained)
	return nil
}

func (e *mockExecution) RegisterNew(aggregate shared.AggregateRoot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.aggregates = append(e.aggregates, aggregate)
}

func (e *mockExecution) RegisterDirty(aggregate shared.AggregateRoot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.aggregates = append(e.aggregates, aggregate)
}

var (
	_ shared.UnitOfWorkFactory = (*MockUnitOfWork)(nil)
	_ shared.UnitOfWork        = (*mockExecution)(nil)
)
