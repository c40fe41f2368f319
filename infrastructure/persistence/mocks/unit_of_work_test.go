package mocks

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/domain/shared"
)

type stubEvent struct {
	aggregateID string
	occurredOn  time.Time
}

func (e *stubEvent) EventName() string     { return "stub.happened" }
func (e *stubEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *stubEvent) AggregateID() string   { return e.aggregateID }

type stubAggregate struct {
	id     string
	events []shared.DomainEvent
}

func (a *stubAggregate) ID() string   { return a.id }
func (a *stubAggregate) Version() int { return 0 }

func (a *stubAggregate) PullEvents() []shared.DomainEvent {
	events := a.events
	a.events = nil
	return events
}

func newStubAggregate(id string) *stubAggregate {
	return &stubAggregate{
		id:     id,
		events: []shared.DomainEvent{&stubEvent{aggregateID: id, occurredOn: time.Now()}},
	}
}

func TestConcurrentExecutionsCollectEveryEvent(t *testing.T) {
	parent := NewMockUnitOfWork()
	ctx := context.Background()

	const flows = 50
	var wg sync.WaitGroup
	for i := 0; i < flows; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uow := parent.New()
			err := uow.Execute(ctx, func(ctx context.Context) error {
				uow.RegisterNew(newStubAggregate(fmt.Sprintf("agg-%d", i)))
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	events := parent.CollectedEvents()
	require.Len(t, events, flows)

	seen := make(map[string]bool, flows)
	for _, e := range events {
		seen[e.AggregateID()] = true
	}
	assert.Len(t, seen, flows)
}

func TestFailedExecutionCollectsNothing(t *testing.T) {
	parent := NewMockUnitOfWork()

	uow := parent.New()
	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		uow.RegisterNew(newStubAggregate("agg-1"))
		return fmt.Errorf("boom")
	})
	require.Error(t, err)
	assert.Empty(t, parent.CollectedEvents())
}

func TestExecutionsDoNotShareRegistrations(t *testing.T) {
	parent := NewMockUnitOfWork()
	ctx := context.Background()

	first := parent.New()
	second := parent.New()

	require.NoError(t, first.Execute(ctx, func(ctx context.Context) error {
		first.RegisterNew(newStubAggregate("agg-1"))
		return nil
	}))
	require.NoError(t, second.Execute(ctx, func(ctx context.Context) error {
		return nil
	}))

	events := parent.CollectedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "agg-1", events[0].AggregateID())
}
