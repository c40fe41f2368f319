package shared

import "context"

// UnitOfWork manages the transaction boundary and aggregate event collection.
// Execute runs fn inside one transaction; every repository write made through
// the context either commits as a whole or rolls back as a whole. Events from
// registered aggregates are saved to the outbox before commit.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands out one UnitOfWork per business flow. A unit of
// work holds per-execution state (the registered aggregates), so instances
// must never be shared between concurrent requests.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository persists domain events for asynchronous publication.
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
