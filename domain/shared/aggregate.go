package shared

// AggregateRoot is the entry point of an aggregate. It owns the consistency
// boundary: all modifications to entities inside the aggregate go through it,
// and it records the domain events those modifications produce.
type AggregateRoot interface {
	// ID returns the globally unique identity of the aggregate.
	ID() string

	// Version returns the optimistic-lock version.
	Version() int

	// PullEvents returns and clears the recorded domain events.
	// The unit of work calls this inside the transaction to fill the outbox.
	PullEvents() []DomainEvent
}
