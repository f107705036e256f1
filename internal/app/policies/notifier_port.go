package policies

import (
	"context"

	"homestay/internal/domain/shared/events"
)

// Notifier publishes domain events to interested feed consumers.
// Delivery is at-most-once and best-effort: callers in the commit path
// log failures and move on, they never roll back on a publish error.
type Notifier interface {
	Notify(ctx context.Context, event events.DomainEvent) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, event events.DomainEvent) error

func (f NotifierFunc) Notify(ctx context.Context, event events.DomainEvent) error {
	return f(ctx, event)
}
