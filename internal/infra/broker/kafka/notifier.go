package kafka

import (
	"context"
	"encoding/json"

	"homestay/internal/domain/shared/events"
)

// Notifier publishes domain events to a Kafka topic per event name,
// keyed by aggregate id so consumers see per-listing ordering. Delivery
// is at-most-once from the consumer's perspective: there is no outbox or
// replay behind it.
type Notifier struct {
	Producer    *Producer
	TopicPrefix string
}

func (n *Notifier) Notify(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	headers := map[string]string{
		"event":       event.EventName(),
		"occurred_at": event.OccurredAt().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	return n.Producer.Publish(ctx, n.TopicPrefix+event.EventName(), event.AggregateID(), payload, headers)
}
