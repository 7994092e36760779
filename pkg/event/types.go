package event

import (
	"context"

	"github.com/orgconsole/admin-api/internal/model"
)

type EventType string

// EventContext accumulates what a handler did so the tracker middleware can
// publish a change event after the response is written.
type EventContext struct {
	Resource   string
	Operation  string
	OldData    interface{}
	NewData    interface{}
	Additional map[string]interface{}
}

// EventService writes change events to the outbox. The outbox processor
// relays them to the broker, which is what downstream consumers watch to
// invalidate and refetch. Emit additionally attempts an immediate relay so
// latency-sensitive events are not stuck waiting for the next poll.
type EventService interface {
	CreateEvent(ctx context.Context, event *model.OutboxEvent) error
	Emit(ctx context.Context, eventType string, payload interface{}) error
}
