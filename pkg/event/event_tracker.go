package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/orgconsole/admin-api/internal/model"
)

const contextKey = "eventCtx"

type EventTrackerMiddleware struct {
	eventService EventService
}

func NewEventTrackerMiddleware(svc EventService) *EventTrackerMiddleware {
	return &EventTrackerMiddleware{
		eventService: svc,
	}
}

// TrackEvent records a change event for the request once the handler has
// populated the event context via SetEventData. Requests that fail before
// setting data produce no event.
func (m *EventTrackerMiddleware) TrackEvent(entityType, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventCtx := &EventContext{
			Resource:  entityType,
			Operation: action,
		}
		c.Set(contextKey, eventCtx)

		c.Next()

		if eventCtx.NewData == nil {
			return
		}

		payloadJSON, err := json.Marshal(eventCtx.NewData)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal event payload")
			return
		}

		event := &model.OutboxEvent{
			ID:        uuid.New(),
			EventType: fmt.Sprintf("%s_%s", strings.ToUpper(entityType), strings.ToUpper(action)),
			Status:    string(model.OutboxStatusPending),
			Payload:   payloadJSON,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := m.eventService.CreateEvent(c.Request.Context(), event); err != nil {
			log.Error().Err(err).Str("event_type", event.EventType).Msg("failed to create change event")
		}
	}
}

// SetEventData marks the request's change event payload. A no-op when the
// route is not wrapped by TrackEvent.
func SetEventData(c *gin.Context, data interface{}) {
	if v, ok := c.Get(contextKey); ok {
		if eventCtx, ok := v.(*EventContext); ok {
			eventCtx.NewData = data
		}
	}
}
