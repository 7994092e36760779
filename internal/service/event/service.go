package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	"github.com/orgconsole/admin-api/pkg/messaging"
)

// Service persists change events through the outbox and relays them to the
// broker. Relay failures are left to the outbox processor's retry loop.
type Service struct {
	outboxRepo repository.OutboxRepository
	broker     messaging.Broker
	auditor    *audit.AuditLogger
}

func NewService(outboxRepo repository.OutboxRepository, broker messaging.Broker, auditor *audit.AuditLogger) *Service {
	return &Service{
		outboxRepo: outboxRepo,
		broker:     broker,
		auditor:    auditor,
	}
}

func (s *Service) CreateEvent(ctx context.Context, event *model.OutboxEvent) error {
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payloadJSON,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}

	go s.relay(context.WithoutCancel(ctx), event)
	return nil
}

func (s *Service) relay(ctx context.Context, event *model.OutboxEvent) {
	tx, err := s.outboxRepo.BeginTx(ctx)
	if err != nil {
		return
	}
	defer tx.Rollback()

	if err := s.broker.Publish(ctx, event.EventType, event.Payload); err != nil {
		return
	}

	if err := s.outboxRepo.UpdateStatusTx(ctx, tx, event.ID, string(model.OutboxStatusProcessed), nil, nil); err != nil {
		return
	}
	if err := tx.Commit(); err != nil {
		return
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, "process", "event", event.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{
			"event_type": event.EventType,
			"status":     model.OutboxStatusProcessed,
		},
	})
}

func (s *Service) CleanupProcessedEvents(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	count, err := s.outboxRepo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup events: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, "cleanup", "event", uuid.Nil, &audit.LogOptions{
		Metadata: map[string]interface{}{"deleted_count": count},
	})
	return nil
}
