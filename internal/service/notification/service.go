package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/email"
	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
	"github.com/orgconsole/admin-api/pkg/event"
	"github.com/orgconsole/admin-api/pkg/metrics"
)

const (
	maxRetries = 3
	retryDelay = 5 * time.Second

	channelEmail = "email"
	channelInApp = "in_app"
)

type Service interface {
	Send(ctx context.Context, notification *model.Notification) error
	Broadcast(ctx context.Context, req *BroadcastInput) (*model.BroadcastResult, error)
}

// BroadcastInput targets either an explicit user list or, when UserIDs is
// empty, every user inside the given scope.
type BroadcastInput struct {
	OrganizationID uuid.UUID
	WorkspaceID    *uuid.UUID
	FacilityID     *uuid.UUID
	DepartmentID   *uuid.UUID
	UserIDs        []uuid.UUID
	Channel        string
	Subject        string
	Content        string
}

type service struct {
	repo       repository.NotificationRepository
	userRepo   repository.UserRepository
	scopedRepo repository.ScopedUserRepository
	emailSvc   email.Service
	events     event.EventService
	auditor    *audit.AuditLogger
	metrics    *metrics.Metrics
}

func NewService(repo repository.NotificationRepository, userRepo repository.UserRepository, scopedRepo repository.ScopedUserRepository, emailSvc email.Service, events event.EventService, auditor *audit.AuditLogger, m *metrics.Metrics) Service {
	return &service{
		repo:       repo,
		userRepo:   userRepo,
		scopedRepo: scopedRepo,
		emailSvc:   emailSvc,
		events:     events,
		auditor:    auditor,
		metrics:    m,
	}
}

func (s *service) Send(ctx context.Context, notification *model.Notification) error {
	if err := s.validate(notification); err != nil {
		return apperrors.BadRequest(err.Error(), err)
	}

	notification.ID = uuid.New()
	notification.Status = model.NotificationStatusPending

	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	s.metrics.NotificationsQueued.Inc()

	s.auditor.Log(ctx, notification.UserID, notification.OrganizationID, model.AuditActionCreate, model.AuditEntityNotification, notification.ID, &audit.LogOptions{
		Changes: notification,
	})

	go s.deliver(context.WithoutCancel(ctx), notification)
	return nil
}

// Broadcast queues one notification per recipient. Individual queue failures
// are counted rather than aborting the fan-out.
func (s *service) Broadcast(ctx context.Context, req *BroadcastInput) (*model.BroadcastResult, error) {
	if req.OrganizationID == uuid.Nil {
		return nil, apperrors.BadRequest("organization_id is required", nil)
	}
	if req.Subject == "" || req.Content == "" {
		return nil, apperrors.BadRequest("subject and content are required", nil)
	}

	userIDs := req.UserIDs
	if len(userIDs) == 0 {
		var err error
		userIDs, err = s.scopedRepo.ListUserIDsForScope(ctx, req.OrganizationID, req.WorkspaceID, req.FacilityID, req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve recipients: %w", err)
		}
	}

	result := &model.BroadcastResult{Recipients: len(userIDs)}
	for _, userID := range userIDs {
		user, err := s.userRepo.Get(ctx, userID)
		if err != nil {
			result.Failed++
			continue
		}

		n := &model.Notification{
			UserID:         userID,
			OrganizationID: req.OrganizationID,
			Channel:        req.Channel,
			Subject:        req.Subject,
			Content:        req.Content,
			Recipient:      user.Email,
		}
		if err := s.Send(ctx, n); err != nil {
			result.Failed++
			continue
		}
		result.Queued++
	}

	return result, nil
}

func (s *service) deliver(ctx context.Context, notification *model.Notification) {
	var err error
	switch notification.Channel {
	case channelEmail:
		err = s.emailSvc.SendCustom(ctx, notification.Recipient, notification.Subject, notification.Content)
	case channelInApp:
		err = s.sendInApp(ctx, notification)
	default:
		err = fmt.Errorf("unsupported channel: %s", notification.Channel)
	}

	if err != nil {
		s.handleError(ctx, notification, err)
		return
	}

	notification.Status = model.NotificationStatusSent
	notification.SentAt = time.Now()

	if err := s.repo.Update(ctx, notification); err != nil {
		s.auditor.Log(ctx, notification.UserID, notification.OrganizationID, "update_failed", model.AuditEntityNotification, notification.ID, &audit.LogOptions{
			Metadata: map[string]interface{}{"error": err.Error()},
		})
	}
}

// sendInApp goes through the outbox so a dropped broker connection cannot
// lose the notification; the processor retries anything the immediate relay
// misses.
func (s *service) sendInApp(ctx context.Context, notification *model.Notification) error {
	payload := &model.NotificationEvent{
		ID:             uuid.New(),
		NotificationID: notification.ID,
		UserID:         notification.UserID,
		Type:           "in_app_notification",
		Content:        notification.Content,
		CreatedAt:      time.Now(),
	}
	return s.events.Emit(ctx, "notifications", payload)
}

func (s *service) handleError(ctx context.Context, notification *model.Notification, err error) {
	notification.RetryCount++
	notification.LastError = err.Error()

	if notification.RetryCount >= maxRetries {
		notification.Status = model.NotificationStatusFailed
		s.metrics.NotificationsFailed.Inc()
	} else {
		notification.Status = model.NotificationStatusRetrying
		notification.NextRetryAt = time.Now().Add(retryDelay * time.Duration(notification.RetryCount))
	}

	if updateErr := s.repo.Update(ctx, notification); updateErr != nil {
		s.auditor.Log(ctx, notification.UserID, notification.OrganizationID, "update_failed", model.AuditEntityNotification, notification.ID, &audit.LogOptions{
			Metadata: map[string]interface{}{"error": updateErr.Error()},
		})
		return
	}

	if notification.Status == model.NotificationStatusRetrying {
		time.Sleep(time.Until(notification.NextRetryAt))
		s.deliver(ctx, notification)
	}
}

func (s *service) validate(notification *model.Notification) error {
	if notification.UserID == uuid.Nil {
		return fmt.Errorf("user ID is required")
	}
	if notification.OrganizationID == uuid.Nil {
		return fmt.Errorf("organization ID is required")
	}
	if notification.Channel != channelEmail && notification.Channel != channelInApp {
		return fmt.Errorf("unsupported channel: %s", notification.Channel)
	}
	if notification.Content == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}
