package training

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	"github.com/orgconsole/admin-api/internal/service/notification"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
)

type TrainingServicer interface {
	CreateEvent(ctx context.Context, event *model.TrainingEvent) error
	GetEvent(ctx context.Context, id uuid.UUID) (*model.TrainingEvent, error)
	UpdateEvent(ctx context.Context, event *model.TrainingEvent) error
	CancelEvent(ctx context.Context, id uuid.UUID, orgID uuid.UUID) error
	ListEvents(ctx context.Context, filters *model.TrainingEventFilters) ([]*model.TrainingEvent, error)
	Register(ctx context.Context, eventID, userID uuid.UUID) error
	CheckIn(ctx context.Context, eventID, userID uuid.UUID) error
	AttendanceStats(ctx context.Context, eventID uuid.UUID) (*model.AttendanceStats, error)
}

type Service struct {
	repo            repository.TrainingEventRepository
	notificationSvc notification.Service
	auditor         *audit.AuditLogger
}

func NewService(repo repository.TrainingEventRepository, notificationSvc notification.Service, auditor *audit.AuditLogger) *Service {
	return &Service{
		repo:            repo,
		notificationSvc: notificationSvc,
		auditor:         auditor,
	}
}

func (s *Service) CreateEvent(ctx context.Context, event *model.TrainingEvent) error {
	if err := validateSchedule(event); err != nil {
		return apperrors.BadRequest(err.Error(), err)
	}
	if event.StartTime.Before(time.Now()) {
		return apperrors.BadRequest("start time cannot be in the past", nil)
	}
	event.Status = model.TrainingEventStatusScheduled

	if err := s.repo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create training event: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionCreate, model.AuditEntityTrainingEvent, event.ID, &audit.LogOptions{
		Changes: event,
	})
	return nil
}

func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*model.TrainingEvent, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("training event", err)
	}
	return event, nil
}

func (s *Service) UpdateEvent(ctx context.Context, event *model.TrainingEvent) error {
	if err := validateSchedule(event); err != nil {
		return apperrors.BadRequest(err.Error(), err)
	}

	current, err := s.repo.Get(ctx, event.ID)
	if err != nil {
		return apperrors.NotFound("training event", err)
	}
	if current.Status == model.TrainingEventStatusCancelled {
		return apperrors.BusinessRule("cancelled events cannot be updated")
	}

	event.Status = current.Status
	if err := s.repo.Update(ctx, event); err != nil {
		return fmt.Errorf("failed to update training event: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionUpdate, model.AuditEntityTrainingEvent, event.ID, &audit.LogOptions{
		Changes: event,
	})
	return nil
}

// CancelEvent marks the event cancelled and notifies every registered user.
func (s *Service) CancelEvent(ctx context.Context, id uuid.UUID, orgID uuid.UUID) error {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("training event", err)
	}
	if event.Status == model.TrainingEventStatusCancelled {
		return apperrors.BusinessRule("event is already cancelled")
	}

	event.Status = model.TrainingEventStatusCancelled
	if err := s.repo.Update(ctx, event); err != nil {
		return fmt.Errorf("failed to cancel training event: %w", err)
	}

	attendance, err := s.repo.ListAttendance(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list attendance: %w", err)
	}
	if len(attendance) > 0 {
		userIDs := make([]uuid.UUID, 0, len(attendance))
		for _, a := range attendance {
			userIDs = append(userIDs, a.UserID)
		}
		_, err := s.notificationSvc.Broadcast(ctx, &notification.BroadcastInput{
			OrganizationID: orgID,
			UserIDs:        userIDs,
			Channel:        "email",
			Subject:        fmt.Sprintf("Cancelled: %s", event.Title),
			Content:        fmt.Sprintf("The training session %q scheduled for %s has been cancelled.", event.Title, event.StartTime.Format(time.RFC1123)),
		})
		if err != nil {
			return fmt.Errorf("failed to notify attendees: %w", err)
		}
	}

	s.auditor.Log(ctx, uuid.Nil, orgID, model.AuditActionUpdate, model.AuditEntityTrainingEvent, id, &audit.LogOptions{
		Metadata: map[string]interface{}{"status": event.Status, "notified": len(attendance)},
	})
	return nil
}

func (s *Service) ListEvents(ctx context.Context, filters *model.TrainingEventFilters) ([]*model.TrainingEvent, error) {
	events, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list training events: %w", err)
	}
	return events, nil
}

// Register enforces capacity and one registration per user. Capacity zero
// means unlimited.
func (s *Service) Register(ctx context.Context, eventID, userID uuid.UUID) error {
	event, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return apperrors.NotFound("training event", err)
	}
	if event.Status != model.TrainingEventStatusScheduled {
		return apperrors.BusinessRule("event is not open for registration")
	}

	existing, err := s.repo.GetAttendance(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to check registration: %w", err)
	}
	if existing != nil {
		return apperrors.Conflict("user is already registered", nil)
	}

	if event.Capacity > 0 {
		attendance, err := s.repo.ListAttendance(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		if len(attendance) >= event.Capacity {
			return apperrors.BusinessRule("event is at capacity")
		}
	}

	record := &model.EventAttendance{
		EventID: eventID,
		UserID:  userID,
		Status:  model.AttendanceStatusRegistered,
	}
	if err := s.repo.CreateAttendance(ctx, record); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	return nil
}

func (s *Service) CheckIn(ctx context.Context, eventID, userID uuid.UUID) error {
	record, err := s.repo.GetAttendance(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to get registration: %w", err)
	}
	if record == nil {
		return apperrors.NotFound("registration", nil)
	}
	if record.Status == model.AttendanceStatusCheckedIn {
		return apperrors.Conflict("user is already checked in", nil)
	}

	now := time.Now()
	record.Status = model.AttendanceStatusCheckedIn
	record.CheckedInAt = &now
	if err := s.repo.UpdateAttendance(ctx, record); err != nil {
		return fmt.Errorf("failed to check in: %w", err)
	}
	return nil
}

func (s *Service) AttendanceStats(ctx context.Context, eventID uuid.UUID) (*model.AttendanceStats, error) {
	event, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return nil, apperrors.NotFound("training event", err)
	}

	attendance, err := s.repo.ListAttendance(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	stats := &model.AttendanceStats{Registered: len(attendance)}
	for _, a := range attendance {
		if a.Status == model.AttendanceStatusCheckedIn {
			stats.CheckedIn++
		}
	}
	if stats.Registered > 0 {
		stats.CheckInRate = float64(stats.CheckedIn) / float64(stats.Registered)
	}
	if event.Capacity > 0 {
		stats.CapacityUsedPct = float64(stats.Registered) / float64(event.Capacity) * 100
	}
	return stats, nil
}

func validateSchedule(event *model.TrainingEvent) error {
	if event.Title == "" {
		return fmt.Errorf("title is required")
	}
	if event.StartTime.IsZero() || event.EndTime.IsZero() {
		return fmt.Errorf("start and end times are required")
	}
	if !event.EndTime.After(event.StartTime) {
		return fmt.Errorf("end time must be after start time")
	}
	if event.Capacity < 0 {
		return fmt.Errorf("capacity cannot be negative")
	}
	return nil
}
