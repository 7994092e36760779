package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

const trainingEventColumns = `id, workspace_id, facility_id, title, description, location, start_time, end_time, capacity, status, created_at, updated_at, deleted_at`

func (r *trainingEventRepository) Create(ctx context.Context, event *model.TrainingEvent) error {
	query := `
		INSERT INTO training_events (id, workspace_id, facility_id, title, description, location, start_time, end_time, capacity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.WorkspaceID,
		event.FacilityID,
		event.Title,
		event.Description,
		event.Location,
		event.StartTime,
		event.EndTime,
		event.Capacity,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create training event: %w", err)
	}
	return nil
}

func (r *trainingEventRepository) Get(ctx context.Context, id uuid.UUID) (*model.TrainingEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM training_events
		WHERE id = $1 AND deleted_at IS NULL
	`, trainingEventColumns)
	var event model.TrainingEvent
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get training event: %w", err)
	}
	return &event, nil
}

func (r *trainingEventRepository) Update(ctx context.Context, event *model.TrainingEvent) error {
	query := `
		UPDATE training_events
		SET title = $1, description = $2, location = $3, start_time = $4, end_time = $5, capacity = $6, status = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`
	event.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartTime,
		event.EndTime,
		event.Capacity,
		event.Status,
		event.UpdatedAt,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update training event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("training event not found")
	}

	return nil
}

func (r *trainingEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE training_events
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete training event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("training event not found")
	}

	return nil
}

func (r *trainingEventRepository) List(ctx context.Context, filters *model.TrainingEventFilters) ([]*model.TrainingEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM training_events
		WHERE workspace_id = $1 AND deleted_at IS NULL
	`, trainingEventColumns)
	args := []interface{}{filters.WorkspaceID}

	if filters.FacilityID != nil {
		args = append(args, *filters.FacilityID)
		query += fmt.Sprintf(" AND facility_id = $%d", len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filters.From.IsZero() {
		args = append(args, filters.From)
		query += fmt.Sprintf(" AND start_time >= $%d", len(args))
	}
	if !filters.To.IsZero() {
		args = append(args, filters.To)
		query += fmt.Sprintf(" AND start_time < $%d", len(args))
	}
	query += " ORDER BY start_time ASC"

	var events []*model.TrainingEvent
	err := r.db.SelectContext(ctx, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list training events: %w", err)
	}
	return events, nil
}

func (r *trainingEventRepository) CreateAttendance(ctx context.Context, attendance *model.EventAttendance) error {
	query := `
		INSERT INTO event_attendance (id, event_id, user_id, status, checked_in_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	attendance.ID = uuid.New()
	attendance.CreatedAt = time.Now()
	attendance.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		attendance.ID,
		attendance.EventID,
		attendance.UserID,
		attendance.Status,
		attendance.CheckedInAt,
		attendance.CreatedAt,
		attendance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create attendance: %w", err)
	}
	return nil
}

func (r *trainingEventRepository) GetAttendance(ctx context.Context, eventID, userID uuid.UUID) (*model.EventAttendance, error) {
	query := `
		SELECT id, event_id, user_id, status, checked_in_at, created_at, updated_at, deleted_at
		FROM event_attendance
		WHERE event_id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	var attendance model.EventAttendance
	err := r.db.GetContext(ctx, &attendance, query, eventID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &attendance, nil
}

func (r *trainingEventRepository) ListAttendance(ctx context.Context, eventID uuid.UUID) ([]*model.EventAttendance, error) {
	query := `
		SELECT id, event_id, user_id, status, checked_in_at, created_at, updated_at, deleted_at
		FROM event_attendance
		WHERE event_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`
	var attendance []*model.EventAttendance
	err := r.db.SelectContext(ctx, &attendance, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance, nil
}

func (r *trainingEventRepository) UpdateAttendance(ctx context.Context, attendance *model.EventAttendance) error {
	query := `
		UPDATE event_attendance
		SET status = $1, checked_in_at = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	attendance.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		attendance.Status,
		attendance.CheckedInAt,
		attendance.UpdatedAt,
		attendance.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("attendance record not found")
	}

	return nil
}
