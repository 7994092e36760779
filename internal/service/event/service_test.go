package event

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	"github.com/orgconsole/admin-api/pkg/logger"
)

type noopAuditRepo struct{}

func (noopAuditRepo) Create(ctx context.Context, log *model.AuditLog) error { return nil }
func (noopAuditRepo) List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error) {
	return nil, nil
}
func (noopAuditRepo) DeleteBefore(ctx context.Context, cutoff time.Time) error { return nil }

func newTestAuditor() *audit.AuditLogger {
	return audit.NewAuditLogger(audit.NewService(noopAuditRepo{}), logger.NewLogger(nil))
}

type statusUpdate struct {
	id      uuid.UUID
	status  string
	retryAt *time.Time
}

type fakeOutboxRepo struct {
	repository.OutboxRepository
	db       *sql.DB
	created  []*model.OutboxEvent
	updates  []statusUpdate
	cutoffs  []time.Time
	beginErr error
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	event.ID = uuid.New()
	event.Status = string(model.OutboxStatusPending)
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.db.Begin()
}

func (f *fakeOutboxRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, status string, errorMessage *string, retryAt *time.Time) error {
	f.updates = append(f.updates, statusUpdate{id: id, status: status, retryAt: retryAt})
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, before)
	return 4, nil
}

type fakeBroker struct {
	published  map[string][]interface{}
	publishErr error
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	if f.published == nil {
		f.published = map[string][]interface{}{}
	}
	f.published[channel] = append(f.published[channel], message)
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func TestEmitWritesOutbox(t *testing.T) {
	// relay is cut short so only the synchronous outbox write is observed
	repo := &fakeOutboxRepo{beginErr: errors.New("no tx in test")}
	svc := NewService(repo, &fakeBroker{}, newTestAuditor())

	err := svc.Emit(context.Background(), "notifications", map[string]string{"kind": "in_app"})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	event := repo.created[0]
	assert.Equal(t, "notifications", event.EventType)
	assert.JSONEq(t, `{"kind":"in_app"}`, string(event.Payload))
	assert.Equal(t, string(model.OutboxStatusPending), event.Status)
}

func TestEmitRejectsUnmarshalablePayload(t *testing.T) {
	repo := &fakeOutboxRepo{}
	svc := NewService(repo, &fakeBroker{}, newTestAuditor())

	err := svc.Emit(context.Background(), "notifications", make(chan int))
	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestRelayMarksProcessedWithoutRetry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeOutboxRepo{db: db}
	broker := &fakeBroker{}
	svc := NewService(repo, broker, newTestAuditor())

	event := &model.OutboxEvent{ID: uuid.New(), EventType: "notifications", Payload: []byte(`{}`)}
	svc.relay(context.Background(), event)

	require.Len(t, broker.published["notifications"], 1)
	require.Len(t, repo.updates, 1)
	update := repo.updates[0]
	assert.Equal(t, event.ID, update.id)
	assert.Equal(t, string(model.OutboxStatusProcessed), update.status)
	assert.Nil(t, update.retryAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelayLeavesEventPendingOnPublishFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakeOutboxRepo{db: db}
	svc := NewService(repo, &fakeBroker{publishErr: errors.New("broker down")}, newTestAuditor())

	event := &model.OutboxEvent{ID: uuid.New(), EventType: "notifications", Payload: []byte(`{}`)}
	svc.relay(context.Background(), event)

	// the outbox processor picks it up on its next poll
	assert.Empty(t, repo.updates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupProcessedEventsUsesRetention(t *testing.T) {
	repo := &fakeOutboxRepo{}
	svc := NewService(repo, &fakeBroker{}, newTestAuditor())

	retainFor := 7 * 24 * time.Hour
	require.NoError(t, svc.CleanupProcessedEvents(context.Background(), retainFor))

	require.Len(t, repo.cutoffs, 1)
	assert.WithinDuration(t, time.Now().Add(-retainFor), repo.cutoffs[0], 2*time.Second)
}
