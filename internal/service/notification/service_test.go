package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
	"github.com/orgconsole/admin-api/pkg/logger"
	"github.com/orgconsole/admin-api/pkg/metrics"
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

var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.Metrics
)

func newTestMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.New("notification_test")
	})
	return testMetrics
}

type fakeNotificationRepo struct {
	repository.NotificationRepository
	mu      sync.Mutex
	created []*model.Notification
	updated []*model.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) Update(ctx context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, n)
	return nil
}

type fakeEmailSvc struct{}

func (fakeEmailSvc) SendWelcome(ctx context.Context, email, name, tempPassword string) error {
	return nil
}
func (fakeEmailSvc) SendCustom(ctx context.Context, to, subject, content string) error {
	return nil
}

type emitted struct {
	eventType string
	payload   interface{}
}

type fakeEventService struct {
	emits chan emitted
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *model.OutboxEvent) error {
	return nil
}

func (f *fakeEventService) Emit(ctx context.Context, eventType string, payload interface{}) error {
	f.emits <- emitted{eventType: eventType, payload: payload}
	return nil
}

func inAppNotification() *model.Notification {
	return &model.Notification{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Channel:        "in_app",
		Subject:        "Shift change",
		Content:        "Your shift moved to 14:00",
		Recipient:      "staff@example.com",
	}
}

func TestSendInAppGoesThroughOutbox(t *testing.T) {
	repo := &fakeNotificationRepo{}
	events := &fakeEventService{emits: make(chan emitted, 1)}
	svc := NewService(repo, nil, nil, fakeEmailSvc{}, events, newTestAuditor(), newTestMetrics())

	n := inAppNotification()
	require.NoError(t, svc.Send(context.Background(), n))

	select {
	case got := <-events.emits:
		assert.Equal(t, "notifications", got.eventType)
		payload, ok := got.payload.(*model.NotificationEvent)
		require.True(t, ok)
		assert.Equal(t, n.ID, payload.NotificationID)
		assert.Equal(t, n.UserID, payload.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event emitted for in-app notification")
	}
}

func TestSendRejectsUnknownChannel(t *testing.T) {
	repo := &fakeNotificationRepo{}
	events := &fakeEventService{emits: make(chan emitted, 1)}
	svc := NewService(repo, nil, nil, fakeEmailSvc{}, events, newTestAuditor(), newTestMetrics())

	n := inAppNotification()
	n.Channel = "sms"
	err := svc.Send(context.Background(), n)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Empty(t, repo.created)
}
