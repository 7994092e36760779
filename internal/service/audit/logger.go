package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/pkg/logger"
)

// AuditLogger wraps Service with fire-and-forget logging so request paths
// never block on the audit table.
type AuditLogger struct {
	service *Service
	logger  *logger.Logger
}

func NewAuditLogger(service *Service, logger *logger.Logger) *AuditLogger {
	return &AuditLogger{
		service: service,
		logger:  logger,
	}
}

func (l *AuditLogger) Log(ctx context.Context, userID, orgID uuid.UUID, action, entityType string, entityID uuid.UUID, opts *LogOptions) {
	go func() {
		if err := l.service.Log(context.WithoutCancel(ctx), userID, orgID, action, entityType, entityID, opts); err != nil {
			l.logger.Error(err, "failed to write audit log")
		}
	}()
}

func (l *AuditLogger) LogSync(ctx context.Context, userID, orgID uuid.UUID, action, entityType string, entityID uuid.UUID, opts *LogOptions) error {
	return l.service.Log(ctx, userID, orgID, action, entityType, entityID, opts)
}
