package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/orgconsole/admin-api/config"
	"github.com/orgconsole/admin-api/internal/repository/postgres"
	"github.com/orgconsole/admin-api/internal/service/audit"
	eventService "github.com/orgconsole/admin-api/internal/service/event"
	"github.com/orgconsole/admin-api/pkg/logger"
	"github.com/orgconsole/admin-api/pkg/messaging/redis"
	"github.com/orgconsole/admin-api/pkg/metrics"
	"github.com/orgconsole/admin-api/pkg/worker"
)

const cleanupInterval = time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database.ToPostgresConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	appMetrics := metrics.New("admin_worker")
	outboxRepo := postgres.NewOutboxRepository(db)

	auditor := audit.NewAuditLogger(audit.NewService(postgres.NewAuditRepository(db)), appLogger)
	eventSvc := eventService.NewService(outboxRepo, broker, auditor)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), appLogger, appMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)
	go runCleanup(ctx, eventSvc, cfg.Outbox.RetainFor, appLogger)
	startHealthServer(appLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down worker")
	cancel()
}

// runCleanup prunes processed outbox rows that are past the retention
// window.
func runCleanup(ctx context.Context, events *eventService.Service, retainFor time.Duration, l *logger.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := events.CleanupProcessedEvents(ctx, retainFor); err != nil {
				l.Error(err, "failed to clean up processed events")
			}
		}
	}
}

func startHealthServer(l *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			l.Error(err, "health check server failed")
			os.Exit(1)
		}
	}()
}
