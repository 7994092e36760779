package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/orgconsole/admin-api/config"
	auditHandler "github.com/orgconsole/admin-api/internal/handler/audit"
	authHandler "github.com/orgconsole/admin-api/internal/handler/auth"
	departmentHandler "github.com/orgconsole/admin-api/internal/handler/department"
	facilityHandler "github.com/orgconsole/admin-api/internal/handler/facility"
	healthHandler "github.com/orgconsole/admin-api/internal/handler/health"
	moduleHandler "github.com/orgconsole/admin-api/internal/handler/module"
	notificationHandler "github.com/orgconsole/admin-api/internal/handler/notification"
	organizationHandler "github.com/orgconsole/admin-api/internal/handler/organization"
	roleHandler "github.com/orgconsole/admin-api/internal/handler/role"
	trainingHandler "github.com/orgconsole/admin-api/internal/handler/training"
	userHandler "github.com/orgconsole/admin-api/internal/handler/user"
	workspaceHandler "github.com/orgconsole/admin-api/internal/handler/workspace"
	"github.com/orgconsole/admin-api/internal/email"
	"github.com/orgconsole/admin-api/internal/middleware"
	"github.com/orgconsole/admin-api/internal/repository/postgres"
	"github.com/orgconsole/admin-api/internal/router"
	auditService "github.com/orgconsole/admin-api/internal/service/audit"
	authService "github.com/orgconsole/admin-api/internal/service/auth"
	departmentService "github.com/orgconsole/admin-api/internal/service/department"
	eventService "github.com/orgconsole/admin-api/internal/service/event"
	facilityService "github.com/orgconsole/admin-api/internal/service/facility"
	moduleService "github.com/orgconsole/admin-api/internal/service/module"
	notificationService "github.com/orgconsole/admin-api/internal/service/notification"
	organizationService "github.com/orgconsole/admin-api/internal/service/organization"
	roleService "github.com/orgconsole/admin-api/internal/service/role"
	trainingService "github.com/orgconsole/admin-api/internal/service/training"
	userService "github.com/orgconsole/admin-api/internal/service/user"
	workspaceService "github.com/orgconsole/admin-api/internal/service/workspace"
	"github.com/orgconsole/admin-api/pkg/auth"
	"github.com/orgconsole/admin-api/pkg/event"
	"github.com/orgconsole/admin-api/pkg/logger"
	"github.com/orgconsole/admin-api/pkg/messaging/redis"
	"github.com/orgconsole/admin-api/pkg/metrics"
)

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

	appMetrics := metrics.New("admin_api")

	// Repositories
	organizationRepo := postgres.NewOrganizationRepository(db)
	workspaceRepo := postgres.NewWorkspaceRepository(db)
	facilityRepo := postgres.NewFacilityRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	scopedUserRepo := postgres.NewScopedUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	moduleRepo := postgres.NewModuleRepository(db)
	trainingRepo := postgres.NewTrainingEventRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	auditSvc := auditService.NewService(auditRepo)
	auditor := auditService.NewAuditLogger(auditSvc, appLogger)
	eventSvc := eventService.NewService(outboxRepo, broker, auditor)
	emailSvc := email.NewSMTPService(cfg.Email)
	jwtSvc := auth.NewJWTService(cfg.JWT)

	organizationSvc := organizationService.NewService(organizationRepo, auditor)
	workspaceSvc := workspaceService.NewService(workspaceRepo, organizationRepo, auditor)
	facilitySvc := facilityService.NewService(facilityRepo, workspaceRepo, organizationRepo, auditor)
	departmentSvc := departmentService.NewService(departmentRepo, facilityRepo, auditor)
	userSvc := userService.NewService(userRepo, organizationRepo, roleRepo, emailSvc, auditor, appLogger)
	roleSvc := roleService.NewService(roleRepo, userRepo, auditor)
	moduleSvc := moduleService.NewService(moduleRepo, roleRepo, auditor)
	notificationSvc := notificationService.NewService(notificationRepo, userRepo, scopedUserRepo, emailSvc, eventSvc, auditor, appMetrics)
	trainingSvc := trainingService.NewService(trainingRepo, notificationSvc, auditor)
	authSvc := authService.NewService(userRepo, jwtSvc, auditor)

	// Middleware and event tracking
	authMiddleware := middleware.NewAuthMiddleware(authSvc, moduleSvc)
	eventTracker := event.NewEventTrackerMiddleware(eventSvc)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	r := router.NewRouter(
		authMiddleware,
		router.Handlers{
			Health:       healthHandler.NewHandler(db),
			Auth:         authHandler.NewHandler(authSvc),
			Audit:        auditHandler.NewHandler(auditSvc),
			Organization: organizationHandler.NewHandler(organizationSvc),
			Workspace:    workspaceHandler.NewHandler(workspaceSvc),
			Facility:     facilityHandler.NewHandler(facilitySvc),
			Department:   departmentHandler.NewHandler(departmentSvc),
			User:         userHandler.NewHandler(userSvc),
			Role:         roleHandler.NewHandler(roleSvc),
			Module:       moduleHandler.NewHandler(moduleSvc),
			Training:     trainingHandler.NewHandler(trainingSvc),
			Notification: notificationHandler.NewHandler(notificationSvc),
		},
		eventTracker,
		router.RouterConfig{
			RateLimit:      cfg.RateLimit.RequestsPerSecond,
			RateBurst:      cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSConfig:     corsConfig,
			MetricsPrefix:  "admin_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited")
}
