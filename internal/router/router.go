package router

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orgconsole/admin-api/internal/handler/health"
	"github.com/orgconsole/admin-api/internal/middleware"
	"github.com/orgconsole/admin-api/pkg/event"
)

// Module keys used to gate route groups. Each maps to a row in the module
// catalog; the auth middleware resolves availability and capabilities per
// request.
const (
	moduleAdministration = "administration"
	moduleUserManagement = "user_management"
	moduleTraining       = "training"
	moduleNotifications  = "notifications"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type EventHandler interface {
	RegisterRoutesWithEvents(*gin.RouterGroup, *event.EventTrackerMiddleware)
}

// Handlers carries every route registrar the router mounts.
type Handlers struct {
	Health       *health.Handler
	Auth         Handler
	Audit        Handler
	Organization EventHandler
	Workspace    EventHandler
	Facility     EventHandler
	Department   EventHandler
	User         EventHandler
	Role         EventHandler
	Module       EventHandler
	Training     EventHandler
	Notification EventHandler
}

type RouterConfig struct {
	RateLimit      float64
	RateBurst      int
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	handlers     Handlers
	eventTracker *event.EventTrackerMiddleware
	metrics      *routerMetrics
	config       RouterConfig
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	handlers Handlers,
	eventTracker *event.EventTrackerMiddleware,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		handlers:     handlers,
		eventTracker: eventTracker,
		metrics:      initRouterMetrics(config.MetricsPrefix),
		config:       config,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.Validation(middleware.DefaultValidationConfig()),
	)
	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(config.RateLimit, config.RateBurst)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)
	r.handlers.Auth.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	admin := protected.Group("", r.auth.RequireCapability(moduleAdministration, "edit"))
	r.handlers.Organization.RegisterRoutesWithEvents(admin, r.eventTracker)
	r.handlers.Workspace.RegisterRoutesWithEvents(admin, r.eventTracker)
	r.handlers.Facility.RegisterRoutesWithEvents(admin, r.eventTracker)
	r.handlers.Department.RegisterRoutesWithEvents(admin, r.eventTracker)
	r.handlers.Module.RegisterRoutesWithEvents(admin, r.eventTracker)

	users := protected.Group("", r.auth.RequireCapability(moduleUserManagement, "edit"))
	r.handlers.User.RegisterRoutesWithEvents(users, r.eventTracker)
	r.handlers.Role.RegisterRoutesWithEvents(users, r.eventTracker)

	training := protected.Group("", r.auth.RequireCapability(moduleTraining, "view"))
	r.handlers.Training.RegisterRoutesWithEvents(training, r.eventTracker)

	notifications := protected.Group("", r.auth.RequireCapability(moduleNotifications, "edit"))
	r.handlers.Notification.RegisterRoutesWithEvents(notifications, r.eventTracker)

	audit := protected.Group("", r.auth.RequireCapability(moduleAdministration, "admin"))
	r.handlers.Audit.RegisterRoutes(audit)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

var (
	routerMetricsOnce sync.Once
	routerMetricsInst *routerMetrics
)

// initRouterMetrics registers on the default registry, which the /metrics
// endpoint serves. Registration happens once per process.
func initRouterMetrics(prefix string) *routerMetrics {
	routerMetricsOnce.Do(func() {
		routerMetricsInst = &routerMetrics{
			requestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name: prefix + "_request_duration_seconds",
					Help: "Duration of HTTP requests in seconds",
				},
				[]string{"method", "path", "status"},
			),
			requestTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: prefix + "_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			errorTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: prefix + "_errors_total",
					Help: "Total number of HTTP errors",
				},
				[]string{"method", "path", "type"},
			),
		}
	})
	return routerMetricsInst
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
