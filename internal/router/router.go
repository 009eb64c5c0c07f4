package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/swasthyaid/health-api/internal/handler"
	aiHandler "github.com/swasthyaid/health-api/internal/handler/ai"
	authHandler "github.com/swasthyaid/health-api/internal/handler/auth"
	doctorHandler "github.com/swasthyaid/health-api/internal/handler/doctor"
	recordHandler "github.com/swasthyaid/health-api/internal/handler/record"
	statsHandler "github.com/swasthyaid/health-api/internal/handler/stats"
	workerHandler "github.com/swasthyaid/health-api/internal/handler/worker"
	"github.com/swasthyaid/health-api/internal/middleware"
)

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	authH   *authHandler.Handler
	workerH *workerHandler.Handler
	doctorH *doctorHandler.Handler
	recordH *recordHandler.Handler
	statsH  *statsHandler.Handler
	aiH     *aiHandler.Handler
	h       *handler.Handler
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	workerH *workerHandler.Handler,
	doctorH *doctorHandler.Handler,
	recordH *recordHandler.Handler,
	statsH *statsHandler.Handler,
	aiH *aiHandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	middleware.RegisterValidations()

	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		authH:   authH,
		workerH: workerH,
		doctorH: doctorH,
		recordH: recordH,
		statsH:  statsH,
		aiH:     aiH,
		h:       h,
		metrics: initRouterMetrics("health_api"),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.DefaultTimeoutConfig()),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health", r.h.LivenessCheck)
	r.engine.GET("/ready", r.h.ReadinessCheck)
	r.engine.GET("/metrics", r.h.MetricsHandler)

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	// Public routes: registration and both login flows.
	r.authH.RegisterRoutes(api)
	r.doctorH.RegisterRoutes(api)
	r.statsH.RegisterRoutes(api)
	r.workerH.RegisterRoutes(api, r.auth)

	// AI endpoints take any authenticated principal.
	authed := api.Group("")
	authed.Use(r.auth.Authenticate())
	r.aiH.RegisterRoutes(authed)

	// Record creation is doctor-only.
	doctorOnly := api.Group("")
	doctorOnly.Use(r.auth.Authenticate(), r.auth.RequireDoctor())
	r.recordH.RegisterRoutes(doctorOnly)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
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
