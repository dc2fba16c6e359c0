package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/practice-api/internal/handler/appointment"
	"github.com/jwalitptl/practice-api/internal/handler/broadcast"
	"github.com/jwalitptl/practice-api/internal/handler/health"
	"github.com/jwalitptl/practice-api/internal/handler/journal"
	"github.com/jwalitptl/practice-api/internal/handler/meditation"
	"github.com/jwalitptl/practice-api/internal/handler/patient"
	"github.com/jwalitptl/practice-api/internal/handler/prometheus"
	"github.com/jwalitptl/practice-api/internal/handler/session"
	"github.com/jwalitptl/practice-api/internal/middleware"
)

type Handlers struct {
	Appointments *appointment.Handler
	Patients     *patient.Handler
	Sessions     *session.Handler
	Journal      *journal.Handler
	Broadcasts   *broadcast.Handler
	Meditations  *meditation.Handler
	Health       *health.Handler
	Metrics      *prometheus.Handler
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        middleware.RateLimiterConfig
	CORSConfig       middleware.CORSConfig
	MaxBodyBytes     int64
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config RouterConfig) *Router {
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
	}

	// RequestID must run first so later log lines carry it.
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		handlers.Metrics.Middleware(),
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(),
		middleware.ErrorHandler(),
	)

	if config.RateLimitEnabled {
		engine.Use(middleware.NewRateLimiter(config.RateLimit).RateLimit())
	}
	if config.MaxBodyBytes > 0 {
		engine.Use(middleware.SizeLimit(config.MaxBodyBytes))
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", r.handlers.Metrics.Handler())

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.handlers.Appointments.RegisterRoutes(rg)

	patients := r.handlers.Patients.RegisterRoutes(rg)
	r.handlers.Sessions.RegisterRoutes(patients)

	r.handlers.Journal.RegisterRoutes(rg)
	r.handlers.Broadcasts.RegisterRoutes(rg)
	r.handlers.Meditations.RegisterRoutes(rg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Limit converts a requests-per-second setting.
func Limit(rps float64) rate.Limit {
	if rps <= 0 {
		return rate.Inf
	}
	return rate.Limit(rps)
}
