// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"repair-dispatch/internal/common/config"
	"repair-dispatch/internal/common/database"
	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/common/observability"
	"repair-dispatch/internal/dispatch"
	"repair-dispatch/internal/geolocation"
	"repair-dispatch/internal/notify"
)

// TechnicianResolver is the core contract the HTTP layer depends on.
type TechnicianResolver interface {
	Resolve(ctx context.Context, customer dispatch.Coordinate) (*dispatch.TechnicianAssignment, error)
}

// Server is the HTTP surface: resolution, bookings, health, metrics.
type Server struct {
	cfg      *config.Config
	engine   *gin.Engine
	resolver TechnicianResolver
	locator  geolocation.Locator
	notifier notify.Notifier
	postgres *database.PostgresClient
	redis    *database.RedisClient
	obs      *observability.Observability
	logger   logger.Logger
}

func New(
	cfg *config.Config,
	resolver TechnicianResolver,
	locator geolocation.Locator,
	notifier notify.Notifier,
	postgres *database.PostgresClient,
	redis *database.RedisClient,
	obs *observability.Observability,
	log logger.Logger,
) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		engine:   gin.New(),
		resolver: resolver,
		locator:  locator,
		notifier: notifier,
		postgres: postgres,
		redis:    redis,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "server"}),
	}

	s.engine.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api/v1")
	api.POST("/dispatch/resolve", s.handleResolve)
	api.POST("/bookings", s.handleCreateBooking)
}

// Engine exposes the router for tests and for the entrypoint's http.Server.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if s.postgres != nil {
		if err := s.postgres.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	}
	if s.redis != nil {
		if err := s.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"healthy": healthy, "checks": checks})
}
