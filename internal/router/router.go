package router

import (
	"log/slog"
	"net/http"

	"postalservice/internal/common"
	"postalservice/internal/config"
	"postalservice/internal/domain/postal"
	"postalservice/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Info describes the running dispatcher for the health endpoint.
type Info struct {
	Provider string
	Locales  []string
}

// New creates and configures the Gin router with all middleware and routes.
func New(
	cfg *config.Config,
	rateLimiter *middleware.RateLimiter,
	postalHandler *postal.Handler,
	info Info,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()

	// Global middleware stack (order matters)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(slog.Default()))
	r.Use(middleware.CORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))
	r.Use(rateLimiter.Middleware())

	// Public routes
	r.GET("/health", healthCheck(info))

	// API routes, protected when API keys are configured
	api := r.Group("/api/v1")
	if len(cfg.Auth.APIKeys) > 0 {
		api.Use(middleware.Auth(cfg.Auth.APIKeys))
	} else {
		slog.Warn("no API keys configured, /api/v1 is unauthenticated")
	}
	postalHandler.RegisterRoutes(api)

	return r
}

// healthCheck handles GET /health
func healthCheck(info Info) gin.HandlerFunc {
	return func(c *gin.Context) {
		common.Success(c, http.StatusOK, gin.H{
			"status":   "ok",
			"service":  "postalservice",
			"provider": info.Provider,
			"locales":  info.Locales,
		})
	}
}
