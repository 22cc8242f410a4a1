package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"postalservice/internal/config"
	"postalservice/internal/domain/postal"
	"postalservice/internal/infra/email"
	"postalservice/internal/infra/prepare"
	"postalservice/internal/infra/ratelimit"
	"postalservice/internal/infra/store"
	"postalservice/internal/infra/template"
	"postalservice/internal/locale"
	"postalservice/internal/middleware"
	"postalservice/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"provider", cfg.Mail.Provider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Locale catalogs
	localeCfg := locale.Config{
		Default:   cfg.Locale.Default,
		Supported: cfg.Locale.Supported,
	}
	if cfg.Locale.Dir != "" {
		localeCfg.FS = os.DirFS(cfg.Locale.Dir)
	}
	catalog, err := locale.NewCatalog(ctx, localeCfg, locale.WithLogger(logger))
	if err != nil {
		slog.Error("failed to load locale catalogs", "error", err, "dir", cfg.Locale.Dir)
		os.Exit(1)
	}
	slog.Info("locale catalogs initialized", "locales", catalog.Locales(), "default", catalog.Default())

	// Template Engine
	tmplEngine := template.NewEmbeddedEngine()
	if cfg.Templates.Dir != "" {
		tmplEngine = template.NewEngine(os.DirFS(cfg.Templates.Dir), ".")
	}

	// Email Transport
	transport, err := email.NewTransport(cfg.Mail)
	if err != nil {
		slog.Error("failed to initialize email transport", "error", err)
		os.Exit(1)
	}
	slog.Info("email transport initialized", "provider", transport.Name())

	// Dispatcher
	dispatcher, err := postal.NewDispatcher(
		postal.Options{
			Key:         cfg.Mail.Key,
			Secret:      cfg.Mail.Secret,
			WebmakerURL: cfg.Mail.WebmakerURL,
		},
		postal.Dependencies{
			Templates: tmplEngine,
			Locales:   catalog,
			Preparer:  prepare.New(),
			Transport: transport,
		},
	)
	if err != nil {
		slog.Error("failed to initialize dispatcher", "error", err)
		os.Exit(1)
	}
	slog.Info("dispatcher initialized", "webmaker_url", dispatcher.WebmakerURL())

	// Delivery log (optional)
	var deliveries postal.DeliveryLog
	if cfg.Supabase.URL != "" {
		deliveryLog, err := store.NewSupabaseDeliveryLog(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		if err != nil {
			slog.Error("failed to initialize supabase delivery log", "error", err)
			os.Exit(1)
		}
		deliveries = deliveryLog
		slog.Info("supabase delivery log initialized")
	}

	// Recipient Rate Limiter (optional)
	var recipientLimiter postal.RecipientRateLimiter
	if cfg.Redis.Address != "" {
		limiter := ratelimit.NewRedisRecipientLimiter(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.RecipientRateLimit.MaxPerHour,
		)
		defer limiter.Close()
		if err := limiter.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, recipient limits fail open", "error", err)
		}
		recipientLimiter = limiter
		slog.Info("recipient rate limiter initialized", "max_per_hour", cfg.RecipientRateLimit.MaxPerHour)
	}

	// Service
	postalService := postal.NewService(dispatcher, deliveries, recipientLimiter).WithLogger(logger)

	// Handler
	postalHandler := postal.NewHandler(postalService)

	// Per-IP rate limiter
	ipLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	go ipLimiter.Cleanup(ctx, time.Minute, 10*time.Minute)

	// Router
	r := router.New(cfg, ipLimiter, postalHandler, router.Info{
		Provider: transport.Name(),
		Locales:  catalog.Locales(),
	})

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server...")

	// Give outstanding sends 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
