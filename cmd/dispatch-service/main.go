package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"repair-dispatch/internal/common/aws"
	"repair-dispatch/internal/common/config"
	"repair-dispatch/internal/common/database"
	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/common/observability"
	"repair-dispatch/internal/dispatch"
	"repair-dispatch/internal/geolocation"
	"repair-dispatch/internal/notify"
	"repair-dispatch/internal/registry"
	"repair-dispatch/internal/routing"
	"repair-dispatch/internal/server"
	"repair-dispatch/internal/spatial"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting dispatch service...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Postgres (fallback technician registry) with startup retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 5, 2*time.Second, zapLog, "Postgres initialization")
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	// --- Redis (spatial technician index) with startup retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx)
	}, 5, 2*time.Second, zapLog, "Redis initialization")
	if err != nil {
		zapLog.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()

	// --- Collaborators ---
	index := spatial.NewIndex(rdb.GetClient(), cfg.Dispatch.SearchRadiusKM, log)
	store := registry.NewStore(pg.GetDB(), log)
	router := routing.NewClient(
		cfg.Routing.BaseURL,
		cfg.Routing.APIKey,
		time.Duration(cfg.Routing.Timeout)*time.Millisecond,
		log,
	)
	locator := geolocation.NewIPLocator(
		cfg.Geolocation.BaseURL,
		time.Duration(cfg.Geolocation.Timeout)*time.Millisecond,
		log,
	)

	// --- Resolution core ---
	dispatchCfg := &dispatch.Config{
		FallbackTechnician:   cfg.Dispatch.FallbackTechnician,
		IndexTimeout:         time.Duration(cfg.Dispatch.IndexTimeout) * time.Millisecond,
		RegistryTimeout:      time.Duration(cfg.Dispatch.RegistryTimeout) * time.Millisecond,
		RouteTimeout:         time.Duration(cfg.Dispatch.RouteTimeout) * time.Millisecond,
		FallbackDistanceText: cfg.Dispatch.FallbackDistanceText,
		FallbackDurationText: cfg.Dispatch.FallbackDurationText,
	}
	resolver := dispatch.NewResolver(dispatchCfg, index, store, router, log)

	// --- Notification channels ---
	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Notifications.AWS.SES.Enabled || cfg.Notifications.AWS.SNS.Enabled {
		var sesClient *aws.SESClient
		var snsClient *aws.SNSClient
		if cfg.Notifications.AWS.SES.Enabled {
			sesClient, err = aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Warn("SES client init failed, email confirmations disabled", zap.Error(err))
			}
		}
		if cfg.Notifications.AWS.SNS.Enabled {
			snsClient, err = aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Warn("SNS client init failed, SMS confirmations disabled", zap.Error(err))
			}
		}
		if sesClient != nil || snsClient != nil {
			notifier = notify.NewAWSNotifier(sesClient, snsClient, cfg.Notifications.AWS.SES.FromEmail, log)
		}
	}

	// --- HTTP server ---
	srv := server.New(cfg, resolver, locator, notifier, pg, rdb, obs, log)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP shutdown error", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
