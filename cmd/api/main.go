package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking_portal_backend/internal/attachments"
	"booking_portal_backend/internal/booking"
	"booking_portal_backend/internal/booking/draftstore"
	"booking_portal_backend/internal/booking/gateway"
	"booking_portal_backend/internal/booking/handler"
	apphttp "booking_portal_backend/internal/http"
	"booking_portal_backend/internal/notification"
	"booking_portal_backend/internal/parties"
	"booking_portal_backend/internal/scheduler"
	"booking_portal_backend/platform/config"
	"booking_portal_backend/platform/db"
	"booking_portal_backend/platform/events"
	"booking_portal_backend/platform/logger"
	"booking_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	var rdb *redis.Client
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		c, err := draftstore.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			return err
		}
		rdb = c
		return nil
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	defer rdb.Close()
	log.Info("redis connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(cfg, log)
	notificationModule.Subscribe(eventBus)

	// Shared validator instance for dependency injection
	val := validator.New()

	partiesModule := parties.NewModule(pool, val, log)

	syncTrigger, closeSyncTrigger := initDraftSyncTrigger(cfg, log)
	if closeSyncTrigger != nil {
		defer closeSyncTrigger()
	}

	bookingModule := booking.NewModule(rdb, gateway.StaticToken(cfg.GatewayToken), eventBus, syncTrigger, cfg, log)
	if bookingModule.Restore(ctx) {
		log.Info("wizard state restored from snapshot")
	}

	modules := []apphttp.Module{
		bookingModule,
		partiesModule,
	}

	if cfg.IsMinIOEnabled() {
		storage, err := attachments.NewMinIOStorage(cfg)
		if err != nil {
			log.Error("failed to initialize attachment storage", "error", err)
			panic("failed to initialize attachment storage: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure attachments bucket", 5, 2*time.Second, func() error {
			return storage.EnsureBucket(ctx)
		}); err != nil {
			log.Error("failed to ensure attachments bucket", "error", err)
			panic("failed to ensure attachments bucket: " + err.Error())
		}
		modules = append(modules, attachments.NewModule(storage, log))
		log.Info("attachment storage initialized", "bucket", cfg.GetMinioBucketBookingAttachments())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; attachment uploads disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  partiesModule,
		Modules: modules,
	}

	engine := apphttp.NewRouter(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initDraftSyncTrigger(cfg config.SchedulerConfig, log *logger.Logger) (handler.DraftSyncTrigger, func()) {
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Warn("task queue not available; on-demand draft sync disabled", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
