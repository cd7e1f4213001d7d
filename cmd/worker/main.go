// Package main - точка входа для фоновых процессов (Worker) Hunter Hub.
//
// Worker отвечает за периодические задачи:
// - Пакетный сброс ежедневных квестов после полуночи UTC
// - Повторная доставка упавших уведомлений
// - Очистка старых уведомлений и dedup-журнала
//
// Сброс через Worker использует тот же обработчик команды, что и проверка
// при входе клиента, поэтому маркеры и блокировки ведут себя одинаково.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arise-hub/hunter-hub/config"
	"github.com/arise-hub/hunter-hub/internal/application/command"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/messaging"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/persistence/postgres"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/persistence/redis"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/scheduler"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/scheduler/jobs"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/service"
	"github.com/arise-hub/hunter-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	log.Info("starting Hunter Hub Worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Worker тоже должен работать с актуальной схемой.
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. REDIS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis...")
	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB

	redisCache, err := redis.NewCache(redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisCache.Close()

	profileCache := redis.NewProfileCache(redisCache)
	locker := redis.NewAccountLocker(redisCache, redis.AccountLockerOptions{})
	resetMarkers := redis.NewResetMarkerStore(redisCache)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	localBusCfg := messaging.DefaultInMemoryEventBusConfig()
	localBusCfg.Logger = log

	eventBus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
		Client:         redis.NewPubSubClient(redisCache),
		LocalBusConfig: localBusCfg,
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	defer eventBus.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. NOTIFICATION DELIVERY
	// ─────────────────────────────────────────────────────────────────────────
	profileStore := postgres.NewRetryingProfileStore(postgres.NewProfileRepository(dbConn), log)
	notificationRepo := postgres.NewNotificationRepository(dbConn)
	dedupLog := postgres.NewDedupRepository(dbConn)

	sender := service.NewNotificationSender(dedupLog, notificationRepo, log)
	sender.RegisterChannel(service.NewInAppChannel(redisCache, nil))
	if cfg.Notification.WebhookURL != "" {
		sender.RegisterChannel(service.NewWebhookChannel(service.WebhookChannelConfig{
			URL:     cfg.Notification.WebhookURL,
			Secret:  cfg.Notification.WebhookSecret,
			Timeout: cfg.Notification.RequestTimeout,
			Logger:  log,
		}))
	}
	sender.RegisterChannel(service.NewLogChannel(log))

	// ─────────────────────────────────────────────────────────────────────────
	// 6. JOBS & SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	resetHandler := command.NewResetDailyQuestsHandler(
		profileStore, profileCache, locker, resetMarkers, sender, eventBus,
	)

	batchReset := jobs.NewBatchResetJob(profileStore, resetHandler, eventBus, log, jobs.BatchResetConfig{
		Concurrency: cfg.Scheduler.BatchResetConcurrency,
		Timeout:     cfg.Scheduler.JobTimeout,
	})

	maintenance := jobs.NewNotificationMaintenanceJob(sender, log, jobs.NotificationMaintenanceConfig{
		RetryBatchSize: cfg.Scheduler.RetryBatchSize,
		Retention:      cfg.Notification.Retention,
	})

	schedCfg := scheduler.DefaultSchedulerConfig()
	schedCfg.Logger = log
	sched := scheduler.NewScheduler(schedCfg)

	resetCron := scheduler.MustParseCronExpression(
		fmt.Sprintf("%d %d * * *", cfg.Scheduler.BatchResetMinute, cfg.Scheduler.BatchResetHour),
	)
	if err := sched.Register(batchReset, resetCron); err != nil {
		return fmt.Errorf("failed to register batch reset job: %w", err)
	}
	if err := sched.Register(maintenance, scheduler.NewIntervalSchedule(cfg.Scheduler.MaintenanceInterval)); err != nil {
		return fmt.Errorf("failed to register maintenance job: %w", err)
	}

	if cfg.Scheduler.Enabled {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		log.Info("scheduler started",
			logger.String("batch_reset", resetCron.String()),
			logger.Duration("maintenance_interval", cfg.Scheduler.MaintenanceInterval),
		)
	} else {
		log.Warn("scheduler is disabled, worker will stay idle")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", logger.String("signal", sig.String()))

	if cfg.Scheduler.Enabled {
		if err := sched.Stop(); err != nil {
			log.Warn("scheduler stop failed", logger.Err(err))
		}
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupLogger настраивает структурированное логирование по конфигурации.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()

	switch strings.ToLower(cfg.Observability.LogLevel) {
	case "debug":
		opts.Level = logger.LevelDebug
	case "warn":
		opts.Level = logger.LevelWarn
	case "error":
		opts.Level = logger.LevelError
	default:
		opts.Level = logger.LevelInfo
	}

	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}

	return logger.New(opts)
}
