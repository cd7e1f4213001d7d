// Package main - точка входа для API сервера Hunter Hub.
//
// Сервер отвечает за клиентский интерфейс:
// - Регистрация и аутентификация охотников
// - Команды прогрессии (квесты, навыки, тени, данжи, атрибуты)
// - Проверка ежедневного сброса при входе
// - Чтение профиля, достижений и уведомлений
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
	"github.com/arise-hub/hunter-hub/internal/application/eventhandler"
	"github.com/arise-hub/hunter-hub/internal/application/query"
	"github.com/arise-hub/hunter-hub/internal/application/saga"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/messaging"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/persistence/postgres"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/persistence/redis"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/service"
	httpiface "github.com/arise-hub/hunter-hub/internal/interface/http"
	"github.com/arise-hub/hunter-hub/internal/interface/http/handlers"
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
	log.Info("starting Hunter Hub API server",
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

	log.Info("running database migrations...")
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
	redisCfg.PoolSize = cfg.Redis.PoolSize
	redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
	redisCfg.DialTimeout = cfg.Redis.DialTimeout
	redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
	redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

	redisCache, err := redis.NewCache(redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisCache.Close()

	profileCache := redis.NewProfileCache(redisCache)
	locker := redis.NewAccountLocker(redisCache, redis.AccountLockerOptions{})
	resetMarkers := redis.NewResetMarkerStore(redisCache)
	evaluationMemo := redis.NewEvaluationMemo(redisCache, redis.TTLEvaluationMemo)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	accountRepo := postgres.NewAccountRepository(dbConn)
	profileStore := postgres.NewRetryingProfileStore(postgres.NewProfileRepository(dbConn), log)
	notificationRepo := postgres.NewNotificationRepository(dbConn)
	dedupLog := postgres.NewDedupRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS & DISPATCHER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
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

	dispatcherCfg := messaging.DefaultDispatcherConfig(eventBus)
	dispatcherCfg.Logger = log
	dispatcher := messaging.NewDispatcher(dispatcherCfg)
	dispatcher.Use(messaging.RecoveryMiddleware(log))
	dispatcher.Use(messaging.LoggingMiddleware(log))
	dispatcher.Use(messaging.MetricsMiddleware(dispatcher.Metrics()))

	// ─────────────────────────────────────────────────────────────────────────
	// 6. NOTIFICATION DELIVERY
	// ─────────────────────────────────────────────────────────────────────────
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
	// 7. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	hasher := service.NewBcryptHasher(0)
	idGen := service.NewUUIDGenerator()

	onboarding := saga.NewOnboardingSaga(accountRepo, profileStore, hasher, sender, eventBus)
	achievementFlow := saga.NewAchievementFlowSaga(
		profileStore, profileCache, locker, sender, eventBus,
		saga.DefaultAchievementFlowConfig(),
	)

	progressionHandler := eventhandler.NewOnProgressionHandler(
		achievementFlow, log, eventhandler.DefaultProgressionConfig(),
	)
	for _, et := range progressionHandler.EventTypes() {
		if err := dispatcher.Register(et, "on_progression", progressionHandler.Handle); err != nil {
			return fmt.Errorf("failed to register progression handler: %w", err)
		}
	}
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer func() { _ = dispatcher.Stop() }()

	deps := httpiface.Dependencies{
		Onboarding:  onboarding,
		IDGenerator: idGen,

		CompleteQuestHandler:     command.NewCompleteQuestHandler(profileStore, profileCache, locker, sender, eventBus),
		UnlockSkillHandler:       command.NewUnlockSkillHandler(profileStore, profileCache, locker, sender, eventBus),
		ExtractShadowHandler:     command.NewExtractShadowHandler(profileStore, profileCache, locker, sender, eventBus),
		CompleteDungeonHandler:   command.NewCompleteDungeonHandler(profileStore, profileCache, locker, sender, eventBus),
		AllocateAttributeHandler: command.NewAllocateAttributeHandler(profileStore, profileCache, locker),
		ResetDailyQuestsHandler:  command.NewResetDailyQuestsHandler(profileStore, profileCache, locker, resetMarkers, sender, eventBus),

		GetProfileHandler:       query.NewGetProfileHandler(profileStore, profileCache),
		GetAchievementsHandler:  query.NewGetAchievementsHandler(profileStore, profileCache, evaluationMemo),
		GetTotalProgressHandler: query.NewGetTotalProgressHandler(profileStore, profileCache),

		Notifications: notificationRepo,
		Logger:        log,
		HealthChecker: buildHealthChecker(cfg, dbConn, redisCache),
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpiface.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.MaxBodyBytes = cfg.HTTP.MaxBodySize
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimit

	server := httpiface.NewServer(serverCfg, deps)
	errCh := server.StartAsync()

	log.Info("Hunter Hub API server is running", logger.String("address", server.Address()))

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
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

// buildHealthChecker собирает проверки живости для /health и /ready.
func buildHealthChecker(cfg *config.Config, db handlers.DatabaseChecker, cache handlers.CacheChecker) handlers.HealthChecker {
	checker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	checker.AddCheck("database", handlers.NewDatabaseCheck(db))
	checker.AddCheck("cache", handlers.NewCacheCheck(cache))
	return checker
}
