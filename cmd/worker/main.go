// Package main is the entry point for the cetele worker.
//
// The worker runs only the background jobs: the midnight streak sweep, the
// periodic leaderboard rebuild, and temporary reward expiry. Deployments
// that run a single API server do not need it, since the server schedules
// the same jobs itself. It exists for setups where the API is scaled to
// several replicas and the jobs must run exactly once.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ibrhsahin418-alt/cetele/config"
	"github.com/ibrhsahin418-alt/cetele/internal/application/command"
	"github.com/ibrhsahin418-alt/cetele/internal/application/eventhandler"
	"github.com/ibrhsahin418-alt/cetele/internal/application/query"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/leaderboard"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/messaging"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/postgres"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/redis"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/scheduler"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/scheduler/jobs"
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

	// The worker mutates durable state on a schedule. Running it against the
	// in-memory repositories would sweep an empty universe, so a database
	// is mandatory here even though the API server can live without one.
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required for the worker")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting cetele worker",
		"env", string(cfg.App.Environment),
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	if cfg.Database.MigrateOnStart {
		log.Info("checking database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database schema is up to date")
	}

	studentRepo := postgres.NewStudentRepository(dbConn)
	groupRepo := postgres.NewGroupRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS CACHES (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		redisCache   *redis.Cache
		studentCache student.Cache
		boardCache   leaderboard.Cache
	)

	if !cfg.Redis.Disabled {
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

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
			redisCache = nil
		} else {
			defer func() {
				log.Info("closing Redis connection...")
				_ = redisCache.Close()
			}()
			studentCache = redis.NewStudentCache(redisCache)
			boardCache = redis.NewLeaderboardCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS AND HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log

	var eventBus messaging.EventBus
	if redisCache != nil {
		// Publish over Pub/Sub so the API replicas invalidate their caches
		// when the nightly sweep rewrites streaks.
		eventBus, err = messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         messaging.NewGoRedisClient(redisCache.Client()),
			LocalBusConfig: busConfig,
			Logger:         log,
		})
		if err != nil {
			log.Warn("failed to start Redis event bus, falling back to in-memory", "error", err)
			eventBus = nil
		}
	}
	if eventBus == nil {
		eventBus = messaging.NewInMemoryEventBus(busConfig)
	}
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	invalidation := eventhandler.NewCacheInvalidationHandler(studentRepo, studentCache, boardCache, log)
	for _, eventType := range invalidation.EventTypes() {
		if err := eventBus.Subscribe(eventType, invalidation.Handle); err != nil {
			return fmt.Errorf("failed to subscribe cache invalidation handler: %w", err)
		}
	}

	audit := eventhandler.NewAuditLogHandler(log)
	if err := eventBus.SubscribeAll(audit.Handle); err != nil {
		return fmt.Errorf("failed to subscribe audit handler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing scheduler...")
	sched := scheduler.New(scheduler.Config{
		Logger:   log,
		Timezone: cfg.App.Location,
	})

	sweepSchedule, err := scheduler.ParseCronExpression(cfg.Scheduler.SweepCron)
	if err != nil {
		return fmt.Errorf("invalid sweep cron expression %q: %w", cfg.Scheduler.SweepCron, err)
	}

	sweepStreaks := command.NewSweepStreaksHandler(studentRepo, eventBus, log)
	sweepConfig := jobs.DefaultSweepStreaksConfig()
	sweepConfig.Timeout = cfg.Scheduler.JobTimeout
	sweepJob := jobs.NewSweepStreaksJob(sweepStreaks, log, sweepConfig)
	if err := sched.Register(sweepJob, sweepSchedule); err != nil {
		return fmt.Errorf("failed to register sweep job: %w", err)
	}

	getLeaderboard := query.NewGetLeaderboardHandler(studentRepo, boardCache)
	rebuildJob := jobs.NewRebuildLeaderboardJob(getLeaderboard, groupRepo, log, jobs.DefaultRebuildLeaderboardConfig())
	if err := sched.Register(rebuildJob, scheduler.NewIntervalSchedule(cfg.Scheduler.RebuildLeaderboardInterval)); err != nil {
		return fmt.Errorf("failed to register leaderboard job: %w", err)
	}

	expireJob := jobs.NewExpireRewardsJob(studentRepo, log)
	if err := sched.Register(expireJob, scheduler.NewIntervalSchedule(cfg.Scheduler.ExpireRewardsInterval)); err != nil {
		return fmt.Errorf("failed to register reward expiry job: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer func() {
		log.Info("stopping scheduler...")
		_ = sched.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. WAIT FOR SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("cetele worker is running",
		"sweep_cron", cfg.Scheduler.SweepCron,
		"timezone", cfg.App.Timezone,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupLogger configures the process-wide structured logger.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Observability.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.App.Environment == config.EnvProduction {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}
