// Package main is the entry point for the cetele API server.
//
// The server hosts everything in one process: the REST API, the event bus
// with its cache invalidation and audit handlers, and the background jobs
// (midnight streak sweep, leaderboard rebuild, reward expiry). Storage is
// PostgreSQL when DATABASE_URL is set and in-memory otherwise, which keeps
// local development dependency-free. With Redis available the bus rides
// Pub/Sub so several replicas stay in sync.
package main

import (
	"context"
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
	"github.com/ibrhsahin418-alt/cetele/internal/domain/mentor"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/external/avatar"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/external/motivation"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/messaging"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/memory"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/postgres"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/redis"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/scheduler"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/scheduler/jobs"
	httpapi "github.com/ibrhsahin418-alt/cetele/internal/interface/http"
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

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting cetele server",
		"env", string(cfg.App.Environment),
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. REPOSITORIES (PostgreSQL or in-memory)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		studentRepo student.Repository
		mentorRepo  mentor.Repository
		groupRepo   mentor.GroupRepository
		dbConn      *postgres.Connection
	)

	if cfg.Database.URL != "" {
		log.Info("connecting to database...")
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
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

		studentRepo = postgres.NewStudentRepository(dbConn)
		mentorRepo = postgres.NewMentorRepository(dbConn)
		groupRepo = postgres.NewGroupRepository(dbConn)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory repositories (data is lost on restart)")
		studentRepo = memory.NewStudentRepository()
		mentorRepo = memory.NewMentorRepository()
		groupRepo = memory.NewGroupRepository()
	}

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
			// The server stays functional without Redis, only slower.
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
	log.Info("initializing event bus...")
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log

	var eventBus messaging.EventBus
	if redisCache != nil {
		// With Redis available, fan events out over Pub/Sub so cache
		// invalidations reach every replica.
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
	// 6. EXTERNAL CLIENTS
	// ─────────────────────────────────────────────────────────────────────────
	avatars := avatar.NewResolver()

	motivationBaseURL := cfg.Motivation.BaseURL
	if cfg.Motivation.Disabled {
		// An empty base URL makes the client serve fallback quotes only.
		motivationBaseURL = ""
	}
	motivationCfg := motivation.DefaultConfig(motivationBaseURL, cfg.Motivation.APIKey)
	motivationCfg.Model = cfg.Motivation.Model
	motivationCfg.Timeout = cfg.Motivation.RequestTimeout
	motivationCfg.CacheTTL = cfg.Motivation.CacheTTL
	motivationCfg.Logger = log
	motivationClient := motivation.NewClient(motivationCfg)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. COMMAND AND QUERY HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	loginHandler := command.NewLoginHandler(studentRepo, mentorRepo, cfg.Auth.SigningKey, cfg.Auth.TokenTTL)
	registerStudent := command.NewRegisterStudentHandler(studentRepo, groupRepo, avatars, eventBus)
	registerMentor := command.NewRegisterMentorHandler(mentorRepo, groupRepo, cfg.Auth.MentorCodeHash, eventBus)
	logActivity := command.NewLogActivityHandler(studentRepo, eventBus)
	buyItem := command.NewBuyItemHandler(studentRepo, avatars, eventBus)
	toggleReward := command.NewToggleRewardHandler(studentRepo)
	toggleVerification := command.NewToggleVerificationHandler(studentRepo, eventBus)
	approveAllLogs := command.NewApproveAllLogsHandler(studentRepo)
	assignTask := command.NewAssignTaskHandler(studentRepo, eventBus)
	removeTask := command.NewRemoveTaskHandler(studentRepo, eventBus)
	assignGroupTask := command.NewAssignGroupTaskHandler(studentRepo, eventBus)
	removeGroupTask := command.NewRemoveGroupTaskHandler(studentRepo, eventBus)
	updateJoinCode := command.NewUpdateJoinCodeHandler(groupRepo)
	sweepStreaks := command.NewSweepStreaksHandler(studentRepo, eventBus, log)

	getDailyProgress := query.NewGetDailyProgressHandler(studentRepo)
	getLeaderboard := query.NewGetLeaderboardHandler(studentRepo, boardCache)
	getGroupOverview := query.NewGetGroupOverviewHandler(studentRepo, groupRepo)
	getMotivation := query.NewGetMotivationHandler(studentRepo, motivationClient)
	getShop := query.NewGetShopHandler(studentRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Scheduler.Enabled {
		log.Info("initializing scheduler...")
		sched := scheduler.New(scheduler.Config{
			Logger:   log,
			Timezone: cfg.App.Location,
		})

		sweepSchedule, err := scheduler.ParseCronExpression(cfg.Scheduler.SweepCron)
		if err != nil {
			return fmt.Errorf("invalid sweep cron expression %q: %w", cfg.Scheduler.SweepCron, err)
		}

		sweepConfig := jobs.DefaultSweepStreaksConfig()
		sweepConfig.Timeout = cfg.Scheduler.JobTimeout
		sweepJob := jobs.NewSweepStreaksJob(sweepStreaks, log, sweepConfig)
		if err := sched.Register(sweepJob, sweepSchedule); err != nil {
			return fmt.Errorf("failed to register sweep job: %w", err)
		}

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
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	readiness := make(map[string]httpapi.ReadinessCheck)
	if dbConn != nil {
		readiness["postgres"] = dbConn.Ping
	}
	if redisCache != nil {
		readiness["redis"] = redisCache.Ping
	}

	serverConfig := httpapi.DefaultConfig()
	serverConfig.Host = cfg.HTTP.Host
	serverConfig.Port = cfg.HTTP.Port
	serverConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	serverConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	serverConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	serverConfig.EnableCORS = cfg.HTTP.EnableCORS
	serverConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	serverConfig.SigningKey = cfg.Auth.SigningKey

	server := httpapi.NewServer(serverConfig, httpapi.Dependencies{
		Login:              loginHandler,
		RegisterStudent:    registerStudent,
		RegisterMentor:     registerMentor,
		LogActivity:        logActivity,
		BuyItem:            buyItem,
		ToggleReward:       toggleReward,
		ToggleVerification: toggleVerification,
		ApproveAllLogs:     approveAllLogs,
		AssignTask:         assignTask,
		RemoveTask:         removeTask,
		AssignGroupTask:    assignGroupTask,
		RemoveGroupTask:    removeGroupTask,
		UpdateJoinCode:     updateJoinCode,
		SweepStreaks:       sweepStreaks,
		GetDailyProgress:   getDailyProgress,
		GetLeaderboard:     getLeaderboard,
		GetGroupOverview:   getGroupOverview,
		GetMotivation:      getMotivation,
		GetShop:            getShop,
		Logger:             log,
		ReadinessChecks:    readiness,
	})

	serverErrCh := server.StartAsync()
	log.Info("cetele server is running",
		"addr", fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-serverErrCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupLogger configures the process-wide structured logger. Production gets
// JSON for log aggregators, everything else gets human-readable text.
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
