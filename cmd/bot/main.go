package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Proton-105/egeshop-bot/internal/bot"
	"github.com/Proton-105/egeshop-bot/internal/database"
	"github.com/Proton-105/egeshop-bot/internal/health"
	"github.com/Proton-105/egeshop-bot/internal/i18n"
	"github.com/Proton-105/egeshop-bot/internal/idempotency"
	"github.com/Proton-105/egeshop-bot/internal/lifecycle"
	"github.com/Proton-105/egeshop-bot/internal/middleware"
	"github.com/Proton-105/egeshop-bot/internal/ratelimit"
	"github.com/Proton-105/egeshop-bot/internal/repository"
	"github.com/Proton-105/egeshop-bot/internal/settings"
	"github.com/Proton-105/egeshop-bot/internal/state"
	"github.com/Proton-105/egeshop-bot/internal/user"
	"github.com/Proton-105/egeshop-bot/pkg/config"
	"github.com/Proton-105/egeshop-bot/pkg/graceful"
	"github.com/Proton-105/egeshop-bot/pkg/logger"
	appredis "github.com/Proton-105/egeshop-bot/pkg/redis"

	_ "github.com/lib/pq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, levelVar := logger.New(*cfg)
	slog.SetDefault(log)

	log.Info("starting egeshop bot",
		slog.String("env", cfg.AppEnv),
		slog.String("http_port", cfg.Server.Port),
		slog.String("log_level", cfg.Logger.Level),
	)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return fmt.Errorf("initialize sentry: %w", err)
		}
	}

	config.Watch(v, cfg.AppEnv, log, levelVar, func(updated config.Config) {
		log.Info("configuration reloaded", slog.String("log_level", updated.Logger.Level))
	})

	db, err := sql.Open("postgres", cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(ctx, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = appredis.New(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
	}

	i18nManager, err := i18n.Load("ru")
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	translator := i18nManager.Translator("ru")

	userRepo := repository.NewUserRepository(db, log)
	settingsRepo := repository.NewSettingsRepository(db, log)
	userService := user.NewService(userRepo, log)
	settingsService := settings.NewService(settingsRepo, log)

	sessionStorage := state.NewMemoryStorage()
	fsm := state.NewStateMachine(sessionStorage, log, redisClient)

	var limiter ratelimit.Limiter
	var idemStore idempotency.Store
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, log)
		idemStore = idempotency.NewRedisStore(redisClient, log)
	} else {
		memLimiter := ratelimit.NewMemoryLimiter()
		limiter = memLimiter
		idemStore = idempotency.NewMemoryStore()

		go sweepMemoryStores(ctx, memLimiter.(*ratelimit.MemoryLimiter), idemStore.(*idempotency.MemoryStore))
	}
	if !cfg.RateLimit.Enabled {
		limiter = nil
	}

	rules := ratelimit.NewRules(cfg.RateLimit)
	idemManager := idempotency.NewManager(idemStore, log)

	tgBot, err := bot.New(ctx, *cfg, log, bot.Dependencies{
		FSM:         fsm,
		Idempotency: idemManager,
		Limiter:     limiter,
		Rules:       rules,
		Translator:  translator,
		Users:       userService,
		Settings:    settingsService,
	})
	if err != nil {
		return fmt.Errorf("initialize bot: %w", err)
	}

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db))
	checker.AddCheck("telegram", health.NewTelegramChecker(tgBot.Telebot()))
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}

	sessionCleaner := state.NewCleaner(sessionStorage, log, time.Hour, 10*time.Minute)
	go sessionCleaner.Run(ctx)

	if redisClient != nil {
		rateCleaner := ratelimit.NewCleaner(redisClient, log, 5*time.Minute)
		go rateCleaner.Run(ctx)
	}

	srv := graceful.NewServer(log, &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           serviceMux(log, checker),
		ReadHeaderTimeout: 5 * time.Second,
	}, cfg.Server.ShutdownTimeout)

	srvDone := make(chan error, 1)
	go func() { srvDone <- srv.ListenAndServe(ctx) }()

	go tgBot.Start()
	log.Info("bot polling started", slog.Int64("admin_id", cfg.Bot.AdminID))

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("telegram-bot", func(context.Context) error {
		tgBot.Stop()
		return nil
	})
	shutdown.Register("database", func(context.Context) error {
		return db.Close()
	})
	if redisClient != nil {
		shutdown.Register("redis", func(context.Context) error {
			return redisClient.Close()
		})
	}
	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	if err := <-srvDone; err != nil {
		return err
	}

	log.Info("egeshop bot stopped")
	return nil
}

func serviceMux(log *slog.Logger, checker *health.Checker) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		results, healthy := checker.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(results)
	})

	handler := middleware.HTTPLogging(log)(mux)
	return logger.Middleware(handler)
}

// sweepMemoryStores periodically compacts the in-process fallbacks used when
// Redis is disabled.
func sweepMemoryStores(ctx context.Context, limiter *ratelimit.MemoryLimiter, store *idempotency.MemoryStore) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup(time.Hour)
			store.Sweep()
		}
	}
}
