package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hpungsan/scout/internal/config"
	"github.com/hpungsan/scout/internal/db"
	"github.com/hpungsan/scout/internal/intake"
	"github.com/hpungsan/scout/internal/logging"
	"github.com/hpungsan/scout/internal/metrics"
	"github.com/hpungsan/scout/internal/notify"
	"github.com/hpungsan/scout/internal/ratelimit"
	"github.com/hpungsan/scout/internal/review"
	"github.com/hpungsan/scout/internal/session"
	"github.com/hpungsan/scout/internal/telegram"
)

const inboundLimiterPrefix = "scout:inbound"

// runServe starts the bot and blocks until SIGINT/SIGTERM or ctx is cancelled.
func runServe(parent context.Context, database *sql.DB, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
	defer func() { _ = logger.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.SessionBackend == config.SessionBackendRedis {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis url parse failed: %w", err)
		}
		redisClient = redis.NewClient(opts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("redis close failed", zap.Error(err))
			}
		}()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}

	var sessions session.Store
	if redisClient != nil {
		sessions = session.NewRedisStore(redisClient, session.DefaultRedisPrefix)
	} else {
		sessions = session.NewMemoryStore()
		logger.Warn("in-memory sessions: unfinished questionnaires are lost on restart")
	}

	var limiter ratelimit.Limiter = ratelimit.Noop{}
	switch {
	case cfg.InboundPerMinute <= 0:
	case redisClient != nil:
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.InboundPerMinute, time.Minute, inboundLimiterPrefix)
	default:
		limiter = ratelimit.NewMemoryLimiter(cfg.InboundPerMinute)
	}

	collector := metrics.NewCollector()

	// Long polls hold the connection for the poll timeout; leave headroom on top.
	client := telegram.NewClient(cfg.BotToken, &http.Client{Timeout: cfg.PollTimeout() + 10*time.Second})

	meCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	me, err := client.GetMe(meCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("telegram getMe failed: %w", err)
	}
	logger.Info("telegram bot identified", zap.String("username", me.Username))

	store := db.NewStore(database)
	engine := intake.NewEngine(store, sessions, notify.NewDispatcher(client, logger, collector), intake.Options{
		Operators:   cfg.Operators,
		BotUsername: me.Username,
		Logger:      logger,
		Metrics:     collector,
	})
	workflow := review.NewWorkflow(store, review.Options{
		Operators: cfg.Operators,
		Logger:    logger,
		Metrics:   collector,
	})
	bot := telegram.NewBot(client, engine, workflow, limiter, collector, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	var poller *telegram.Poller
	if cfg.WebhookURL != "" {
		mux.Handle("/telegram/webhook", telegram.NewWebhookHandler(bot, cfg.WebhookSecret, logger))
		hookCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.SetWebhook(hookCtx, cfg.WebhookURL, cfg.WebhookSecret, false)
		cancel()
		if err != nil {
			return fmt.Errorf("telegram set webhook failed: %w", err)
		}
		logger.Info("telegram webhook configured", zap.String("url", cfg.WebhookURL))
	} else {
		poller = telegram.NewPoller(client, bot, logger, cfg.PollTimeout(), time.Second, 100)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           collector.Middleware(mux),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("scout listening", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	done := make(chan struct{})
	if poller != nil {
		go func() {
			defer close(done)
			poller.Run(ctx)
		}()
		logger.Info("telegram polling enabled", zap.Duration("timeout", cfg.PollTimeout()))
	} else {
		close(done)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}
	<-done

	return nil
}
