// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"package-directory/internal/catalog"
	"package-directory/internal/common/config"
	"package-directory/internal/common/database"
	"package-directory/internal/common/logger"
	"package-directory/internal/common/observability"
	"package-directory/internal/notify/discord"
	"package-directory/internal/server"
	"package-directory/internal/submission"
	"package-directory/internal/submission/dispatcher"
	"package-directory/internal/submission/intake"
	"package-directory/internal/submission/resolution"
	"package-directory/internal/submission/tracker"
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

	zapLog.Info("Starting package directory service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	if err := catalog.EnsureSchema(ctx, pg.DB); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}

	// --- Build the pipeline ---
	pending := catalog.NewPendingStore(pg.DB)
	published := catalog.NewPublishedStore(pg.DB)
	queue := submission.NewQueue(cfg.Queue.Capacity)
	trk := tracker.New(redisClient.Client, time.Duration(cfg.Discord.TrackerTTLHours)*time.Hour)

	intakeHandler := intake.NewHandler(pending, queue, cfg.Discord.ReviewChannelID, log)
	resolutionHandler := resolution.NewHandler(pg.DB, pending, published, trk, log)

	// --- Init Discord bot ---
	bot, err := discord.NewBot(cfg.Discord.Token, resolutionHandler, config.GetDuration(cfg.Moderation.ResolveTimeout), log)
	if err != nil {
		zapLog.Fatal("discord session creation failed", zap.Error(err))
	}
	if err := bot.Open(); err != nil {
		zapLog.Fatal("discord connection failed", zap.Error(err))
	}
	defer bot.Close()
	zapLog.Info("Discord bot connected successfully")

	// --- Start the notification dispatcher ---
	d := dispatcher.New(queue, bot, trk, obs, config.GetDuration(cfg.Discord.PostTimeout), log)
	dispatcherDone := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(dispatcherDone)
	}()

	// --- Start the HTTP server ---
	srv := server.New(cfg, intakeHandler, pending, published, log)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("http shutdown incomplete", zap.Error(err))
	}

	select {
	case <-dispatcherDone:
	case <-shutdownCtx.Done():
		zapLog.Warn("dispatcher did not stop before deadline")
	}

	zapLog.Info("Service stopped")
}
