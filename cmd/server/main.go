package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/AhemdNada/alx-company/internal/app"
	"github.com/AhemdNada/alx-company/internal/cache"
	"github.com/AhemdNada/alx-company/internal/config"
	"github.com/AhemdNada/alx-company/internal/database"
	"github.com/AhemdNada/alx-company/internal/logging"
	"github.com/AhemdNada/alx-company/internal/mail"
	"github.com/AhemdNada/alx-company/internal/recaptcha"
	"github.com/AhemdNada/alx-company/internal/server"
	"github.com/AhemdNada/alx-company/internal/sse"
	"github.com/AhemdNada/alx-company/internal/upload"
)

func setupConfig() *config.Config {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

// setupCache picks the cache backend: Redis when configured, otherwise the
// in-process memory store with its sweeper. The returned stop function is a
// no-op for Redis.
func setupCache(cfg *config.Config, clock clockwork.Clock) (cache.Store, func()) {
	if cfg.RedisURL != "" {
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to parse Redis URL", "error", err)
			os.Exit(1)
		}
		client := goredis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}

		slog.Info("Using Redis content cache", "ttl", cfg.CacheTTL)
		return cache.NewRedis(client, cfg.CacheTTL), func() { _ = client.Close() }
	}

	memory := cache.NewMemory(cfg.CacheTTL, clock)
	stopSweeper := memory.StartSweeper(cfg.CacheSweepInterval)
	slog.Info("Using in-memory content cache", "ttl", cfg.CacheTTL, "sweep_interval", cfg.CacheSweepInterval)
	return memory, stopSweeper
}

func runGracefulShutdown(srv *server.Server, cleanup func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		cleanup()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	store, stopCache := setupCache(cfg, clock)

	uploads, err := upload.NewStorage(cfg.UploadDir)
	if err != nil {
		slog.Error("Failed to prepare upload directory", "error", err)
		os.Exit(1)
	}

	hub := sse.NewHub()

	content := app.NewContentService(
		database.NewSharingRateRepo(pool),
		database.NewChairmanRepo(pool),
		database.NewNewsRepo(pool),
		database.NewTickerRepo(pool),
		database.NewProjectRepo(pool),
		store,
		hub,
		uploads,
	)

	var notifier mail.Notifier
	if cfg.MailEnabled() {
		notifier = mail.NewMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			To:       cfg.CompanyEmail,
		})
	} else {
		slog.Info("SMTP not configured, contact notifications disabled")
	}
	contacts := app.NewContactService(database.NewContactRepo(pool), notifier)

	captcha := recaptcha.NewClient(cfg.RecaptchaSecretKey)
	if !captcha.Enabled() {
		slog.Info("reCAPTCHA secret not configured, verification disabled")
	}

	srv := server.NewServer(cfg, content, contacts, hub, uploads, captcha, pool, clock)

	done := runGracefulShutdown(srv, stopCache)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
