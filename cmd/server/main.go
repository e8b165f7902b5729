package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/istehunt/hunt/internal/admin"
	"github.com/istehunt/hunt/internal/api"
	"github.com/istehunt/hunt/internal/config"
	"github.com/istehunt/hunt/internal/database"
	"github.com/istehunt/hunt/internal/event"
	"github.com/istehunt/hunt/internal/hunt"
	"github.com/istehunt/hunt/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bus := event.NewBus()
	store := hunt.NewPostgresStore(db.Pool())
	huntSvc := hunt.NewService(store, bus, hunt.WithLockWait(cfg.LockWait))

	adminRepo := admin.NewRepository(db.Pool())
	adminSvc := admin.NewService(adminRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		announcer, err := notify.NewTelegramAnnouncer(cfg.TelegramBotToken, cfg.TelegramChatID, huntSvc)
		if err != nil {
			slog.Warn("telegram announcer disabled", "error", err)
		} else {
			events, cancel := bus.Subscribe(32)
			defer cancel()
			go announcer.Run(ctx, events)
			slog.Info("telegram announcer enabled", "chat", cfg.TelegramChatID)
		}
	}

	router := api.NewRouter(api.RouterDeps{
		Hunt:         huntSvc,
		Auth:         adminSvc,
		Verifier:     adminSvc,
		Bus:          bus,
		DBPinger:     db,
		Version:      cfg.Version,
		CORSOrigins:  cfg.CORSOrigins,
		PinRateLimit: cfg.PinRateLimit,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting hunt server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
