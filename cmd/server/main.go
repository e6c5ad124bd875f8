package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/attendance/internal/audit"
	"github.com/JonMunkholm/attendance/internal/config"
	"github.com/JonMunkholm/attendance/internal/core"
	"github.com/JonMunkholm/attendance/internal/export"
	"github.com/JonMunkholm/attendance/internal/logging"
	"github.com/JonMunkholm/attendance/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	// Audit sinks: always in memory, plus PostgreSQL when configured.
	memory := audit.NewMemorySink(cfg.Audit.MemoryCapacity)
	sinks := []audit.Sink{memory}
	if cfg.Audit.DatabaseURL != "" {
		pool, pg, err := audit.Connect(ctx, cfg.Audit.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect audit database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		// The database keeps the full history, so list from it first.
		sinks = []audit.Sink{pg, memory}
		slog.Info("audit database connected")
	}

	defaultFormat, err := core.ParseFormat(cfg.Export.DefaultFormat)
	if err != nil {
		slog.Error("invalid export format", "error", err)
		os.Exit(1)
	}

	service := core.NewService(core.Options{
		Renderer:      export.NewRenderer(),
		Audit:         audit.NewRecorder(sinks...),
		DefaultFormat: defaultFormat,
		Location:      cfg.Export.Location(),
	})

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
