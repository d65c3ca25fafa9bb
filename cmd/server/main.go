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

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/taskmaster/internal/adapter/hostname"
	"github.com/pscheid92/taskmaster/internal/adapter/httpserver"
	"github.com/pscheid92/taskmaster/internal/adapter/memory"
	"github.com/pscheid92/taskmaster/internal/adapter/metrics"
	"github.com/pscheid92/taskmaster/internal/app"
	"github.com/pscheid92/taskmaster/internal/platform/config"
	"github.com/pscheid92/taskmaster/internal/platform/logging"
	"github.com/pscheid92/taskmaster/internal/platform/version"
)

func runGracefulShutdown(srv *httpserver.Server, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, draining...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogJournal)
	info := version.Get()
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", info.Version, "commit", info.Commit)

	reg := metrics.NewRegistry(info)
	taskMetrics := metrics.NewTaskMetrics(reg)
	hostnameMetrics := metrics.NewHostnameMetrics(reg)

	resolver := hostname.NewResolver(hostname.Config{
		Timeout:         cfg.HostnameLookupTimeout,
		Attempts:        cfg.HostnameLookupAttempts,
		RetryBackoff:    cfg.HostnameRetryBackoff,
		BreakerFailures: uint(cfg.HostnameBreakerFailures),
		BreakerDelay:    cfg.HostnameBreakerDelay,
	}, hostnameMetrics)

	appSvc := app.NewService(memory.NewTaskStore(), resolver, taskMetrics)

	srv, err := httpserver.NewServer(cfg, appSvc, reg, clock)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, cfg.ShutdownTimeout)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
