package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/apikeys/internal/app"
	"github.com/allisson/apikeys/internal/config"
)

// recorderDrainTimeout bounds how long shutdown waits for queued access logs.
const recorderDrainTimeout = 10 * time.Second

// RunServer starts the HTTP server with graceful shutdown support.
// Loads configuration, initializes the DI container, starts the access log recorder and
// the Gin HTTP server. Blocks until receiving SIGINT/SIGTERM or encountering a fatal error.
// On shutdown the servers stop first, then queued access logs are flushed.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	// Get HTTP server from container (this initializes all dependencies)
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	recorder, err := container.AccessRecorder()
	if err != nil {
		return fmt.Errorf("failed to initialize access recorder: %w", err)
	}

	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	defer stopRecorder()
	recorderDone := make(chan error, 1)
	go func() {
		recorderDone <- recorder.Start(recorderCtx)
	}()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, 2)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	var shutdownErrors []error

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", err))
		shutdownErrors = append(shutdownErrors, err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	stopRecorder()
	select {
	case err := <-recorderDone:
		if err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("access recorder: %w", err))
		}
	case <-time.After(recorderDrainTimeout):
		logger.Warn("timed out waiting for access log recorder to drain")
	}

	return errors.Join(shutdownErrors...)
}
