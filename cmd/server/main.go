// Package main provides the main entry point for the study web server.
// It loads content, opens the preference store and serves the tabbed page
// and its JSON API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyapp/internal/config"
	"studyapp/internal/di"
	"studyapp/internal/handlers"
	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"
)

// Application encapsulates the main application logic and can be tested
type Application struct {
	container di.ServiceContainerInterface
	server    *http.Server
}

// NewApplication creates a new application instance
func NewApplication(container di.ServiceContainerInterface) *Application {
	cfg := container.GetConfig()
	router := handlers.NewRouter(cfg, handlers.RouterDeps{
		Content:  container.GetContent(),
		Registry: container.GetRegistry(),
		Schemas:  container.GetSchemas(),
		Limiter:  container.GetSpeechLimiter(),
	}, container.GetLogger())

	return &Application{
		container: container,
		server: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: config.DefaultHTTPTimeout,
		},
	}
}

// Run serves until ctx is done or the listener fails
func (a *Application) Run(ctx context.Context) error {
	a.container.Start(ctx)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		return contextutils.WrapError(err, "server failed")
	}
}

// Shutdown drains in-flight requests, then releases every service
func (a *Application) Shutdown(ctx context.Context) error {
	httpErr := a.server.Shutdown(ctx)
	return errors.Join(httpErr, a.container.Shutdown(ctx))
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	tp, mp, logger, err := observability.SetupObservability(&cfg.OpenTelemetry, "study-server", cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if s, ok := tp.(shutdowner); ok {
			if err := s.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "Error shutting down tracer provider", map[string]interface{}{"error": err.Error(), "provider": "tracer"})
			}
		}
		if mp != nil {
			if err := mp.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "Error shutting down meter provider", map[string]interface{}{"error": err.Error(), "provider": "meter"})
			}
		}
	}()

	logger.Info(ctx, "Starting study server", map[string]interface{}{
		"port":                cfg.Server.Port,
		"logLevel":            cfg.Server.LogLevel,
		"content_source":      cfg.Content.Source,
		"preferences_backend": cfg.Preferences.Backend,
	})

	container := di.NewServiceContainer(cfg, logger)
	if err := container.Initialize(ctx); err != nil {
		logger.Error(ctx, "Failed to initialize services", err)
		os.Exit(1)
	}

	app := NewApplication(container)
	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "Application failed", err)
		_ = container.Shutdown(context.Background())
		os.Exit(1)
	}
	logger.Info(context.Background(), "Received shutdown signal, shutting down gracefully", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Error during application shutdown", err)
		return
	}
	logger.Info(shutdownCtx, "Shutdown completed successfully", nil)
}
