// Package di provides dependency injection container for managing service lifecycle and dependencies.
package di

import (
	"context"
	"errors"
	"sync"
	"time"

	"studyapp/internal/config"
	"studyapp/internal/content"
	"studyapp/internal/middleware"
	"studyapp/internal/observability"
	"studyapp/internal/shell"
	"studyapp/internal/speech"
	"studyapp/internal/store"
	contextutils "studyapp/internal/utils"

	"golang.org/x/sync/errgroup"
)

// ServiceContainerInterface defines the interface for service containers
type ServiceContainerInterface interface {
	GetContent() *content.Repository
	GetPreferenceStore() store.Store
	GetSynthesizer() speech.Synthesizer
	GetRegistry() *shell.Registry
	GetSchemas() *middleware.SchemaLoader
	GetSpeechLimiter() *middleware.RateLimiter
	GetConfig() *config.Config
	GetLogger() *observability.Logger
	Initialize(ctx context.Context) error
	Start(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// ServiceContainer manages all service dependencies and lifecycle
type ServiceContainer struct {
	cfg    *config.Config
	logger *observability.Logger

	mu            sync.RWMutex
	content       *content.Repository
	prefs         store.Store
	synth         speech.Synthesizer
	registry      *shell.Registry
	schemas       *middleware.SchemaLoader
	limiter       *middleware.RateLimiter
	shutdownFuncs []func(context.Context) error

	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewServiceContainer creates a new dependency injection container
func NewServiceContainer(cfg *config.Config, logger *observability.Logger) *ServiceContainer {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &ServiceContainer{cfg: cfg, logger: logger}
}

// Initialize sets up all services and their dependencies
func (sc *ServiceContainer) Initialize(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	source, err := content.NewSource(sc.cfg.Content, sc.logger)
	if err != nil {
		return contextutils.WrapError(err, "failed to create content source")
	}
	sc.content = content.NewRepository(source, sc.logger)
	sc.content.SetLoadTimeout(sc.cfg.Content.Timeout)
	if sc.cfg.Content.Preload {
		// A missing document only fails its own tabs.
		if err := sc.content.Preload(ctx); err != nil {
			sc.logger.Warn(ctx, "Some content documents failed to preload", map[string]interface{}{"error": err.Error()})
		}
	}

	prefs, err := store.New(ctx, sc.cfg.Preferences, sc.logger)
	if err != nil {
		return contextutils.WrapError(err, "failed to open preference store")
	}
	sc.prefs = prefs
	sc.shutdownFuncs = append(sc.shutdownFuncs, func(_ context.Context) error {
		return prefs.Close()
	})

	sc.synth = speech.New(sc.cfg.Speech, sc.logger)
	sc.limiter = middleware.NewRateLimiter(sc.cfg.Speech.RequestsPerSecond, sc.cfg.Speech.Burst)

	sc.schemas, err = middleware.LoadSchemas()
	if err != nil {
		_ = sc.cleanup(ctx)
		return contextutils.WrapError(err, "failed to load API description")
	}

	sc.registry = shell.NewRegistry(shell.Deps{
		Content: sc.content,
		Store:   sc.prefs,
		Synth:   sc.synth,
		Logger:  sc.logger,
	}, sc.cfg.Server.SessionTTL)

	sc.logger.Info(ctx, "Services initialized", map[string]interface{}{
		"content_source":      source.String(),
		"preferences_backend": sc.cfg.Preferences.Backend,
		"speech_enabled":      sc.cfg.Speech.Enabled,
	})
	return nil
}

// Start launches the background tasks: the idle session sweeper and, for
// directory sources with watching enabled, the content watcher. They stop
// on Shutdown.
func (sc *ServiceContainer) Start(ctx context.Context) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	sc.cancel, sc.group = cancel, g

	registry, limiter, repo := sc.registry, sc.limiter, sc.content
	g.Go(func() error {
		registry.Run(ctx, config.SessionSweepInterval)
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(config.SessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				limiter.Forget(config.SessionIdleTTL)
			}
		}
	})

	if dir, ok := repo.Source().(*content.DirSource); ok && sc.cfg.Content.Watch {
		g.Go(func() error {
			err := content.Watch(ctx, dir.Dir(), repo, sc.logger, func(string) {
				registry.ResetAll()
			})
			if err != nil {
				// Content keeps being served from the cache; only reloads stop.
				sc.logger.Error(ctx, "Content watcher stopped", err)
			}
			return nil
		})
	}
}

// GetContent returns the content repository
func (sc *ServiceContainer) GetContent() *content.Repository {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.content
}

// GetPreferenceStore returns the preference store
func (sc *ServiceContainer) GetPreferenceStore() store.Store {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.prefs
}

// GetSynthesizer returns the speech synthesizer
func (sc *ServiceContainer) GetSynthesizer() speech.Synthesizer {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.synth
}

// GetRegistry returns the session registry
func (sc *ServiceContainer) GetRegistry() *shell.Registry {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.registry
}

// GetSchemas returns the request schema loader
func (sc *ServiceContainer) GetSchemas() *middleware.SchemaLoader {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.schemas
}

// GetSpeechLimiter returns the per-client speech rate limiter
func (sc *ServiceContainer) GetSpeechLimiter() *middleware.RateLimiter {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.limiter
}

// GetConfig returns the configuration
func (sc *ServiceContainer) GetConfig() *config.Config {
	return sc.cfg
}

// GetLogger returns the logger
func (sc *ServiceContainer) GetLogger() *observability.Logger {
	return sc.logger
}

// Shutdown stops the background tasks and closes every resource
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var errs []error
	if sc.cancel != nil {
		sc.cancel()
		_ = sc.group.Wait()
		sc.cancel, sc.group = nil, nil
	}
	if err := sc.cleanup(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// cleanup runs the shutdown functions in reverse order of registration
func (sc *ServiceContainer) cleanup(ctx context.Context) error {
	var errs []error
	for i := len(sc.shutdownFuncs) - 1; i >= 0; i-- {
		if err := sc.shutdownFuncs[i](ctx); err != nil {
			sc.logger.Error(ctx, "Shutdown step failed", err)
			errs = append(errs, err)
		}
	}
	sc.shutdownFuncs = nil
	return errors.Join(errs...)
}
