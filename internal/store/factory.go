package store

import (
	"context"

	"studyapp/internal/config"
	"studyapp/internal/database"
	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"
)

// New opens the backend selected by cfg.Backend and wraps it with tracing.
func New(ctx context.Context, cfg config.PreferencesConfig, logger *observability.Logger) (Store, error) {
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", config.PreferencesBackendMemory:
		s = NewMemoryStore()
	case config.PreferencesBackendBolt:
		s, err = openBolt(cfg.BoltPath)
	case config.PreferencesBackendRedis:
		r := NewRedisStore(cfg.Redis)
		if err = r.Ping(ctx); err != nil {
			_ = r.Close()
		} else {
			s = r
		}
	case config.PreferencesBackendPostgres:
		s, err = openPostgres(ctx, cfg.Database, logger)
	default:
		err = contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown preferences backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	backend := cfg.Backend
	if backend == "" {
		backend = config.PreferencesBackendMemory
	}
	logger.Info(ctx, "Preference store ready", map[string]interface{}{"backend": backend})
	return Traced(s, backend), nil
}

func openBolt(path string) (Store, error) {
	if path == "" {
		path = config.DefaultBoltPath
	}
	b, err := OpenBolt(path)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *observability.Logger) (Store, error) {
	db, err := database.NewManager(logger).InitDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPostgresStore(db), nil
}

// tracedStore adds a span per call.
type tracedStore struct {
	inner   Store
	backend string
}

// Traced wraps s so every call is recorded as a store span.
func Traced(s Store, backend string) Store {
	return &tracedStore{inner: s, backend: backend}
}

func (t *tracedStore) Get(ctx context.Context, owner, key string) (value string, ok bool, err error) {
	ctx, span := observability.TraceStoreFunction(ctx, "get",
		observability.AttributeBackend(t.backend),
		observability.AttributeOwnerID(owner),
	)
	defer observability.FinishSpan(span, &err)
	return t.inner.Get(ctx, owner, key)
}

func (t *tracedStore) Set(ctx context.Context, owner, key, value string) (err error) {
	ctx, span := observability.TraceStoreFunction(ctx, "set",
		observability.AttributeBackend(t.backend),
		observability.AttributeOwnerID(owner),
	)
	defer observability.FinishSpan(span, &err)
	return t.inner.Set(ctx, owner, key, value)
}

func (t *tracedStore) SetMany(ctx context.Context, owner string, values map[string]string) (err error) {
	ctx, span := observability.TraceStoreFunction(ctx, "set_many",
		observability.AttributeBackend(t.backend),
		observability.AttributeOwnerID(owner),
	)
	defer observability.FinishSpan(span, &err)
	return setMany(ctx, t.inner, owner, values)
}

func (t *tracedStore) Close() error { return t.inner.Close() }
