package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"studyapp/internal/config"
	"studyapp/internal/render"
	"studyapp/internal/shell"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceContainer_InitializeAndShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Preferences.Backend = config.PreferencesBackendBolt
	cfg.Preferences.BoltPath = filepath.Join(t.TempDir(), "prefs.db")
	cfg.Content.Preload = true

	sc := NewServiceContainer(cfg, nil)
	ctx := context.Background()
	require.NoError(t, sc.Initialize(ctx))

	assert.NotNil(t, sc.GetContent())
	assert.NotNil(t, sc.GetPreferenceStore())
	assert.NotNil(t, sc.GetSynthesizer())
	assert.NotNil(t, sc.GetSchemas())
	assert.NotNil(t, sc.GetSpeechLimiter())
	assert.Same(t, cfg, sc.GetConfig())

	sh, err := sc.GetRegistry().Get(ctx, shell.NewOwnerID())
	require.NoError(t, err)
	sec, err := sh.Activate(ctx, render.TabIrregular)
	require.NoError(t, err)
	assert.False(t, sec.Failed)
	assert.Positive(t, sec.ItemCount())

	sc.Start(ctx)
	require.NoError(t, sc.Shutdown(ctx))
	// A second shutdown is a no-op.
	require.NoError(t, sc.Shutdown(ctx))
}

func TestServiceContainer_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Preferences.Backend = "cassandra"

	sc := NewServiceContainer(cfg, nil)
	assert.Error(t, sc.Initialize(context.Background()))
}

func TestServiceContainer_WatchResetsShells(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join("..", "content", "data", "verbos.json"))
	require.NoError(t, err)
	path := filepath.Join(dir, "verbos.json")
	require.NoError(t, os.WriteFile(path, src, 0o600))

	cfg := config.Default()
	cfg.Content.Source = config.ContentSourceDir
	cfg.Content.Dir = dir
	cfg.Content.Watch = true

	sc := NewServiceContainer(cfg, nil)
	ctx := context.Background()
	require.NoError(t, sc.Initialize(ctx))
	t.Cleanup(func() { _ = sc.Shutdown(ctx) })
	sc.Start(ctx)

	sh, err := sc.GetRegistry().Get(ctx, shell.NewOwnerID())
	require.NoError(t, err)
	_, err = sh.Activate(ctx, render.TabRegular)
	require.NoError(t, err)

	// The watcher may not be registered yet; keep touching until it fires.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, src, 0o600)
		state, _ := sh.State(render.TabRegular)
		return state == shell.Unrendered
	}, 5*time.Second, 50*time.Millisecond)
}
