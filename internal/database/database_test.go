package database

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"studyapp/internal/config"
	contextutils "studyapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDatabaseName(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/study?sslmode=disable": "study",
		"postgres://localhost:5432/":                          "study_db",
		"":                                                    "study_db",
	}
	for in, want := range tests {
		assert.Equal(t, want, extractDatabaseName(in), in)
	}
}

func TestDefaultDatabaseConfig(t *testing.T) {
	t.Setenv("TEST_DATABASE_URL", "postgres://localhost/study_test")
	cfg := DefaultDatabaseConfig()
	assert.Equal(t, "postgres://localhost/study_test", cfg.URL)
	assert.Equal(t, config.DatabaseConnMaxLifetime, cfg.ConnMaxLifetime)
	assert.Positive(t, cfg.MaxOpenConns)
}

func TestInitDBWithoutMigrations_MissingURL(t *testing.T) {
	_, err := NewManager(nil).InitDBWithoutMigrations(context.Background(), config.DatabaseConfig{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, contextutils.ErrMissingRequired))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}
