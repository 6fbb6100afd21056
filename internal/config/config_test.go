package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ingenieras", cfg.Name)
	assert.Equal(t, "challenges.json", cfg.Data.ChallengesFile)
	assert.Equal(t, "retos", cfg.Data.ChallengesDir)
	assert.Equal(t, "reportes", cfg.Data.ReportsDir)
	assert.Equal(t, "img", cfg.Data.GalleryPrefix)
	assert.Equal(t, "admin", cfg.Admin.Password)
	assert.True(t, cfg.Admin.GuardPublish)
	assert.Equal(t, 8*time.Hour, cfg.Admin.SessionTTL)
	assert.Equal(t, int64(2<<20), cfg.HTTP.MaxBodyBytes)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Postgres.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "cambio")
	t.Setenv("ADMIN_GUARD_PUBLISH", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_USER", "app")
	t.Setenv("PG_DATABASE", "ingenieras")
	t.Setenv("ARCHIVE_INTERVAL", "30s")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cambio", cfg.Admin.Password)
	assert.False(t, cfg.Admin.GuardPublish)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Postgres.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Archive.Interval)
	assert.Equal(t, "host=db port=5432 user=app password= dbname=ingenieras sslmode=disable", cfg.Postgres.DSN())
}

func TestLoadRejectsIncompleteSettings(t *testing.T) {
	t.Run("no admin secret", func(t *testing.T) {
		cfg := &App{HTTP: HTTP{MaxBodyBytes: 1}}
		assert.Error(t, cfg.validate())
	})

	t.Run("postgres without database", func(t *testing.T) {
		t.Setenv("PG_HOST", "db")
		_, err := Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("ADMIN_SESSION_TTL", "forever")
		_, err := Load(context.Background())
		assert.Error(t, err)
	})
}
