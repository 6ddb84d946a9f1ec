package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "dev")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USERNAME", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_DATABASE", "movie")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 10, cfg.Auth.HashRounds)
	assert.Equal(t, 300*time.Second, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, 3*time.Second, cfg.RecentMovieCacheTTL)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("HASH_ROUNDS", "12")
	t.Setenv("ACCESS_TOKEN_TTL", "10m")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Auth.HashRounds)
	assert.Equal(t, 10*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "staging")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV (oneof)")
	assert.Contains(t, err.Error(), "REFRESH_TOKEN_SECRET (required)")
}

func TestLoadSqliteNeedsOnlyDatabase(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USERNAME", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_DATABASE", "movie.db")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "sqlite", cfg.DB.Type)
}
