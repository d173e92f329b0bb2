package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Environment mutation via t.Setenv rules out t.Parallel in these tests.

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DECKARD_DATABASE_URL", "postgres://localhost:5432/deckard_test")
	t.Setenv("DECKARD_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DECKARD_SERVER_PORT", "9090")
	t.Setenv("DECKARD_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/deckard_test", cfg.Database.URL)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Auth.JWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DECKARD_DATABASE_URL", "postgres://localhost:5432/deckard_test")
	t.Setenv("DECKARD_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, "repos", cfg.Import.CacheDir)
}

func TestLoadEnvironmentOverridesCacheDir(t *testing.T) {
	t.Setenv("DECKARD_DATABASE_URL", "postgres://localhost:5432/deckard_test")
	t.Setenv("DECKARD_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DECKARD_IMPORT_CACHE_DIR", "/var/cache/deckard")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/cache/deckard", cfg.Import.CacheDir)
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("DECKARD_DATABASE_URL", "postgres://localhost:5432/deckard_test")
	// No JWT secret configured.

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("DECKARD_DATABASE_URL", "postgres://localhost:5432/deckard_test")
	t.Setenv("DECKARD_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Setenv("DECKARD_DATABASE_URL", "postgres://localhost:5432/deckard_test")
	t.Setenv("DECKARD_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DECKARD_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}
