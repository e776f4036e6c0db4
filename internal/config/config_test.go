package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{"database": {"dsn": "postgres://localhost/academy"}}`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
	assert.True(t, cfg.Quota.FailOpen)
	assert.Equal(t, 90, cfg.UsageLogs.RetentionDays)
	assert.Equal(t, "localhost:6379", cfg.Redis.GetRedisAddr())
}

func TestLoadFailOpenCanBeDisabled(t *testing.T) {
	path := writeConfig(t, `{"quota": {"fail_open": false}}`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.False(t, cfg.Quota.FailOpen)
}

func TestEnvOverridesSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/academy")
	t.Setenv("JWT_SECRET", "env-secret")

	path := writeConfig(t, `{"database": {"dsn": "postgres://file-host/academy"}}`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "postgres://env-host/academy", cfg.Database.DSN)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	require.NoError(t, cfg.Validate())
}

func TestValidateRequiresSecrets(t *testing.T) {
	path := writeConfig(t, `{}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())
}
