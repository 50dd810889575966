package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fantamatto_bot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
logLevel: debug
database:
  driver: sqlite3
  path: /tmp/matti.db
telegram:
  botToken: abc
  adminChatID: 42
  registrationPassword: segreta
session:
  ttl: 10m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_File(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, repository.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/matti.db", cfg.Database.Path)
	assert.Equal(t, "abc", cfg.Telegram.BotToken)
	assert.Equal(t, int64(42), cfg.Telegram.AdminChatID)
	assert.Equal(t, "segreta", cfg.Telegram.RegistrationPassword)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "@every 1m", cfg.Session.SweepSchedule)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, ":8888", cfg.Server.Addr())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_TELEGRAM_REGISTRATIONPASSWORD", "da-env")
	t.Setenv("APP_SERVER_PORT", "9000")

	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "da-env", cfg.Telegram.RegistrationPassword)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	t.Setenv("APP_TELEGRAM_BOTTOKEN", "tok")
	t.Setenv("APP_TELEGRAM_REGISTRATIONPASSWORD", "pwd")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "bot_matti.db", cfg.Database.Path)
	assert.Equal(t, time.Duration(0), cfg.Session.TTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing token", "telegram:\n  registrationPassword: x\n"},
		{"missing password", "telegram:\n  botToken: x\n"},
		{"bad driver", "telegram:\n  botToken: x\n  registrationPassword: y\ndatabase:\n  driver: mysql\n"},
		{"bad level", "logLevel: loud\ntelegram:\n  botToken: x\n  registrationPassword: y\n"},
		{"malformed yaml", "telegram: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
