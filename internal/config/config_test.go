package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "./studyflow.db", cfg.DatabasePath)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.ChatModel)
	assert.Equal(t, 1024, cfg.ChatMaxTokens)
	assert.Equal(t, 30*time.Second, cfg.ChatTimeout)
	assert.Equal(t, "0 18 * * *", cfg.ReminderCron)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CHAT_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example , https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Second, cfg.ChatTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.GetCORSAllowedOrigins())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
