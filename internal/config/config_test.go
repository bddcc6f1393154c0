package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "legacy-key")
	t.Setenv("MAX_FILE_SIZE", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "legacy-key", cfg.AI.APIKey)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxFileSize)
	assert.Equal(t, 15000, cfg.Storage.ResumeTextLimit)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Empty(t, cfg.Qdrant.URL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AI_API_KEY", "primary")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("CHAT_HISTORY_WINDOW", "0")
	t.Setenv("AI_RATE_PER_SECOND", "0.5")
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")

	cfg := Load()

	assert.Equal(t, "primary", cfg.AI.APIKey)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 0, cfg.Chat.HistoryWindow)
	assert.Equal(t, 0.5, cfg.AI.RatePerSecond)
	assert.Equal(t, 2, cfg.Worker.Concurrency)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{MaxFileSize: 1}}
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}
