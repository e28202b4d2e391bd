package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "ws://127.0.0.1:4000", cfg.Matchmaker.URL)
	assert.Equal(t, "Schnapsen", cfg.Matchmaker.Game)
	assert.Equal(t, "duo", cfg.Matchmaker.Mode)
	assert.Equal(t, 1, cfg.Bot.Count)
	assert.Equal(t, 800*time.Millisecond, cfg.Bot.ThinkTimeDuration())
	assert.Empty(t, cfg.Redis.Addr, "result recording is opt-in")
}

func TestLoad(t *testing.T) {
	content := `
matchmaker:
  url: ws://matchmaker.example:4000
  region: us-east-1
  ai: "Kolfgang Woscher"
redis:
  addr: localhost:6379
  db: 2
bot:
  count: 50
  think_time: 100
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://matchmaker.example:4000", cfg.Matchmaker.URL)
	assert.Equal(t, "us-east-1", cfg.Matchmaker.Region)
	assert.Equal(t, "Kolfgang Woscher", cfg.Matchmaker.AI)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 50, cfg.Bot.Count)
	assert.Equal(t, 100*time.Millisecond, cfg.Bot.ThinkTimeDuration())

	// Unset fields still get defaults.
	assert.Equal(t, "Schnapsen", cfg.Matchmaker.Game)
	assert.Equal(t, "duo", cfg.Matchmaker.Mode)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matchmaker: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
