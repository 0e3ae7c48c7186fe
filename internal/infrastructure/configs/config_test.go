package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, 60*time.Second, cfg.Game.RoundTime)
	assert.Equal(t, 8, cfg.Game.MaxRounds)
	assert.Equal(t, 30*time.Second, cfg.Game.WordChoiceTimeout)
	assert.Equal(t, 3500*time.Millisecond, cfg.Game.InterRoundDelay)
	assert.Equal(t, 12, cfg.Game.MaxPlayers)
	assert.Equal(t, 3, cfg.Game.WordChoices)
	assert.Equal(t, uint(500), cfg.RoomStore.Capacity)
	assert.Equal(t, "zap", cfg.Logger.Backend)
	assert.Equal(t, "scrawl", cfg.Mongo.Database)
	assert.Equal(t, int64(1000), cfg.Mongo.RoundsCap)
	assert.Equal(t, int64(100), cfg.Mongo.LeaderboardsLimit)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("GAME_MAX_ROUNDS", "4")
	t.Setenv("GAME_ROUND_TIME_SECONDS", "45")
	t.Setenv("LOGGER_BACKEND", "zerolog")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, uint16(9999), cfg.HTTP.Port)
	assert.Equal(t, 4, cfg.Game.MaxRounds)
	assert.Equal(t, 45*time.Second, cfg.Game.RoundTime)
	assert.Equal(t, "zerolog", cfg.Logger.Backend)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	yml := []byte("http:\n  port: 7070\ngame:\n  max_rounds: 6\n")
	require.NoError(t, os.WriteFile(path, yml, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint16(7070), cfg.HTTP.Port)
	assert.Equal(t, 6, cfg.Game.MaxRounds)
	// Untouched keys still get defaults.
	assert.Equal(t, 60*time.Second, cfg.Game.RoundTime)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
