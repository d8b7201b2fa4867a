package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 900*time.Second, cfg.Match.GameTime)
	assert.Equal(t, 3*time.Second, cfg.Match.ChopTime)
	assert.Equal(t, 5*time.Second, cfg.Match.SeatingInterval)
	assert.Equal(t, 45*time.Second, cfg.Match.CustomerWait)
	assert.InDelta(t, 1.25, cfg.Match.AngryMultiplier, 1e-9)
	assert.Equal(t, 500, cfg.Match.ServeReward)
	assert.Equal(t, 250, cfg.Match.ExpiryPenalty)
	assert.Equal(t, 15*time.Second, cfg.Match.PickupTime)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "kitchen.events", cfg.Broker.Subject)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "kitchen.yaml")
	yml := "match:\n  game_time: 120s\n  seats: 2\nserver:\n  addr: \":9000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("KITCHEN_MATCH__SEATS", "3")
	t.Setenv("KITCHEN_LOG__LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120*time.Second, cfg.Match.GameTime)
	assert.Equal(t, 3, cfg.Match.Seats)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestDotEnvIsRead(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("KITCHEN_MATCH__PICKUP_SCORE=75\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("KITCHEN_MATCH__PICKUP_SCORE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.Match.PickupScore)
}

func TestValidateRejectsBrokenTuning(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Match.Seats = 0
	cfg.Match.AngryMultiplier = 0.5
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match.seats")
	assert.Contains(t, err.Error(), "match.angry_multiplier")
}

func TestMissingFileFails(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}
