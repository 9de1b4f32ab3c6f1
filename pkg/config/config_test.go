package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.DrawCount)
	assert.Equal(t, 3, cfg.SpawnCeiling)
	assert.Equal(t, 8, cfg.GridWidth)
	assert.Equal(t, 8, cfg.GridHeight)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, 50*time.Millisecond, cfg.GameLoopInterval)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_overrides(t *testing.T) {
	t.Setenv("REWIND_DRAW_COUNT", "3")
	t.Setenv("REWIND_SEED", "42")
	t.Setenv("REWIND_DATABASE_URL", "sqlite://rewind.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.DrawCount)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "sqlite://rewind.db", cfg.DatabaseURL)
}

func TestLoad_errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "not a number", key: "REWIND_DRAW_COUNT", value: "many"},
		{name: "negative draw count", key: "REWIND_DRAW_COUNT", value: "-1"},
		{name: "zero draw count", key: "REWIND_DRAW_COUNT", value: "0"},
		{name: "negative ceiling", key: "REWIND_SPAWN_CEILING", value: "-2"},
		{name: "zero ceiling", key: "REWIND_SPAWN_CEILING", value: "0"},
		{name: "empty grid", key: "REWIND_GRID_WIDTH", value: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
