package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name of Config.
const EnvPrefix = "REWIND_"

// Config holds the server tunables. Every field can be set through a
// REWIND_ prefixed environment variable.
type Config struct {
	// DrawCount is the number of cards drawn at the start of every turn
	DrawCount int `env:"DRAW_COUNT" envDefault:"5"`
	// SpawnCeiling is the maximum number of equipment objects on the grid
	SpawnCeiling int `env:"SPAWN_CEILING" envDefault:"3"`
	// GridWidth is the width of the placement grid in cells
	GridWidth int `env:"GRID_WIDTH" envDefault:"8"`
	// GridHeight is the height of the placement grid in cells
	GridHeight int `env:"GRID_HEIGHT" envDefault:"8"`
	// Seed seeds the shared random source. Zero picks a random seed.
	Seed uint64 `env:"SEED" envDefault:"0"`
	// CatalogPath is the YAML file with card and equipment definitions
	CatalogPath string `env:"CATALOG_PATH" envDefault:"./catalog.yaml"`
	// APIPort is the port for the HTTP API and event feed
	APIPort int `env:"API_PORT" envDefault:"8080"`
	// DatabaseURL selects the checkpoint archive. Empty disables archiving.
	DatabaseURL string `env:"DATABASE_URL"`
	// MigrationsPath is the directory with SQL migrations for the archive
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"./migrations"`
	// GameLoopInterval is how often queued commands are applied
	GameLoopInterval time.Duration `env:"GAME_LOOP_INTERVAL" envDefault:"50ms"`
	// LogLevel is the default log level, overridden by the -log-level flag
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the tunables describe a usable game.
func (c *Config) Validate() error {
	if c.DrawCount <= 0 {
		return fmt.Errorf("draw count must be positive, got %d", c.DrawCount)
	}
	if c.SpawnCeiling <= 0 {
		return fmt.Errorf("spawn ceiling must be positive, got %d", c.SpawnCeiling)
	}
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("grid must have positive dimensions, got %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.GameLoopInterval <= 0 {
		return fmt.Errorf("game loop interval must be positive, got %s", c.GameLoopInterval)
	}
	return nil
}
