package game

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every configuration variable.
const EnvPrefix = "DECKBAND_"

// Config holds game configuration options.
type Config struct {
	// Seed for the enemy AI and card draws. 0 picks a random seed.
	Seed int64 `env:"SEED"`

	// EntranceTimeout caps how long a spawn waits on the entrance animation.
	EntranceTimeout time.Duration `env:"ENTRANCE_TIMEOUT" envDefault:"2s"`
	// EntranceDuration is how long the entrance fade-in actually runs.
	EntranceDuration time.Duration `env:"ENTRANCE_DURATION" envDefault:"600ms"`

	WaitSlots int `env:"WAIT_SLOTS" envDefault:"3"`

	// StagesFile is an optional JSON or YAML stage pack replacing the
	// embedded stages.
	StagesFile string `env:"STAGES_FILE"`

	StrictInvariants bool `env:"STRICT_INVARIANTS"`
	Debug            bool `env:"DEBUG"`
}

// LoadConfig reads Config from DECKBAND_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the game cannot run with.
func (c Config) Validate() error {
	if c.WaitSlots < 1 {
		return fmt.Errorf("config: wait slots must be at least 1, got %d", c.WaitSlots)
	}
	if c.EntranceTimeout <= 0 {
		return fmt.Errorf("config: entrance timeout must be positive, got %s", c.EntranceTimeout)
	}
	if c.EntranceDuration < 0 {
		return fmt.Errorf("config: entrance duration must not be negative, got %s", c.EntranceDuration)
	}
	return nil
}
