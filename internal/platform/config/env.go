package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env is the process configuration shared by the indices binaries. Flags
// given on the command line take precedence over these values.
type Env struct {
	Addr           string        `env:"INDICES_ADDR" envDefault:":8080"`
	LogLevel       string        `env:"INDICES_LOG_LEVEL" envDefault:"info"`
	DefaultVariant string        `env:"INDICES_DEFAULT_VARIANT" envDefault:"maximus"`
	StrikeDelay    time.Duration `env:"INDICES_STRIKE_DELAY" envDefault:"1s"`
	StageDelay     time.Duration `env:"INDICES_STAGE_DELAY" envDefault:"500ms"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Env.
func Load() (Env, error) {
	var cfg Env
	err := ParseEnv(&cfg)
	return cfg, err
}
