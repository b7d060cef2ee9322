package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable read by the simulation.
const EnvPrefix = "SINGULARITY_"

// ParseEnv loads configuration from SINGULARITY_-prefixed environment variables.
//
// Struct tags name the variable without the prefix, so `env:"GAME_ADDR"` reads
// SINGULARITY_GAME_ADDR.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
