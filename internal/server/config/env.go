package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays KYNETIX_* variables. Unset variables keep the value
// already in config; a malformed value (e.g. a bad duration) panics.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
