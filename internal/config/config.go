// Package config carries runtime configuration for the ulens CLI and
// server: environment variables provide the base values, an optional JSON
// file overrides them.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Addr is the listen address for ulens serve.
	Addr string `env:"ULENS_ADDR" envDefault:":8080"`
	// DBPath locates the event catalog database.
	DBPath string `env:"ULENS_DB" envDefault:"ulens.db"`
	// Ephemeris names the ephemeris source; "meeus" is the built-in
	// analytic solar theory.
	Ephemeris string `env:"ULENS_EPHEMERIS" envDefault:"meeus"`
	// Verbose enables debug logging.
	Verbose bool `env:"ULENS_VERBOSE" envDefault:"false"`
}

// FromEnv parses the configuration from ULENS_* environment variables,
// filling defaults for anything unset.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
