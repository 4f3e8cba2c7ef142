// Package config provides environment-driven configuration helpers for the
// service binaries. Settings are declared as struct fields with `env` tags
// using the FABLEROOM_ prefix; flags layered on top override them.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables into the tagged
// struct target points at.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
