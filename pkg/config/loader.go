// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/validator"
)

// Load fills cfg from environment variables using its `env` and
// `envDefault` tags, then checks any `validate` tags on the result.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
