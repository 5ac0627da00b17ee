package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg using its `env` tags.
func Load(cfg any) error {
	return LoadWithPrefix(cfg, "")
}

// LoadWithPrefix is Load with every variable name prefixed, e.g. "STOREFRONT_".
// An empty prefix reads the tags as written.
func LoadWithPrefix(cfg any, prefix string) error {
	opts := env.Options{Prefix: prefix}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
