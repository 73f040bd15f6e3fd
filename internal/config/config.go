// Package config loads host runner settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pocketcalc/hal"
)

// Config holds the host runner settings. Command line flags override values
// loaded from a file.
type Config struct {
	Headless bool   `yaml:"headless"`
	Hz       int    `yaml:"hz"`
	Ticks    uint64 `yaml:"ticks"`
	Scale    int    `yaml:"scale"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	LogLevel string `yaml:"log_level"`

	// Feed is a JSON-lines snapshot file; "-" reads the serial line (stdin on host).
	Feed      string        `yaml:"feed"`
	FeedDelay time.Duration `yaml:"feed_delay"`
	FeedRetry int           `yaml:"feed_retry"`

	// Dump writes the last headless frame as PNG.
	Dump string `yaml:"dump"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Hz:        60,
		Scale:     2,
		Width:     320,
		Height:    320,
		LogLevel:  "info",
		FeedRetry: 50,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the runner cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Hz <= 0 {
		errs = append(errs, fmt.Errorf("hz must be positive, got %d", c.Hz))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %d", c.Scale))
	}
	if c.Width < 64 || c.Height < 64 {
		errs = append(errs, fmt.Errorf("display must be at least 64x64, got %dx%d", c.Width, c.Height))
	}
	if c.FeedDelay < 0 {
		errs = append(errs, errors.New("feed_delay must not be negative"))
	}
	if c.FeedRetry < 0 {
		errs = append(errs, errors.New("feed_retry must not be negative"))
	}
	return errors.Join(errs...)
}

// FeedDelayTicks converts FeedDelay to host kernel ticks, rounding up so a
// nonzero delay never becomes zero ticks.
func (c Config) FeedDelayTicks() uint64 {
	if c.FeedDelay <= 0 {
		return 0
	}
	return uint64((c.FeedDelay + hal.TickDuration - 1) / hal.TickDuration)
}
