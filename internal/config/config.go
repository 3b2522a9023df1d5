// Package config loads the runtime configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/plus3/ooftn-logic/module"
)

// Version is the supported configuration file version.
const Version = 1

// Config tunes the logic runtime.
type Config struct {
	Version int `yaml:"version"`

	// GroundTags are the contact tags that make an entity grounded.
	GroundTags []string `yaml:"ground_tags"`

	// MaxModuleSteps bounds the nodes one module invocation visits per frame.
	MaxModuleSteps int `yaml:"max_module_steps"`

	// FixedStep is the frame delta in seconds used by headless runs.
	FixedStep float64 `yaml:"fixed_step"`

	LogLevel string `yaml:"log_level"`

	// ClickRadius is the click hit-test half extent in units of entity scale.
	ClickRadius float64 `yaml:"click_radius"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:        Version,
		GroundTags:     []string{"ground"},
		MaxModuleSteps: module.DefaultStepBudget,
		FixedStep:      1.0 / 60.0,
		LogLevel:       "info",
		ClickRadius:    0.5,
	}
}

// Load reads a configuration file. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes configuration YAML over the defaults.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}

	if cfg.Version != Version {
		return nil, fmt.Errorf("unsupported config version: %d", cfg.Version)
	}
	if cfg.MaxModuleSteps <= 0 {
		return nil, fmt.Errorf("max_module_steps must be positive, got %d", cfg.MaxModuleSteps)
	}
	if cfg.FixedStep <= 0 {
		return nil, fmt.Errorf("fixed_step must be positive, got %g", cfg.FixedStep)
	}
	if cfg.ClickRadius <= 0 {
		cfg.ClickRadius = 0.5
	}

	return cfg, nil
}
