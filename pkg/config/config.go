// Package config loads blockgrid settings from a TOML file.
//
// All sections and keys are optional; missing values fall back to the
// engine defaults, so an empty file (or no file at all) yields a working
// configuration. A full file looks like:
//
//	[grid]
//	size = 20.0
//	enabled = true
//	show_overlay = false
//	snap_threshold = 10.0
//
//	[groups]
//	padding = 20.0
//	min_width = 100.0
//	min_height = 80.0
//
//	[constraint]
//	padding = 10.0
//	mode = "clamp" # or "expand"
//
//	[server]
//	addr = ":8420"
//
//	[store]
//	backend = "memory" # memory | file | redis | mongo
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blockgrid/pkg/constraint"
	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/group"
	"github.com/matzehuels/blockgrid/pkg/store"
)

// DefaultAddr is the default HTTP listen address.
const DefaultAddr = ":8420"

// ConstraintConfig holds drag-constraint settings.
type ConstraintConfig struct {
	// Padding is the interior margin between a node and its container.
	Padding float64 `toml:"padding"`

	// Mode is "clamp" or "expand".
	Mode string `toml:"mode"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the session store backend.
type StoreConfig struct {
	// Backend is one of "memory", "file", "redis", "mongo".
	Backend string `toml:"backend"`

	// Dir is the session directory for the file backend.
	Dir string `toml:"dir"`

	Redis store.RedisConfig `toml:"redis"`
	Mongo store.MongoConfig `toml:"mongo"`
}

// Config is the root configuration.
type Config struct {
	Grid       grid.Config        `toml:"grid"`
	Groups     group.BoundsConfig `toml:"groups"`
	Constraint ConstraintConfig   `toml:"constraint"`
	Server     ServerConfig       `toml:"server"`
	Store      StoreConfig        `toml:"store"`
}

// Default returns the configuration with every value at its default.
func Default() Config {
	return Config{
		Grid:   grid.DefaultConfig(),
		Groups: group.DefaultBoundsConfig(),
		Constraint: ConstraintConfig{
			Padding: constraint.DefaultPadding,
			Mode:    constraint.ModeClamp.String(),
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Store:  StoreConfig{Backend: "memory"},
	}
}

// Load reads a TOML file over the defaults and validates the result.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field invariants the TOML decoder cannot.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.Groups.Padding <= 0 || c.Groups.MinWidth <= 0 || c.Groups.MinHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"group padding and minimum dimensions must be positive")
	}
	if c.Constraint.Padding <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "constraint padding must be positive")
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	switch c.Store.Backend {
	case "", "memory", "file", "redis", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// Mode parses the constraint mode string.
func (c Config) Mode() (constraint.Mode, error) {
	switch c.Constraint.Mode {
	case "", "clamp":
		return constraint.ModeClamp, nil
	case "expand":
		return constraint.ModeExpand, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidConfig,
			"constraint mode must be \"clamp\" or \"expand\", got %q", c.Constraint.Mode)
	}
}
