// Package config provides YAML-based configuration loading for Wardroom.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/zulandar/wardroom/internal/schedule"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Wardroom configuration, loaded from wardroom.yaml.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Simulation SimulationConfig `yaml:"simulation"`
	Persist    PersistConfig    `yaml:"persist"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
}

// StorageConfig selects where engine snapshots are kept.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"WARDROOM_STORAGE_DRIVER"` // sqlite, mysql, file, memory
	Path   string `yaml:"path" env:"WARDROOM_STORAGE_PATH"`     // sqlite database file or snapshot directory
	DSN    string `yaml:"dsn" env:"WARDROOM_STORAGE_DSN"`       // mysql only
}

// SimulationConfig tunes the stand-in counterpart behavior.
type SimulationConfig struct {
	ReplyMin         time.Duration `yaml:"reply_min"`
	ReplyMax         time.Duration `yaml:"reply_max"`
	ApproveAfter     time.Duration `yaml:"approve_after"`
	ProgressAfter    time.Duration `yaml:"progress_after"`
	CompletionWindow time.Duration `yaml:"completion_window"`
	Seed             uint64        `yaml:"seed" env:"WARDROOM_SEED"` // 0 = seed from the clock
}

// PersistConfig controls periodic snapshot checkpoints.
type PersistConfig struct {
	Checkpoint string `yaml:"checkpoint" env:"WARDROOM_CHECKPOINT"` // 5-field cron or "off"
}

// CheckpointOff disables the periodic checkpoint job.
const CheckpointOff = "off"

// DashboardConfig holds settings for the JSON dashboard.
type DashboardConfig struct {
	Port int `yaml:"port" env:"WARDROOM_DASHBOARD_PORT"`
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes, overlays WARDROOM_* environment variables
// and returns a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case "sqlite":
			c.Storage.Path = "wardroom.db"
		case "file":
			c.Storage.Path = "wardroom-data"
		}
	}
	s := &c.Simulation
	if s.ReplyMin == 0 {
		s.ReplyMin = time.Second
	}
	if s.ReplyMax == 0 {
		s.ReplyMax = max(s.ReplyMin, 3*time.Second)
	}
	if s.ApproveAfter == 0 {
		s.ApproveAfter = 10 * time.Second
	}
	if s.ProgressAfter == 0 {
		s.ProgressAfter = 30 * time.Second
	}
	if s.CompletionWindow == 0 {
		s.CompletionWindow = time.Hour
	}
	if c.Persist.Checkpoint == "" {
		c.Persist.Checkpoint = "*/5 * * * *"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Storage.Driver {
	case "sqlite", "file":
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Sprintf("storage.path is required for driver %q", c.Storage.Driver))
		}
	case "mysql":
		if c.Storage.DSN == "" {
			errs = append(errs, "storage.dsn is required for driver \"mysql\"")
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("storage.driver %q is not one of sqlite, mysql, file, memory", c.Storage.Driver))
	}

	s := c.Simulation
	if s.ReplyMin < 0 || s.ReplyMax < 0 || s.ApproveAfter < 0 || s.ProgressAfter < 0 || s.CompletionWindow < 0 {
		errs = append(errs, "simulation durations must not be negative")
	}
	if s.ReplyMin > s.ReplyMax {
		errs = append(errs, "simulation.reply_min must not exceed simulation.reply_max")
	}
	if c.Persist.Checkpoint != CheckpointOff {
		if _, err := schedule.NextDelay(c.Persist.Checkpoint, time.Now()); err != nil {
			errs = append(errs, fmt.Sprintf("persist.checkpoint: %v", err))
		}
	}
	if c.Dashboard.Port < 1 || c.Dashboard.Port > 65535 {
		errs = append(errs, fmt.Sprintf("dashboard.port %d is out of range", c.Dashboard.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
