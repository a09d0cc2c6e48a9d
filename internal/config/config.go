// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".myhealthyagent/configs"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.json"
)

// Load reads configuration from ~/.myhealthyagent/configs/config.json
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(configPath)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			return loadFromDefaults(v)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	homeDir, _ := os.UserHomeDir()

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.sqlite_path", filepath.Join(homeDir, ".myhealthyagent/db/journal.db"))

	// Journal defaults mirror the insight engine's documented defaults
	v.SetDefault("journal.lookback_days", 30)
	v.SetDefault("journal.min_occurrences", 3)
	v.SetDefault("journal.tag_lag_low_hour", 12)
	v.SetDefault("journal.tag_lag_high_hour", 24)
	v.SetDefault("journal.max_timing_hints", 2)

	// Scheduler defaults
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval_minutes", 60)
	v.SetDefault("scheduler.missed_grace_minutes", 240)

	// Backup defaults
	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.repo_path", filepath.Join(homeDir, ".myhealthyagent/backup"))
}

// loadFromDefaults creates a config from default values
func loadFromDefaults(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Database.Type != "sqlite" && cfg.Database.Type != "postgres" {
		return fmt.Errorf("database.type must be 'sqlite' or 'postgres', got '%s'", cfg.Database.Type)
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required when type is 'sqlite'")
	}
	if cfg.Database.Type == "postgres" && cfg.Database.PostgresDSN == "" {
		return fmt.Errorf("database.postgres_dsn is required when type is 'postgres'")
	}

	if cfg.Journal.LookbackDays < 1 {
		return fmt.Errorf("journal.lookback_days must be at least 1, got %d", cfg.Journal.LookbackDays)
	}
	if cfg.Journal.MinOccurrences < 1 {
		return fmt.Errorf("journal.min_occurrences must be at least 1, got %d", cfg.Journal.MinOccurrences)
	}
	if cfg.Journal.TagLagLowHour < 0 || cfg.Journal.TagLagHighHour <= cfg.Journal.TagLagLowHour {
		return fmt.Errorf("journal tag lag window [%d, %d] is invalid",
			cfg.Journal.TagLagLowHour, cfg.Journal.TagLagHighHour)
	}
	if cfg.Journal.MaxTimingHints < 1 {
		return fmt.Errorf("journal.max_timing_hints must be at least 1, got %d", cfg.Journal.MaxTimingHints)
	}

	if cfg.Scheduler.IntervalMinutes < 1 {
		return fmt.Errorf("scheduler.interval_minutes must be at least 1, got %d", cfg.Scheduler.IntervalMinutes)
	}
	if cfg.Scheduler.MissedGraceMinutes < 1 {
		return fmt.Errorf("scheduler.missed_grace_minutes must be at least 1, got %d", cfg.Scheduler.MissedGraceMinutes)
	}

	if cfg.Backup.Enabled && cfg.Backup.RepoPath == "" {
		return fmt.Errorf("backup.repo_path is required when backup is enabled")
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Type:       "sqlite",
			SQLitePath: filepath.Join(homeDir, ".myhealthyagent/db/journal.db"),
		},
		Journal: JournalConfig{
			LookbackDays:   30,
			MinOccurrences: 3,
			TagLagLowHour:  12,
			TagLagHighHour: 24,
			MaxTimingHints: 2,
		},
		Scheduler: SchedulerConfig{
			Enabled:            true,
			IntervalMinutes:    60,
			MissedGraceMinutes: 240,
		},
		Backup: BackupConfig{
			Enabled:  false,
			RepoPath: filepath.Join(homeDir, ".myhealthyagent/backup"),
		},
	}
}
