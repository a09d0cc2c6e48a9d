// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Backup    BackupConfig    `mapstructure:"backup"`
	Templates TemplatesConfig `mapstructure:"templates"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type        string `mapstructure:"type"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// JournalConfig holds the insight engine's default knobs
type JournalConfig struct {
	LookbackDays   int `mapstructure:"lookback_days"`    // detector lookback window
	MinOccurrences int `mapstructure:"min_occurrences"`  // minimum hits before a pattern counts
	TagLagLowHour  int `mapstructure:"tag_lag_low_hour"` // tag-lag window, inclusive
	TagLagHighHour int `mapstructure:"tag_lag_high_hour"`
	MaxTimingHints int `mapstructure:"max_timing_hints"` // hints returned per evaluation
}

// SchedulerConfig holds background job settings
type SchedulerConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	IntervalMinutes    int  `mapstructure:"interval_minutes"`
	MissedGraceMinutes int  `mapstructure:"missed_grace_minutes"` // pending doses older than this become missed
}

// BackupConfig holds git snapshot settings
type BackupConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	RepoPath string `mapstructure:"repo_path"` // local git repository for journal snapshots
}

// TemplatesConfig holds symptom template settings
type TemplatesConfig struct {
	UserFile string `mapstructure:"user_file"` // optional YAML file with extra presets
}
