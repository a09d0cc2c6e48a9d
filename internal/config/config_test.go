// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.NotEmpty(t, cfg.Database.SQLitePath)

	assert.Equal(t, 30, cfg.Journal.LookbackDays)
	assert.Equal(t, 3, cfg.Journal.MinOccurrences)
	assert.Equal(t, 12, cfg.Journal.TagLagLowHour)
	assert.Equal(t, 24, cfg.Journal.TagLagHighHour)
	assert.Equal(t, 2, cfg.Journal.MaxTimingHints)

	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 60, cfg.Scheduler.IntervalMinutes)
	assert.Equal(t, 240, cfg.Scheduler.MissedGraceMinutes)

	assert.False(t, cfg.Backup.Enabled)
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfigFile(t, `{
		"database": {"type": "sqlite", "sqlite_path": "/tmp/test.db"},
		"journal": {"lookback_days": 14}
	}`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
	assert.Equal(t, 14, cfg.Journal.LookbackDays)

	// Unset knobs keep their defaults
	assert.Equal(t, 3, cfg.Journal.MinOccurrences)
	assert.Equal(t, 2, cfg.Journal.MaxTimingHints)
}

func TestLoadFromPathRejectsBadDatabaseType(t *testing.T) {
	path := writeConfigFile(t, `{"database": {"type": "mysql"}}`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.type")
}

func TestLoadFromPathRejectsPostgresWithoutDSN(t *testing.T) {
	path := writeConfigFile(t, `{"database": {"type": "postgres"}}`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres_dsn")
}

func TestLoadFromPathRejectsInvalidLagWindow(t *testing.T) {
	path := writeConfigFile(t, `{
		"journal": {"tag_lag_low_hour": 24, "tag_lag_high_hour": 12}
	}`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tag lag window")
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
