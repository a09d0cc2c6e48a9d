// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/svan-b/myhealthyagent/internal/database"
)

func setupStore(t *testing.T) *database.Store {
	t.Helper()

	db, err := database.Connect(&database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "journal.db"),
		LogLevel:   logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	return database.NewStore(db)
}

func TestOpenOrInitCreatesRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup")

	repo, err := OpenOrInit(path)
	require.NoError(t, err)
	assert.Equal(t, path, repo.Path)

	// Opening again reuses the existing repository
	again, err := OpenOrInit(path)
	require.NoError(t, err)
	assert.Equal(t, path, again.Path)
}

func TestSnapshotCommitsJournal(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	require.NoError(t, store.CreateSymptom(ctx, &database.SymptomEntry{
		Name:      "headache",
		Severity:  6,
		Timestamp: now.AddDate(0, 0, -1),
		Tags:      []string{"stress"},
	}))
	require.NoError(t, store.CreateMedicationLog(ctx, &database.MedicationLog{
		Name:      "ibuprofen",
		Dose:      "400mg",
		Timestamp: now.AddDate(0, 0, -1),
	}))

	repo, err := OpenOrInit(filepath.Join(t.TempDir(), "backup"))
	require.NoError(t, err)

	result, err := repo.Snapshot(ctx, store, now)
	require.NoError(t, err)

	assert.True(t, result.Committed)
	assert.NotEmpty(t, result.Commit)
	assert.Contains(t, result.Files, filepath.Join("entries", "2026-03.md"))
	assert.Contains(t, result.Files, "medications.yaml")

	data, err := os.ReadFile(filepath.Join(repo.Path, "entries", "2026-03.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "headache")
	assert.Contains(t, string(data), "ibuprofen")
}

func TestSnapshotSkipsCommitWhenClean(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	require.NoError(t, store.CreateSymptom(ctx, &database.SymptomEntry{
		Name:      "headache",
		Severity:  6,
		Timestamp: now.AddDate(0, 0, -1),
	}))

	repo, err := OpenOrInit(filepath.Join(t.TempDir(), "backup"))
	require.NoError(t, err)

	first, err := repo.Snapshot(ctx, store, now)
	require.NoError(t, err)
	require.True(t, first.Committed)

	second, err := repo.Snapshot(ctx, store, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, second.Committed)
	assert.Empty(t, second.Commit)
}
