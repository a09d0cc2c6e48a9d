// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate runs auto-migrations for all journal models
func Migrate(db *gorm.DB) error {
	models := []interface{}{
		&SymptomEntry{},
		&MedicationLog{},
		&MedicationSchedule{},
		&MedicationAdherence{},
		&SymptomTemplate{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// CreateIndexes creates composite indexes the auto-migration does not cover
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_symptom_entries_name_time",
			sql:  "CREATE INDEX IF NOT EXISTS idx_symptom_entries_name_time ON symptom_entries(name, timestamp)",
		},
		{
			name: "idx_adherences_schedule_time",
			sql:  "CREATE INDEX IF NOT EXISTS idx_adherences_schedule_time ON medication_adherences(schedule_id, scheduled_time)",
		},
		{
			name: "idx_adherences_status_time",
			sql:  "CREATE INDEX IF NOT EXISTS idx_adherences_status_time ON medication_adherences(status, scheduled_time)",
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
