// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Store is the entry store: typed CRUD plus full and time-bounded scans
// over the journal models. The insight engine only ever reads through it.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on top of an open database connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying gorm handle for callers that need raw queries
func (s *Store) DB() *gorm.DB {
	return s.db
}

/* Symptoms */

// CreateSymptom inserts a symptom entry
func (s *Store) CreateSymptom(ctx context.Context, entry *SymptomEntry) error {
	if entry.Severity < 0 || entry.Severity > 10 {
		return fmt.Errorf("severity must be between 0 and 10, got %d", entry.Severity)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

// GetSymptom fetches a symptom entry by ID
func (s *Store) GetSymptom(ctx context.Context, id string) (*SymptomEntry, error) {
	var entry SymptomEntry
	if err := s.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateSymptom saves mutable fields of an existing symptom entry
func (s *Store) UpdateSymptom(ctx context.Context, entry *SymptomEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("symptom entry ID is required for update")
	}
	if entry.Severity < 0 || entry.Severity > 10 {
		return fmt.Errorf("severity must be between 0 and 10, got %d", entry.Severity)
	}
	return s.db.WithContext(ctx).Save(entry).Error
}

// DeleteSymptom removes a symptom entry by ID
func (s *Store) DeleteSymptom(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&SymptomEntry{}, "id = ?", id).Error
}

// ListSymptoms returns all symptom entries in chronological order
func (s *Store) ListSymptoms(ctx context.Context) ([]SymptomEntry, error) {
	var entries []SymptomEntry
	err := s.db.WithContext(ctx).Order("timestamp ASC").Find(&entries).Error
	return entries, err
}

// SymptomsBetween returns symptom entries with timestamp in [start, end],
// in chronological order
func (s *Store) SymptomsBetween(ctx context.Context, start, end time.Time) ([]SymptomEntry, error) {
	var entries []SymptomEntry
	err := s.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", start, end).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

/* Medication logs */

// CreateMedicationLog inserts a medication log record
func (s *Store) CreateMedicationLog(ctx context.Context, entry *MedicationLog) error {
	if entry.Name == "" {
		return fmt.Errorf("medication name is required")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

// DeleteMedicationLog removes a medication log record by ID
func (s *Store) DeleteMedicationLog(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&MedicationLog{}, "id = ?", id).Error
}

// ListMedicationLogs returns all medication log records in chronological order
func (s *Store) ListMedicationLogs(ctx context.Context) ([]MedicationLog, error) {
	var logs []MedicationLog
	err := s.db.WithContext(ctx).Order("timestamp ASC").Find(&logs).Error
	return logs, err
}

// MedicationLogsBetween returns medication logs with timestamp in [start, end]
func (s *Store) MedicationLogsBetween(ctx context.Context, start, end time.Time) ([]MedicationLog, error) {
	var logs []MedicationLog
	err := s.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", start, end).
		Order("timestamp ASC").
		Find(&logs).Error
	return logs, err
}

/* Schedules */

// CreateSchedule inserts a medication schedule
func (s *Store) CreateSchedule(ctx context.Context, schedule *MedicationSchedule) error {
	if schedule.MedicationName == "" {
		return fmt.Errorf("medication name is required")
	}
	if !IsValidFrequency(schedule.Frequency) {
		return fmt.Errorf("invalid frequency: %s", schedule.Frequency)
	}
	if schedule.StartDate.IsZero() {
		schedule.StartDate = time.Now()
	}
	return s.db.WithContext(ctx).Create(schedule).Error
}

// GetSchedule fetches a medication schedule by ID
func (s *Store) GetSchedule(ctx context.Context, id string) (*MedicationSchedule, error) {
	var schedule MedicationSchedule
	if err := s.db.WithContext(ctx).First(&schedule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

// UpdateSchedule saves changes to an existing schedule
func (s *Store) UpdateSchedule(ctx context.Context, schedule *MedicationSchedule) error {
	if schedule.ID == "" {
		return fmt.Errorf("schedule ID is required for update")
	}
	if !IsValidFrequency(schedule.Frequency) {
		return fmt.Errorf("invalid frequency: %s", schedule.Frequency)
	}
	return s.db.WithContext(ctx).Save(schedule).Error
}

// DeleteSchedule removes a schedule and, via cascade, its adherence records
func (s *Store) DeleteSchedule(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&MedicationSchedule{}, "id = ?", id).Error
}

// ListSchedules returns schedules, optionally restricted to active ones
func (s *Store) ListSchedules(ctx context.Context, activeOnly bool) ([]MedicationSchedule, error) {
	var schedules []MedicationSchedule
	q := s.db.WithContext(ctx).Order("created_at ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&schedules).Error
	return schedules, err
}

/* Adherence records */

// CreateAdherence inserts an adherence record for an expected dose
func (s *Store) CreateAdherence(ctx context.Context, record *MedicationAdherence) error {
	if record.ScheduleID == "" {
		return fmt.Errorf("schedule ID is required")
	}
	if record.Status == "" {
		record.Status = StatusPending
	}
	if !IsValidStatus(record.Status) {
		return fmt.Errorf("invalid adherence status: %s", record.Status)
	}
	return s.db.WithContext(ctx).Create(record).Error
}

// GetAdherence fetches an adherence record by ID
func (s *Store) GetAdherence(ctx context.Context, id string) (*MedicationAdherence, error) {
	var record MedicationAdherence
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateAdherence transitions an adherence record. Records already taken
// or skipped are terminal and reject further transitions.
func (s *Store) UpdateAdherence(ctx context.Context, record *MedicationAdherence) error {
	if record.ID == "" {
		return fmt.Errorf("adherence record ID is required for update")
	}
	if !IsValidStatus(record.Status) {
		return fmt.Errorf("invalid adherence status: %s", record.Status)
	}

	var current MedicationAdherence
	if err := s.db.WithContext(ctx).First(&current, "id = ?", record.ID).Error; err != nil {
		return fmt.Errorf("failed to load adherence record: %w", err)
	}
	if IsTerminalStatus(current.Status) && current.Status != record.Status {
		return fmt.Errorf("adherence record %s is already %s", record.ID, current.Status)
	}

	return s.db.WithContext(ctx).Save(record).Error
}

// AdherenceForSchedule returns all adherence records for a schedule,
// oldest scheduled time first
func (s *Store) AdherenceForSchedule(ctx context.Context, scheduleID string) ([]MedicationAdherence, error) {
	var records []MedicationAdherence
	err := s.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("scheduled_time ASC").
		Find(&records).Error
	return records, err
}

// PendingDosesBefore returns pending adherence records whose scheduled time
// is older than the cutoff
func (s *Store) PendingDosesBefore(ctx context.Context, cutoff time.Time) ([]MedicationAdherence, error) {
	var records []MedicationAdherence
	err := s.db.WithContext(ctx).
		Where("status = ? AND scheduled_time < ?", StatusPending, cutoff).
		Order("scheduled_time ASC").
		Find(&records).Error
	return records, err
}

// MarkMissedBefore flips pending doses older than the cutoff to missed and
// returns how many records changed. The grace policy lives with the caller;
// the adherence calculator itself never infers missed doses.
func (s *Store) MarkMissedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&MedicationAdherence{}).
		Where("status = ? AND scheduled_time < ?", StatusPending, cutoff).
		Update("status", StatusMissed)
	return result.RowsAffected, result.Error
}

/* Templates */

// UpsertTemplate creates or replaces a symptom template by name
func (s *Store) UpsertTemplate(ctx context.Context, tmpl *SymptomTemplate) error {
	if tmpl.Name == "" {
		return fmt.Errorf("template name is required")
	}
	var existing SymptomTemplate
	err := s.db.WithContext(ctx).First(&existing, "name = ?", tmpl.Name).Error
	if err == nil {
		tmpl.ID = existing.ID
		tmpl.CreatedAt = existing.CreatedAt
		return s.db.WithContext(ctx).Save(tmpl).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return s.db.WithContext(ctx).Create(tmpl).Error
}

// ListTemplates returns all symptom templates ordered by name
func (s *Store) ListTemplates(ctx context.Context) ([]SymptomTemplate, error) {
	var templates []SymptomTemplate
	err := s.db.WithContext(ctx).Order("name ASC").Find(&templates).Error
	return templates, err
}

// DeleteTemplate removes a symptom template by name
func (s *Store) DeleteTemplate(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).Delete(&SymptomTemplate{}, "name = ?", name).Error
}

/* Purge */

// PurgeAll deletes every journal record. Used by the explicit
// delete-my-data operation; there is no undo.
func (s *Store) PurgeAll(ctx context.Context) error {
	tables := []interface{}{
		&MedicationAdherence{},
		&MedicationSchedule{},
		&MedicationLog{},
		&SymptomEntry{},
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return fmt.Errorf("failed to purge %T: %w", table, err)
			}
		}
		return nil
	})
}
