// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SymptomEntry represents a single logged symptom occurrence
type SymptomEntry struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;not null" json:"name"`
	Severity  int       `gorm:"not null" json:"severity"` // 0-10
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	Tags      []string  `gorm:"serializer:json" json:"tags,omitempty"` // free-form context labels ("dairy", "meal", ...)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for SymptomEntry
func (SymptomEntry) TableName() string {
	return "symptom_entries"
}

// BeforeCreate assigns a UUID when the caller did not provide an ID
func (s *SymptomEntry) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// MedicationLog is a fire-and-forget record of "medication X taken at time T",
// distinct from scheduled adherence tracking
type MedicationLog struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;not null" json:"name"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	Dose      string    `json:"dose,omitempty"` // e.g. "50mg", "2 tablets"
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for MedicationLog
func (MedicationLog) TableName() string {
	return "medication_logs"
}

// BeforeCreate assigns a UUID when the caller did not provide an ID
func (m *MedicationLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// MedicationSchedule describes a recurring medication plan
type MedicationSchedule struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	MedicationName string     `gorm:"index;not null" json:"medication_name"`
	Dosage         string     `json:"dosage"`
	Frequency      string     `gorm:"not null" json:"frequency"`
	ScheduleTimes  []string   `gorm:"serializer:json" json:"schedule_times"` // ["08:00", "20:00"] in 24h format
	IsActive       bool       `gorm:"index;default:true" json:"is_active"`
	StartDate      time.Time  `gorm:"not null" json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Notes          string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for MedicationSchedule
func (MedicationSchedule) TableName() string {
	return "medication_schedules"
}

// BeforeCreate assigns a UUID when the caller did not provide an ID
func (m *MedicationSchedule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// MedicationAdherence represents one expected dose occurrence for a schedule
type MedicationAdherence struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	ScheduleID     string     `gorm:"index;not null" json:"schedule_id"`
	MedicationName string     `gorm:"not null" json:"medication_name"`
	ScheduledTime  time.Time  `gorm:"index;not null" json:"scheduled_time"`
	TakenTime      *time.Time `json:"taken_time,omitempty"`
	Status         string     `gorm:"index;not null;default:pending" json:"status"`
	SkipReason     string     `json:"skip_reason,omitempty"`
	Notes          string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Foreign key relationship
	Schedule MedicationSchedule `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for MedicationAdherence
func (MedicationAdherence) TableName() string {
	return "medication_adherences"
}

// BeforeCreate assigns a UUID when the caller did not provide an ID
func (m *MedicationAdherence) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// SymptomTemplate is a quick-log preset: a named group of symptoms
type SymptomTemplate struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;not null" json:"name"`
	Symptoms        []string  `gorm:"serializer:json" json:"symptoms"`
	DefaultSeverity int       `gorm:"default:5" json:"default_severity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for SymptomTemplate
func (SymptomTemplate) TableName() string {
	return "symptom_templates"
}

// BeforeCreate assigns a UUID when the caller did not provide an ID
func (t *SymptomTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// Frequency constants for medication schedules
const (
	FrequencyDaily      = "daily"
	FrequencyTwiceDaily = "twice-daily"
	FrequencyThreeTimes = "three-times"
	FrequencyFourTimes  = "four-times"
	FrequencyAsNeeded   = "as-needed"
)

// ValidFrequencies returns all valid schedule frequencies
func ValidFrequencies() []string {
	return []string{
		FrequencyDaily,
		FrequencyTwiceDaily,
		FrequencyThreeTimes,
		FrequencyFourTimes,
		FrequencyAsNeeded,
	}
}

// IsValidFrequency checks if a frequency value is valid
func IsValidFrequency(freq string) bool {
	for _, valid := range ValidFrequencies() {
		if freq == valid {
			return true
		}
	}
	return false
}

// ExpectedDoseCount returns the number of doses per day implied by a
// frequency, or 0 for as-needed schedules
func ExpectedDoseCount(freq string) int {
	switch freq {
	case FrequencyDaily:
		return 1
	case FrequencyTwiceDaily:
		return 2
	case FrequencyThreeTimes:
		return 3
	case FrequencyFourTimes:
		return 4
	default:
		return 0
	}
}

// IsConsistent reports whether the schedule's dose times match the dose
// count its frequency implies. As-needed schedules must have no times.
// Callers treat a mismatch as a warning, not an error.
func (m *MedicationSchedule) IsConsistent() bool {
	if m.Frequency == FrequencyAsNeeded {
		return len(m.ScheduleTimes) == 0
	}
	return len(m.ScheduleTimes) == ExpectedDoseCount(m.Frequency)
}

// Adherence status constants
const (
	StatusTaken   = "taken"
	StatusSkipped = "skipped"
	StatusMissed  = "missed"
	StatusPending = "pending"
)

// ValidStatuses returns all valid adherence statuses
func ValidStatuses() []string {
	return []string{
		StatusTaken,
		StatusSkipped,
		StatusMissed,
		StatusPending,
	}
}

// IsValidStatus checks if an adherence status is valid
func IsValidStatus(status string) bool {
	for _, valid := range ValidStatuses() {
		if status == valid {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether a status can no longer transition.
// Doses acted on (taken or skipped) stay that way; missed and pending
// records may still be corrected by the user.
func IsTerminalStatus(status string) bool {
	return status == StatusTaken || status == StatusSkipped
}
