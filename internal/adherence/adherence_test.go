// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svan-b/myhealthyagent/internal/database"
)

func dailySchedule(start time.Time, times ...string) *database.MedicationSchedule {
	if len(times) == 0 {
		times = []string{"08:00"}
	}
	return &database.MedicationSchedule{
		ID:             "sched-1",
		MedicationName: "levothyroxine",
		Frequency:      database.FrequencyDaily,
		ScheduleTimes:  times,
		IsActive:       true,
		StartDate:      start,
	}
}

func takenDose(scheduled time.Time, offset time.Duration) database.MedicationAdherence {
	taken := scheduled.Add(offset)
	return database.MedicationAdherence{
		ScheduleID:     "sched-1",
		MedicationName: "levothyroxine",
		ScheduledTime:  scheduled,
		TakenTime:      &taken,
		Status:         database.StatusTaken,
	}
}

func TestCalculatePerfectAdherence(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	schedule := dailySchedule(now.AddDate(0, 0, -10))

	var records []database.MedicationAdherence
	for i := 0; i < 10; i++ {
		records = append(records, takenDose(now.Add(-time.Duration(i)*24*time.Hour), 5*time.Minute))
	}

	metrics := Calculate(schedule, records, 10, now)

	assert.Equal(t, 100, metrics.AdherencePercentage)
	assert.Equal(t, 10, metrics.TotalDoses)
	assert.Equal(t, 10, metrics.TakenDoses)
	assert.Zero(t, metrics.MissedDoses)
	assert.Zero(t, metrics.SkippedDoses)

	// Identical offsets have zero spread
	require.NotNil(t, metrics.TimingConsistencyMinutes)
	assert.Equal(t, 0.0, *metrics.TimingConsistencyMinutes)
}

func TestCalculateNoRecords(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	schedule := dailySchedule(now.AddDate(0, 0, -30))

	metrics := Calculate(schedule, nil, 30, now)

	assert.Equal(t, 0, metrics.AdherencePercentage)
	assert.Equal(t, 30, metrics.TotalDoses)
	assert.Nil(t, metrics.TimingConsistencyMinutes)
	assert.Len(t, metrics.MissedByWeekday, 7)
}

func TestCalculateBucketsMissesAndSkips(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local) // a Sunday
	schedule := dailySchedule(now.AddDate(0, 0, -30))
	schedule.Frequency = database.FrequencyAsNeeded

	taken := takenDose(time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local), 20*time.Minute)
	records := []database.MedicationAdherence{
		{ScheduleID: "sched-1", ScheduledTime: time.Date(2026, 3, 9, 8, 0, 0, 0, time.Local), Status: database.StatusMissed},
		{ScheduleID: "sched-1", ScheduledTime: time.Date(2026, 3, 10, 13, 0, 0, 0, time.Local), Status: database.StatusMissed},
		{ScheduleID: "sched-1", ScheduledTime: time.Date(2026, 3, 14, 19, 0, 0, 0, time.Local), Status: database.StatusSkipped, SkipReason: "nausea"},
		{ScheduleID: "sched-1", ScheduledTime: time.Date(2026, 3, 14, 22, 0, 0, 0, time.Local), Status: database.StatusSkipped, SkipReason: "nausea"},
		taken,
	}

	metrics := Calculate(schedule, records, 7, now)

	assert.Equal(t, 1, metrics.TakenDoses)
	assert.Equal(t, 2, metrics.MissedDoses)
	assert.Equal(t, 2, metrics.SkippedDoses)

	assert.Equal(t, 1, metrics.MissedByTimeOfDay.Morning)
	assert.Equal(t, 1, metrics.MissedByTimeOfDay.Afternoon)
	assert.Equal(t, 1, metrics.MissedByTimeOfDay.Evening)
	assert.Equal(t, 1, metrics.MissedByTimeOfDay.Night)

	assert.Equal(t, 1, metrics.MissedByWeekday["Mon"])
	assert.Equal(t, 1, metrics.MissedByWeekday["Tue"])
	assert.Equal(t, 2, metrics.MissedByWeekday["Sat"])
	assert.Equal(t, 0, metrics.MissedByWeekday["Sun"])

	assert.Equal(t, map[string]int{"nausea": 2}, metrics.SkipReasons)

	// Single timed dose is not enough for a spread
	assert.Nil(t, metrics.TimingConsistencyMinutes)
}

func TestCalculateTimingConsistency(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	schedule := dailySchedule(now.AddDate(0, 0, -30))
	schedule.Frequency = database.FrequencyAsNeeded

	records := []database.MedicationAdherence{
		takenDose(now.AddDate(0, 0, -1), 10*time.Minute),
		takenDose(now.AddDate(0, 0, -2), 30*time.Minute),
	}

	metrics := Calculate(schedule, records, 7, now)

	// Deviations of 10 and 30 minutes: population stddev is 10
	require.NotNil(t, metrics.TimingConsistencyMinutes)
	assert.Equal(t, 10.0, *metrics.TimingConsistencyMinutes)
	assert.Equal(t, 100, metrics.AdherencePercentage)
}

func TestCalculateExtraDosesGrowTotal(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	schedule := dailySchedule(now.AddDate(0, 0, -2))

	records := []database.MedicationAdherence{
		takenDose(now.Add(-2*time.Hour), 0),
		takenDose(now.Add(-8*time.Hour), 0),
		takenDose(now.Add(-26*time.Hour), 0),
	}

	metrics := Calculate(schedule, records, 2, now)

	// Two expected doses but three logged; the log wins
	assert.Equal(t, 3, metrics.TotalDoses)
	assert.Equal(t, 100, metrics.AdherencePercentage)
}

func TestCalculateIgnoresRecordsOutsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	schedule := dailySchedule(now.AddDate(0, 0, -60))
	schedule.Frequency = database.FrequencyAsNeeded

	records := []database.MedicationAdherence{
		takenDose(now.AddDate(0, 0, -40), 0), // older than the window
		takenDose(now.AddDate(0, 0, -1), 0),
	}

	metrics := Calculate(schedule, records, 30, now)
	assert.Equal(t, 1, metrics.TakenDoses)
	assert.Equal(t, 1, metrics.TotalDoses)
}

func TestCalculateTwiceDailyExpectation(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	schedule := dailySchedule(now.AddDate(0, 0, -5), "08:00", "20:00")
	schedule.Frequency = database.FrequencyTwiceDaily

	metrics := Calculate(schedule, nil, 5, now)
	assert.Equal(t, 10, metrics.TotalDoses)
}

func TestCalculateRespectsEndDate(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	end := now.AddDate(0, 0, -5)
	schedule := dailySchedule(now.AddDate(0, 0, -30))
	schedule.EndDate = &end

	metrics := Calculate(schedule, nil, 10, now)

	// Window is 10 days but the schedule ended 5 days in
	assert.Equal(t, 5, metrics.TotalDoses)
}

func TestInsightsAdherenceTiers(t *testing.T) {
	tests := []struct {
		name       string
		percentage int
		total      int
		want       string
	}{
		{"excellent", 95, 20, "Excellent adherence! Keep up the great work."},
		{"good", 80, 20, "Good adherence. Consider setting reminders for occasional misses."},
		{"moderate", 60, 20, "Moderate adherence. Discuss barriers with your healthcare provider."},
		{"low", 20, 20, "Low adherence. Consider simplifying your medication schedule."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Insights(Metrics{AdherencePercentage: tt.percentage, TotalDoses: tt.total})
			require.NotEmpty(t, got)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestInsightsNoDataSaysNothing(t *testing.T) {
	got := Insights(Metrics{AdherencePercentage: 0, TotalDoses: 0})
	assert.Empty(t, got)
}

func TestInsightsTimingTiers(t *testing.T) {
	tests := []struct {
		name    string
		minutes float64
		want    string
	}{
		{"very consistent", 25, "Very consistent timing - excellent routine!"},
		{"good", 45, "Good timing consistency."},
		{"variable", 90, "Variable timing - consider setting alarms."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.minutes
			got := Insights(Metrics{AdherencePercentage: 95, TotalDoses: 10, TimingConsistencyMinutes: &m})
			require.Len(t, got, 2)
			assert.Equal(t, tt.want, got[1])
		})
	}
}

func TestInsightsFlagsWorstTimeOfDay(t *testing.T) {
	got := Insights(Metrics{
		AdherencePercentage: 95,
		TotalDoses:          30,
		MissedByTimeOfDay:   MissedByTimeOfDay{Morning: 3},
	})
	assert.Contains(t, got, "Most doses missed in the morning - consider adjusting schedule.")
}

func TestInsightsFlagsWeekendMisses(t *testing.T) {
	got := Insights(Metrics{
		AdherencePercentage: 95,
		TotalDoses:          30,
		MissedByWeekday:     map[string]int{"Sat": 2, "Sun": 1, "Mon": 1},
	})
	assert.Contains(t, got, "More misses on weekends - set weekend reminders.")
}
