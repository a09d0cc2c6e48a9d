// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package adherence derives dose-level statistics for a scheduled
// medication from its adherence log: how much was taken, how consistently,
// and where the misses pile up.
package adherence

import (
	"math"
	"time"

	"github.com/svan-b/myhealthyagent/internal/database"
)

// MissedByTimeOfDay buckets missed and skipped doses by scheduled hour
type MissedByTimeOfDay struct {
	Morning   int `json:"morning"`   // [5, 11)
	Afternoon int `json:"afternoon"` // [11, 17)
	Evening   int `json:"evening"`   // [17, 21)
	Night     int `json:"night"`     // everything else
}

// Metrics is the derived adherence summary for one schedule
type Metrics struct {
	AdherencePercentage      int               `json:"adherence_percentage"`
	TotalDoses               int               `json:"total_doses"`
	TakenDoses               int               `json:"taken_doses"`
	MissedDoses              int               `json:"missed_doses"`
	SkippedDoses             int               `json:"skipped_doses"`
	TimingConsistencyMinutes *float64          `json:"timing_consistency_minutes"` // nil with fewer than 2 timed doses
	MissedByTimeOfDay        MissedByTimeOfDay `json:"missed_by_time_of_day"`
	MissedByWeekday          map[string]int    `json:"missed_by_weekday"` // Sun..Sat, always all seven keys
	SkipReasons              map[string]int    `json:"skip_reasons"`
}

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Calculate computes adherence metrics for a schedule over the trailing
// window. days below 1 defaults to 30; a zero now defaults to the current
// time. Records with malformed optional fields degrade gracefully: a taken
// record without a taken time is simply excluded from the timing sample.
func Calculate(schedule *database.MedicationSchedule, records []database.MedicationAdherence, days int, now time.Time) Metrics {
	if days < 1 {
		days = 30
	}
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.AddDate(0, 0, -days)

	var relevant []database.MedicationAdherence
	for _, r := range records {
		if !r.ScheduledTime.Before(cutoff) && !r.ScheduledTime.After(now) {
			relevant = append(relevant, r)
		}
	}

	// Expected doses from the schedule definition. As-needed schedules
	// have no expectation; otherwise count whole days in the overlap of
	// the window and the schedule's lifetime.
	expectedDoses := 0
	if schedule.Frequency != database.FrequencyAsNeeded {
		start := cutoff
		if schedule.StartDate.After(start) {
			start = schedule.StartDate
		}
		end := now
		if schedule.EndDate != nil && schedule.EndDate.Before(end) {
			end = *schedule.EndDate
		}
		daysDiff := int(math.Ceil(end.Sub(start).Hours() / 24))
		expectedDoses = daysDiff * len(schedule.ScheduleTimes)
	}

	var taken, missed, skipped int
	for _, r := range relevant {
		switch r.Status {
		case database.StatusTaken:
			taken++
		case database.StatusMissed:
			missed++
		case database.StatusSkipped:
			skipped++
		}
	}

	// Logs can exceed the naive schedule estimate (extra doses, edited
	// schedules); the larger of the two keeps the percentage honest.
	totalDoses := expectedDoses
	if len(relevant) > totalDoses {
		totalDoses = len(relevant)
	}
	percentage := 0.0
	if totalDoses > 0 {
		percentage = float64(taken) / float64(totalDoses) * 100
	}

	// Timing consistency: population stddev of |taken - scheduled| minutes
	var diffs []float64
	for _, r := range relevant {
		if r.Status == database.StatusTaken && r.TakenTime != nil {
			diffs = append(diffs, math.Abs(r.TakenTime.Sub(r.ScheduledTime).Minutes()))
		}
	}
	var consistency *float64
	if len(diffs) > 1 {
		m := meanOf(diffs)
		var variance float64
		for _, d := range diffs {
			variance += (d - m) * (d - m)
		}
		variance /= float64(len(diffs))
		sd := math.Round(math.Sqrt(variance))
		consistency = &sd
	}

	byTime := MissedByTimeOfDay{}
	byWeekday := make(map[string]int, len(weekdayNames))
	for _, name := range weekdayNames {
		byWeekday[name] = 0
	}
	skipReasons := make(map[string]int)

	for _, r := range relevant {
		if r.Status != database.StatusMissed && r.Status != database.StatusSkipped {
			continue
		}
		switch hour := r.ScheduledTime.Hour(); {
		case hour >= 5 && hour < 11:
			byTime.Morning++
		case hour >= 11 && hour < 17:
			byTime.Afternoon++
		case hour >= 17 && hour < 21:
			byTime.Evening++
		default:
			byTime.Night++
		}
		byWeekday[weekdayNames[int(r.ScheduledTime.Weekday())]]++
	}

	for _, r := range relevant {
		if r.Status == database.StatusSkipped && r.SkipReason != "" {
			skipReasons[r.SkipReason]++
		}
	}

	return Metrics{
		AdherencePercentage:      int(math.Round(percentage)),
		TotalDoses:               totalDoses,
		TakenDoses:               taken,
		MissedDoses:              missed,
		SkippedDoses:             skipped,
		TimingConsistencyMinutes: consistency,
		MissedByTimeOfDay:        byTime,
		MissedByWeekday:          byWeekday,
		SkipReasons:              skipReasons,
	}
}

func meanOf(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
