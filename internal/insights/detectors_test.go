// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svan-b/myhealthyagent/internal/database"
)

func testOptions(now time.Time) Options {
	return Options{
		Now:            now,
		MinOccurrences: 3,
		TagLagWindow:   [2]int{12, 24},
		LookbackDays:   30,
	}
}

func TestSeverityTrendDetectsWorsening(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	// One entry per day over two weeks, severity climbing from 1 to 7
	severities := []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7}
	var symptoms []database.SymptomEntry
	for i, sev := range severities {
		ts := now.AddDate(0, 0, -(len(severities) - 1 - i))
		symptoms = append(symptoms, symptomAt("headache", sev, ts))
	}

	patterns := severityTrendDetector{}.Detect(symptoms, testOptions(now))
	require.Len(t, patterns, 1)

	assert.Equal(t, "Severity trending up (~6.0 points over 2 weeks)", patterns[0].Text)
	assert.Equal(t, ConfidenceHigh, patterns[0].Confidence)
	assert.Equal(t, PatternStatistical, patterns[0].Type)
	assert.Equal(t, 6.0, patterns[0].Metadata["delta"])
}

func TestSeverityTrendDetectsImprovement(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	severities := []int{7, 7, 6, 6, 5, 5, 4, 4, 3, 3, 2, 2, 1, 1}
	var symptoms []database.SymptomEntry
	for i, sev := range severities {
		ts := now.AddDate(0, 0, -(len(severities) - 1 - i))
		symptoms = append(symptoms, symptomAt("headache", sev, ts))
	}

	patterns := severityTrendDetector{}.Detect(symptoms, testOptions(now))
	require.Len(t, patterns, 1)

	assert.Equal(t, "Severity trending down (~6.0 points over 2 weeks)", patterns[0].Text)
	assert.Equal(t, ConfidenceHigh, patterns[0].Confidence)
}

func TestSeverityTrendIgnoresFlatHistory(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	var symptoms []database.SymptomEntry
	for i := 0; i < 14; i++ {
		symptoms = append(symptoms, symptomAt("headache", 5, now.AddDate(0, 0, -i)))
	}

	patterns := severityTrendDetector{}.Detect(symptoms, testOptions(now))
	assert.Empty(t, patterns)
}

func TestTagLagFindsDelayedReaction(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)

	// Three tagged low-severity entries, each followed 18h later by a
	// high-severity one. The window events push the baseline to 5.0;
	// the in-window average of 8.0 clears the lift threshold.
	var symptoms []database.SymptomEntry
	for i := 0; i < 3; i++ {
		base := now.AddDate(0, 0, -6+2*i)
		symptoms = append(symptoms,
			symptomAt("bloating", 2, base, "dairy"),
			symptomAt("stomach pain", 8, base.Add(18*time.Hour)),
		)
	}

	patterns := tagLagDetector{}.Detect(symptoms, testOptions(now))
	require.Len(t, patterns, 1)

	assert.Equal(t, `Higher severity 12-24h after "dairy" (3 occurrences, avg 8.0/10)`, patterns[0].Text)
	assert.Equal(t, ConfidenceMedium, patterns[0].Confidence)
	assert.Equal(t, PatternTiming, patterns[0].Type)
	assert.Equal(t, 3, patterns[0].Metadata["occurrences"])
}

func TestTagLagHighConfidenceNeedsFiveHits(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)

	var symptoms []database.SymptomEntry
	for i := 0; i < 5; i++ {
		base := now.AddDate(0, 0, -10+2*i)
		symptoms = append(symptoms,
			symptomAt("bloating", 1, base, "dairy"),
			symptomAt("stomach pain", 9, base.Add(18*time.Hour)),
		)
	}

	patterns := tagLagDetector{}.Detect(symptoms, testOptions(now))
	require.Len(t, patterns, 1)
	assert.Equal(t, ConfidenceHigh, patterns[0].Confidence)
}

func TestTagLagRequiresMinimumOccurrences(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)

	symptoms := []database.SymptomEntry{
		symptomAt("bloating", 2, now.AddDate(0, 0, -2), "dairy"),
		symptomAt("stomach pain", 9, now.AddDate(0, 0, -2).Add(18*time.Hour)),
	}

	patterns := tagLagDetector{}.Detect(symptoms, testOptions(now))
	assert.Empty(t, patterns)
}

func TestPeriodPeakFindsWorstTimeOfDay(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	var symptoms []database.SymptomEntry
	for i := 0; i < 8; i++ {
		ts := time.Date(2026, 3, 7+i, 9, 0, 0, 0, time.Local)
		symptoms = append(symptoms, symptomAt("headache", 8, ts))
	}

	patterns := periodPeakDetector{}.Detect(symptoms, testOptions(now))
	require.Len(t, patterns, 1)

	assert.Equal(t, "Symptoms often peak in the morning (avg 8.0/10)", patterns[0].Text)
	assert.Equal(t, ConfidenceHigh, patterns[0].Confidence)
	assert.Equal(t, PatternTemporal, patterns[0].Type)
}

func TestPeriodPeakSkipsMildSeverities(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	var symptoms []database.SymptomEntry
	for i := 0; i < 8; i++ {
		ts := time.Date(2026, 3, 7+i, 9, 0, 0, 0, time.Local)
		symptoms = append(symptoms, symptomAt("headache", 3, ts))
	}

	patterns := periodPeakDetector{}.Detect(symptoms, testOptions(now))
	assert.Empty(t, patterns)
}

func TestSymptomClusterFindsCooccurringNames(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	var symptoms []database.SymptomEntry
	for i := 0; i < 3; i++ {
		day := now.AddDate(0, 0, -2*i)
		symptoms = append(symptoms,
			symptomAt("headache", 7, day),
			symptomAt("nausea", 5, day.Add(2*time.Hour)),
		)
	}

	patterns := symptomClusterDetector{}.Detect(symptoms, testOptions(now))
	require.Len(t, patterns, 1)

	assert.Equal(t, "headache + nausea occur together (3 days in past 30)", patterns[0].Text)
	assert.Equal(t, ConfidenceMedium, patterns[0].Confidence)
	assert.Equal(t, PatternCluster, patterns[0].Type)
}

func TestSymptomClusterHighConfidenceOnRepeatedDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	var symptoms []database.SymptomEntry
	for i := 0; i < 6; i++ {
		day := now.AddDate(0, 0, -i)
		symptoms = append(symptoms,
			symptomAt("headache", 7, day),
			symptomAt("nausea", 5, day.Add(time.Hour)),
		)
	}

	patterns := symptomClusterDetector{}.Detect(symptoms, testOptions(now))
	require.Len(t, patterns, 1)
	assert.Equal(t, ConfidenceHigh, patterns[0].Confidence)
}

func TestSymptomClusterIgnoresOldEntries(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	var symptoms []database.SymptomEntry
	for i := 0; i < 3; i++ {
		day := now.AddDate(0, 0, -40-i)
		symptoms = append(symptoms,
			symptomAt("headache", 7, day),
			symptomAt("nausea", 5, day.Add(time.Hour)),
		)
	}

	patterns := symptomClusterDetector{}.Detect(symptoms, testOptions(now))
	assert.Empty(t, patterns)
}

func TestWeekdayPatternFlagsWorseWeekdays(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local) // a Sunday

	var symptoms []database.SymptomEntry
	// Mon 2026-03-09 through Fri 2026-03-13, severity 8
	for d := 9; d <= 13; d++ {
		ts := time.Date(2026, 3, d, 10, 0, 0, 0, time.Local)
		symptoms = append(symptoms, symptomAt("headache", 8, ts))
		symptoms = append(symptoms, symptomAt("headache", 8, ts.Add(4*time.Hour)))
	}
	// Sat 2026-03-14 and Sun 2026-03-15, severity 3
	for d := 14; d <= 15; d++ {
		ts := time.Date(2026, 3, d, 10, 0, 0, 0, time.Local)
		symptoms = append(symptoms, symptomAt("headache", 3, ts))
	}

	patterns := weekdayPatternDetector{}.Detect(symptoms, testOptions(now))
	require.Len(t, patterns, 1)

	assert.Equal(t, "Symptoms worse on weekdays (5.0 points higher than weekends)", patterns[0].Text)
	assert.Equal(t, ConfidenceHigh, patterns[0].Confidence)
	assert.Equal(t, 8.0, patterns[0].Metadata["weekday_avg"])
	assert.Equal(t, 3.0, patterns[0].Metadata["weekend_avg"])
}

func TestWeekdayPatternNeedsBothBuckets(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	var symptoms []database.SymptomEntry
	for d := 2; d <= 13; d++ {
		ts := time.Date(2026, 3, d, 10, 0, 0, 0, time.Local)
		if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
			continue
		}
		symptoms = append(symptoms, symptomAt("headache", 8, ts))
	}

	patterns := weekdayPatternDetector{}.Detect(symptoms, testOptions(now))
	assert.Empty(t, patterns)
}
