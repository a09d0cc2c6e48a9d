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

func symptomAt(name string, severity int, ts time.Time, tags ...string) database.SymptomEntry {
	return database.SymptomEntry{
		Name:      name,
		Severity:  severity,
		Timestamp: ts,
		Tags:      tags,
	}
}

func TestCalculateTrendAlwaysReturnsExactDayCount(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	points := CalculateTrend(nil, TrendOptions{Days: 7, Now: now})
	require.Len(t, points, 7)

	// Oldest day first, ending on today
	assert.Equal(t, "2026-03-09", points[0].Date)
	assert.Equal(t, "2026-03-15", points[6].Date)
	for _, p := range points {
		assert.Zero(t, p.AvgSeverity)
	}
}

func TestCalculateTrendAveragesPerDay(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	symptoms := []database.SymptomEntry{
		symptomAt("headache", 4, now.Add(-2*time.Hour)),
		symptomAt("headache", 7, now.Add(-3*time.Hour)),
		symptomAt("nausea", 5, now.AddDate(0, 0, -1)),
		// Outside the window, must be ignored
		symptomAt("headache", 10, now.AddDate(0, 0, -10)),
	}

	points := CalculateTrend(symptoms, TrendOptions{Days: 3, Now: now})
	require.Len(t, points, 3)

	assert.Zero(t, points[0].AvgSeverity)
	assert.Equal(t, 5.0, points[1].AvgSeverity)
	assert.Equal(t, 5.5, points[2].AvgSeverity)
}

func TestCalculateTrendRoundsToTwoDecimals(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	symptoms := []database.SymptomEntry{
		symptomAt("headache", 4, now.Add(-1*time.Hour)),
		symptomAt("headache", 4, now.Add(-2*time.Hour)),
		symptomAt("headache", 5, now.Add(-3*time.Hour)),
	}

	points := CalculateTrend(symptoms, TrendOptions{Days: 1, Now: now})
	require.Len(t, points, 1)
	assert.Equal(t, 4.33, points[0].AvgSeverity)
}

func TestCalculateTrendDefaultsToThirtyDays(t *testing.T) {
	points := CalculateTrend(nil, TrendOptions{})
	assert.Len(t, points, 30)
}

func TestTopSymptomsRanksByCount(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	symptoms := []database.SymptomEntry{
		symptomAt("nausea", 4, now),
		symptomAt("headache", 6, now),
		symptomAt("headache", 8, now),
		symptomAt("fatigue", 5, now),
		symptomAt("headache", 7, now),
		symptomAt("fatigue", 3, now),
	}

	top := TopSymptoms(symptoms, 5)
	require.Len(t, top, 3)

	assert.Equal(t, "headache", top[0].Name)
	assert.Equal(t, 3, top[0].Count)
	assert.Equal(t, 7.0, top[0].AvgSeverity)

	assert.Equal(t, "fatigue", top[1].Name)
	assert.Equal(t, 2, top[1].Count)

	assert.Equal(t, "nausea", top[2].Name)
	assert.Equal(t, 1, top[2].Count)
}

func TestTopSymptomsBreaksTiesByFirstAppearance(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	symptoms := []database.SymptomEntry{
		symptomAt("nausea", 4, now),
		symptomAt("headache", 6, now),
		symptomAt("nausea", 4, now),
		symptomAt("headache", 6, now),
	}

	top := TopSymptoms(symptoms, 5)
	require.Len(t, top, 2)
	assert.Equal(t, "nausea", top[0].Name)
	assert.Equal(t, "headache", top[1].Name)
}

func TestTopSymptomsTruncatesToTopN(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	symptoms := []database.SymptomEntry{
		symptomAt("a", 1, now),
		symptomAt("b", 2, now),
		symptomAt("c", 3, now),
	}

	top := TopSymptoms(symptoms, 2)
	assert.Len(t, top, 2)
}
