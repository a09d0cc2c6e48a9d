// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package insights

import (
	"math"
	"time"

	"github.com/svan-b/myhealthyagent/internal/database"
)

// TrendPoint is one calendar day's average symptom severity
type TrendPoint struct {
	Date        string  `json:"date"`         // yyyy-MM-dd, user-local
	AvgSeverity float64 `json:"avg_severity"` // 0..10
}

// TrendOptions controls a CalculateTrend invocation
type TrendOptions struct {
	Days int       // default 30
	Now  time.Time // injectable clock for testing
}

const dayKeyLayout = "2006-01-02"

// dayKey builds a yyyy-MM-dd key in local time, keeping reports aligned
// with the user's calendar
func dayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// startOfDay truncates a time to local midnight
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CalculateTrend buckets symptom severities into daily averages over the
// trailing window. It always returns exactly opts.Days points, oldest
// first; days with no entries average to zero.
func CalculateTrend(symptoms []database.SymptomEntry, opts TrendOptions) []TrendPoint {
	days := opts.Days
	if days < 1 {
		days = 30
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Prime the last N days so empty days still appear in the output
	keys := make([]string, 0, days)
	daily := make(map[string][]float64, days)
	for i := days - 1; i >= 0; i-- {
		key := dayKey(startOfDay(now.AddDate(0, 0, -i)))
		keys = append(keys, key)
		daily[key] = nil
	}

	for _, s := range symptoms {
		key := dayKey(startOfDay(s.Timestamp))
		if vals, ok := daily[key]; ok {
			daily[key] = append(vals, float64(s.Severity))
		}
	}

	points := make([]TrendPoint, 0, days)
	for _, key := range keys {
		points = append(points, TrendPoint{
			Date:        key,
			AvgSeverity: round2(mean(daily[key])),
		})
	}
	return points
}

// mean returns the arithmetic mean, or 0 for an empty sample
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// safeDiv divides, treating a zero denominator as zero
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
