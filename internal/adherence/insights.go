// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package adherence

import "fmt"

// Insight thresholds. Fixed calibration constants; downstream reports
// depend on these exact cut points.
const (
	excellentPct = 90
	goodPct      = 75
	moderatePct  = 50

	veryConsistentMin = 30
	goodConsistentMin = 60

	timeOfDayFlagCount = 2
	weekendMissRatio   = 0.4
)

// Insights derives up to four plain-language observations from an
// adherence summary
func Insights(metrics Metrics) []string {
	var insights []string

	switch {
	case metrics.AdherencePercentage >= excellentPct:
		insights = append(insights, "Excellent adherence! Keep up the great work.")
	case metrics.AdherencePercentage >= goodPct:
		insights = append(insights, "Good adherence. Consider setting reminders for occasional misses.")
	case metrics.AdherencePercentage >= moderatePct:
		insights = append(insights, "Moderate adherence. Discuss barriers with your healthcare provider.")
	case metrics.TotalDoses > 0:
		insights = append(insights, "Low adherence. Consider simplifying your medication schedule.")
	}

	if metrics.TimingConsistencyMinutes != nil {
		switch m := *metrics.TimingConsistencyMinutes; {
		case m <= veryConsistentMin:
			insights = append(insights, "Very consistent timing - excellent routine!")
		case m <= goodConsistentMin:
			insights = append(insights, "Good timing consistency.")
		default:
			insights = append(insights, "Variable timing - consider setting alarms.")
		}
	}

	// Flag the worst time-of-day bucket when it carries enough misses
	buckets := []struct {
		name  string
		count int
	}{
		{"morning", metrics.MissedByTimeOfDay.Morning},
		{"afternoon", metrics.MissedByTimeOfDay.Afternoon},
		{"evening", metrics.MissedByTimeOfDay.Evening},
		{"night", metrics.MissedByTimeOfDay.Night},
	}
	maxName, maxCount := "", 0
	for _, b := range buckets {
		if b.count > maxCount {
			maxName, maxCount = b.name, b.count
		}
	}
	if maxCount > timeOfDayFlagCount {
		insights = append(insights, fmt.Sprintf("Most doses missed in the %s - consider adjusting schedule.", maxName))
	}

	totalMisses := 0
	for _, count := range metrics.MissedByWeekday {
		totalMisses += count
	}
	weekendMisses := metrics.MissedByWeekday["Sat"] + metrics.MissedByWeekday["Sun"]
	if totalMisses > 0 && float64(weekendMisses)/float64(totalMisses) > weekendMissRatio {
		insights = append(insights, "More misses on weekends - set weekend reminders.")
	}

	return insights
}
