// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/svan-b/myhealthyagent/internal/database"
)

// Builtins returns the default detector set, in emission order
func Builtins() []Detector {
	return []Detector{
		severityTrendDetector{},
		tagLagDetector{},
		periodPeakDetector{},
		symptomClusterDetector{},
		weekdayPatternDetector{},
	}
}

/* Severity trend: is severity improving or worsening? */

// Calibration constants for the trend detector. These are deliberately
// crude heuristics carried over from the calibrated report thresholds;
// changing them changes report output.
const (
	trendWindowDays = 14
	trendMinSlope   = 0.04
	trendMinDelta   = 0.8
	trendHighSlope  = 0.08
	trendHighDelta  = 1.5
)

type severityTrendDetector struct{}

func (severityTrendDetector) Name() string { return "severity-trend" }

// Detect fits an ordinary least-squares line over the last 14 daily
// averages and reports the direction when slope or net change is large
// enough to matter.
func (severityTrendDetector) Detect(symptoms []database.SymptomEntry, opts Options) []Pattern {
	daily := CalculateTrend(symptoms, TrendOptions{Days: trendWindowDays, Now: opts.Now})
	if len(daily) < 7 {
		return nil
	}

	ys := make([]float64, len(daily))
	xs := make([]float64, len(daily))
	for i, d := range daily {
		ys[i] = d.AvgSeverity
		xs[i] = float64(i)
	}
	xMean := mean(xs)
	yMean := mean(ys)
	var num, den float64
	for i := range xs {
		num += (xs[i] - xMean) * (ys[i] - yMean)
		den += (xs[i] - xMean) * (xs[i] - xMean)
	}
	slope := safeDiv(num, den) // severity units per day
	delta := ys[len(ys)-1] - ys[0]

	mag := abs(slope)
	if mag < trendMinSlope && abs(delta) < trendMinDelta {
		return nil
	}

	conf := ConfidenceMedium
	if mag > trendHighSlope || abs(delta) > trendHighDelta {
		conf = ConfidenceHigh
	}

	text := fmt.Sprintf("Severity trending up (~%.1f points over 2 weeks)", delta)
	if slope < 0 {
		text = fmt.Sprintf("Severity trending down (~%.1f points over 2 weeks)", abs(delta))
	}

	return []Pattern{{
		Text:       text,
		Confidence: conf,
		Type:       PatternStatistical,
		Metadata: map[string]interface{}{
			"slope_per_day": round3(slope),
			"delta":         round2(delta),
		},
	}}
}

/* Tag lag: tag now, higher severity 12-24h later */

const (
	tagLagMinLift   = 0.8
	tagLagMinHitAvg = 5.0
	tagLagHighLift  = 1.5
	tagLagHighHits  = 5
)

type tagLagDetector struct{}

func (tagLagDetector) Name() string { return "tag-lag" }

// Detect looks for elevated severity in a lag window after tagged entries.
// Works for any free-form tag: dairy, gluten, coffee, exercise.
// The baseline is the mean over the entire symptom set, in-window entries
// included. That conflation is intentional; a proper out-of-window
// baseline would shift the lift threshold.
func (tagLagDetector) Detect(symptoms []database.SymptomEntry, opts Options) []Pattern {
	minH, maxH := opts.TagLagWindow[0], opts.TagLagWindow[1]

	events := make([]database.SymptomEntry, len(symptoms))
	copy(events, symptoms)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	tagOrder := make([]string, 0)
	hitsByTag := make(map[string][]float64)
	var allSev []float64
	for _, e := range events {
		allSev = append(allSev, float64(e.Severity))
	}

	for i, e := range events {
		for _, tag := range e.Tags {
			if _, ok := hitsByTag[tag]; !ok {
				hitsByTag[tag] = nil
				tagOrder = append(tagOrder, tag)
			}
			// Scan forward through the lag window after this tagged event
			for j := i + 1; j < len(events); j++ {
				h := int(events[j].Timestamp.Sub(e.Timestamp).Hours())
				if h > maxH {
					break
				}
				if h >= minH {
					hitsByTag[tag] = append(hitsByTag[tag], float64(events[j].Severity))
				}
			}
		}
	}

	baseAvg := mean(allSev)

	var patterns []Pattern
	for _, tag := range tagOrder {
		hits := hitsByTag[tag]
		if len(hits) < opts.MinOccurrences {
			continue
		}
		hitAvg := mean(hits)
		lift := hitAvg - baseAvg
		if lift > tagLagMinLift && hitAvg > tagLagMinHitAvg {
			conf := ConfidenceMedium
			if lift > tagLagHighLift && len(hits) >= tagLagHighHits {
				conf = ConfidenceHigh
			}
			patterns = append(patterns, Pattern{
				Text: fmt.Sprintf("Higher severity %d-%dh after %q (%d occurrences, avg %.1f/10)",
					minH, maxH, tag, len(hits), hitAvg),
				Confidence: conf,
				Type:       PatternTiming,
				Metadata: map[string]interface{}{
					"window_hours": []int{minH, maxH},
					"occurrences":  len(hits),
					"lift":         round2(lift),
				},
			})
		}
	}
	return patterns
}

/* Period peak: morning/afternoon/evening/night */

const (
	periodMinEntries       = 7
	periodMinBucketEntries = 3
	periodMinAvg           = 5.0
	periodHighAvg          = 7.0
)

type periodPeakDetector struct{}

func (periodPeakDetector) Name() string { return "period-peak" }

func (periodPeakDetector) Detect(symptoms []database.SymptomEntry, opts Options) []Pattern {
	if len(symptoms) < periodMinEntries {
		return nil
	}

	periods := []string{"night", "morning", "afternoon", "evening"}
	buckets := map[string][]float64{}
	for _, s := range symptoms {
		h := s.Timestamp.Hour()
		var key string
		switch {
		case h < 5:
			key = "night"
		case h < 12:
			key = "morning"
		case h < 18:
			key = "afternoon"
		default:
			key = "evening"
		}
		buckets[key] = append(buckets[key], float64(s.Severity))
	}

	bestPeriod := ""
	bestAvg := 0.0
	bestN := 0
	for _, p := range periods {
		vals := buckets[p]
		if len(vals) < periodMinBucketEntries {
			continue
		}
		avg := mean(vals)
		if bestPeriod == "" || avg > bestAvg {
			bestPeriod, bestAvg, bestN = p, avg, len(vals)
		}
	}
	if bestPeriod == "" || bestAvg <= periodMinAvg {
		return nil
	}

	conf := ConfidenceMedium
	if bestAvg > periodHighAvg {
		conf = ConfidenceHigh
	}
	return []Pattern{{
		Text:       fmt.Sprintf("Symptoms often peak in the %s (avg %.1f/10)", bestPeriod, bestAvg),
		Confidence: conf,
		Type:       PatternTemporal,
		Metadata:   map[string]interface{}{"count": bestN},
	}}
}

/* Symptom clusters: names that co-occur on the same day */

type symptomClusterDetector struct{}

func (symptomClusterDetector) Name() string { return "symptom-clusters" }

func (symptomClusterDetector) Detect(symptoms []database.SymptomEntry, opts Options) []Pattern {
	cutoff := opts.Now.AddDate(0, 0, -opts.LookbackDays)

	var recent []database.SymptomEntry
	for _, s := range symptoms {
		if s.Timestamp.After(cutoff) {
			recent = append(recent, s)
		}
	}
	if len(recent) < opts.MinOccurrences*2 {
		return nil
	}

	// Distinct symptom names per calendar day
	namesByDay := make(map[string]map[string]bool)
	for _, s := range recent {
		day := dayKey(s.Timestamp)
		if namesByDay[day] == nil {
			namesByDay[day] = make(map[string]bool)
		}
		namesByDay[day][s.Name] = true
	}

	cooccur := make(map[string]int)
	for _, nameSet := range namesByDay {
		names := make([]string, 0, len(nameSet))
		for n := range nameSet {
			names = append(names, n)
		}
		sort.Strings(names)
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				pair := names[i] + " + " + names[j]
				cooccur[pair]++
			}
		}
	}

	type pairCount struct {
		pair  string
		count int
	}
	var kept []pairCount
	for pair, count := range cooccur {
		if count >= opts.MinOccurrences {
			kept = append(kept, pairCount{pair, count})
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].count != kept[j].count {
			return kept[i].count > kept[j].count
		}
		return kept[i].pair < kept[j].pair
	})
	if len(kept) > 3 {
		kept = kept[:3]
	}

	var patterns []Pattern
	for _, pc := range kept {
		conf := ConfidenceMedium
		if pc.count >= opts.MinOccurrences*2 {
			conf = ConfidenceHigh
		}
		patterns = append(patterns, Pattern{
			Text:       fmt.Sprintf("%s occur together (%d days in past %d)", pc.pair, pc.count, opts.LookbackDays),
			Confidence: conf,
			Type:       PatternCluster,
			Metadata: map[string]interface{}{
				"pair":          pc.pair,
				"occurrences":   pc.count,
				"lookback_days": opts.LookbackDays,
			},
		})
	}
	return patterns
}

/* Weekday vs weekend */

const (
	weekdayMinEntries = 10
	weekdayMinDiff    = 1.5
	weekdayHighDiff   = 2.5
)

type weekdayPatternDetector struct{}

func (weekdayPatternDetector) Name() string { return "weekday-pattern" }

func (weekdayPatternDetector) Detect(symptoms []database.SymptomEntry, opts Options) []Pattern {
	cutoff := opts.Now.AddDate(0, 0, -opts.LookbackDays)

	var weekdaySum, weekendSum float64
	var weekdayCount, weekendCount int
	total := 0
	for _, s := range symptoms {
		if !s.Timestamp.After(cutoff) {
			continue
		}
		total++
		if wd := s.Timestamp.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendCount++
			weekendSum += float64(s.Severity)
		} else {
			weekdayCount++
			weekdaySum += float64(s.Severity)
		}
	}
	if total < weekdayMinEntries || weekdayCount == 0 || weekendCount == 0 {
		return nil
	}

	weekdayAvg := weekdaySum / float64(weekdayCount)
	weekendAvg := weekendSum / float64(weekendCount)
	diff := abs(weekdayAvg - weekendAvg)
	if diff <= weekdayMinDiff {
		return nil
	}

	worse, better := "weekdays", "weekends"
	if weekendAvg > weekdayAvg {
		worse, better = "weekends", "weekdays"
	}
	conf := ConfidenceMedium
	if diff > weekdayHighDiff {
		conf = ConfidenceHigh
	}
	return []Pattern{{
		Text:       fmt.Sprintf("Symptoms worse on %s (%.1f points higher than %s)", worse, diff, better),
		Confidence: conf,
		Type:       PatternTemporal,
		Metadata: map[string]interface{}{
			"weekday_avg":   round1(weekdayAvg),
			"weekend_avg":   round1(weekendAvg),
			"difference":    round1(diff),
			"lookback_days": opts.LookbackDays,
		},
	}}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
