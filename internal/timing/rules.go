// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package timing evaluates a fixed medication/context interaction table
// against a medication name and the food or drink tags logged around it.
// The rules are static pharmacology folklore (chelation and absorption
// timing), not dosing advice.
package timing

import (
	"sort"
	"strings"
	"time"
)

// Confidence tiers for timing hints, strongest first
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// confidenceRank returns a sortable weight for a confidence string
func confidenceRank(c string) int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// Hint is a rule-table-derived warning about medication/context timing
type Hint struct {
	RuleID     string `json:"rule_id"`
	Confidence string `json:"confidence"`
	Message    string `json:"message"`
	Window     string `json:"window,omitempty"`
}

// RecentMedication is a medication taken within the caller's lookback window
type RecentMedication struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Dosage    string    `json:"dosage,omitempty"`
}

// Params controls one EvaluateHints call
type Params struct {
	CurrentMed  string
	CurrentTags []string
	RecentMeds  []RecentMedication
	Max         int // default 2
}

// rule pairs a medication-name substring set with a tag condition.
// tagsAbsent inverts the condition: the rule fires when none of the tag
// substrings are present (e.g. NSAIDs without food).
type rule struct {
	id         string
	meds       []string
	tags       []string
	tagsAbsent bool
	confidence string
	message    string
	window     string
}

// rules is the fixed interaction table, in evaluation order
var rules = []rule{
	{
		id:         "tetracycline-dairy",
		meds:       []string{"doxycycline", "tetracycline"},
		tags:       []string{"dairy", "calcium"},
		confidence: ConfidenceHigh,
		message:    "Space tetracycline and dairy by 2+ hours for better absorption",
		window:     "2+ hours",
	},
	{
		id:         "iron-coffee",
		meds:       []string{"iron"},
		tags:       []string{"coffee", "tea"},
		confidence: ConfidenceHigh,
		message:    "Space iron and coffee/tea by 1-2 hours for better absorption",
		window:     "1-2 hours",
	},
	{
		id:         "levothyroxine-food",
		meds:       []string{"levothyroxine", "synthroid"},
		tags:       []string{"meal", "food", "breakfast"},
		confidence: ConfidenceHigh,
		message:    "Take levothyroxine 30-60 min before food for best absorption",
		window:     "30-60 min before",
	},
	{
		id:         "iron-calcium",
		meds:       []string{"iron"},
		tags:       []string{"dairy", "calcium"},
		confidence: ConfidenceHigh,
		message:    "Space iron and calcium/dairy by 1-2 hours",
		window:     "1-2 hours",
	},
	{
		id:         "ppi-meal",
		meds:       []string{"omeprazole", "ppi", "pantoprazole", "lansoprazole"},
		tags:       []string{"meal"},
		confidence: ConfidenceMedium,
		message:    "Take PPI 30-60 min before meal for best effect",
		window:     "30-60 min before",
	},
	{
		id:         "nsaid-food",
		meds:       []string{"ibuprofen", "naproxen", "nsaid"},
		tags:       []string{"meal", "food"},
		tagsAbsent: true,
		confidence: ConfidenceMedium,
		message:    "Take NSAIDs with food to reduce stomach irritation",
		window:     "with food",
	},
}

// EvaluateHints matches the current medication and context tags against
// the rule table. Matching is case-insensitive substring matching on both
// sides. Every matching rule fires; results are truncated to Max.
// With no current medication and no recent medications the result is empty.
func EvaluateHints(params Params) []Hint {
	max := params.Max
	if max <= 0 {
		max = 2
	}

	if params.CurrentMed == "" && len(params.RecentMeds) == 0 {
		return nil
	}

	med := strings.ToLower(params.CurrentMed)
	tags := make([]string, len(params.CurrentTags))
	for i, t := range params.CurrentTags {
		tags[i] = strings.ToLower(t)
	}

	var hints []Hint
	for _, r := range rules {
		if !matchesAny(med, r.meds) {
			continue
		}
		if anyTagContains(tags, r.tags) == r.tagsAbsent {
			continue
		}
		hints = append(hints, Hint{
			RuleID:     r.id,
			Confidence: r.confidence,
			Message:    r.message,
			Window:     r.window,
		})
	}

	if len(hints) > max {
		hints = hints[:max]
	}
	return hints
}

// MergeHints deduplicates hint batches by rule ID, keeping the
// highest-confidence instance of each rule, ranked strongest first and
// truncated to max. This is the aggregation contract for callers that
// evaluate several medications in one pass.
func MergeHints(max int, batches ...[]Hint) []Hint {
	if max <= 0 {
		max = 2
	}

	order := make([]string, 0)
	best := make(map[string]Hint)
	for _, batch := range batches {
		for _, h := range batch {
			existing, ok := best[h.RuleID]
			if !ok {
				best[h.RuleID] = h
				order = append(order, h.RuleID)
				continue
			}
			if confidenceRank(h.Confidence) > confidenceRank(existing.Confidence) {
				best[h.RuleID] = h
			}
		}
	}

	merged := make([]Hint, 0, len(order))
	for _, id := range order {
		merged = append(merged, best[id])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return confidenceRank(merged[i].Confidence) > confidenceRank(merged[j].Confidence)
	})
	if len(merged) > max {
		merged = merged[:max]
	}
	return merged
}

// CheckRecentMedications evaluates the rule table once per recent
// medication under the same context tags and merges the results.
func CheckRecentMedications(tags []string, meds []RecentMedication, max int) []Hint {
	if max <= 0 {
		max = 2
	}
	batches := make([][]Hint, 0, len(meds))
	for _, m := range meds {
		batches = append(batches, EvaluateHints(Params{
			CurrentMed:  m.Name,
			CurrentTags: tags,
			RecentMeds:  meds,
			Max:         len(rules), // dedup and truncate after merging
		}))
	}
	return MergeHints(max, batches...)
}

// matchesAny reports whether s contains any of the substrings
func matchesAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// anyTagContains reports whether any tag contains any of the substrings
func anyTagContains(tags, substrings []string) bool {
	for _, tag := range tags {
		for _, sub := range substrings {
			if strings.Contains(tag, sub) {
				return true
			}
		}
	}
	return false
}
