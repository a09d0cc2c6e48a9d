// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package insights

import (
	"sort"

	"github.com/svan-b/myhealthyagent/internal/database"
)

// TopSymptom is a frequency/severity aggregate for one symptom name
type TopSymptom struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	AvgSeverity float64 `json:"avg_severity"`
}

// TopSymptoms ranks symptom names by occurrence count, ties broken by
// first appearance in the input. topN below 1 falls back to 5.
func TopSymptoms(symptoms []database.SymptomEntry, topN int) []TopSymptom {
	if topN < 1 {
		topN = 5
	}

	type agg struct {
		count int
		total float64
	}
	// Track first-seen order so ties stay stable across runs
	order := make([]string, 0)
	byName := make(map[string]*agg)
	for _, s := range symptoms {
		a, ok := byName[s.Name]
		if !ok {
			a = &agg{}
			byName[s.Name] = a
			order = append(order, s.Name)
		}
		a.count++
		a.total += float64(s.Severity)
	}

	ranked := make([]TopSymptom, 0, len(order))
	for _, name := range order {
		a := byName[name]
		ranked = append(ranked, TopSymptom{
			Name:        name,
			Count:       a.count,
			AvgSeverity: round2(safeDiv(a.total, float64(a.count))),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
