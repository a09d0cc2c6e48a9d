// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package insights

import (
	"log"
	"sort"

	"github.com/svan-b/myhealthyagent/internal/database"
)

// maxPatterns caps the ranked result; the report surfaces three hypotheses
const maxPatterns = 3

// FallbackText is emitted when no detector finds anything
const FallbackText = "Insufficient data for pattern detection (aim for 7+ days of logs)"

// DetectPatterns runs every detector over the symptom history, merges and
// ranks the hypotheses by confidence, and truncates to the top three.
// A panicking detector is logged and skipped; the rest still report.
// When nothing fires, a single low-confidence fallback pattern is returned
// so the report never comes back empty.
func DetectPatterns(symptoms []database.SymptomEntry, opts Options) []Pattern {
	resolved := opts.resolve()

	var patterns []Pattern
	for _, det := range resolved.Detectors {
		patterns = append(patterns, runDetector(det, symptoms, resolved)...)
	}

	// Highest confidence first; ties keep detector emission order
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence.Rank() > patterns[j].Confidence.Rank()
	})
	if len(patterns) > maxPatterns {
		patterns = patterns[:maxPatterns]
	}

	if len(patterns) == 0 {
		patterns = append(patterns, Pattern{
			Text:       FallbackText,
			Confidence: ConfidenceLow,
			Type:       PatternStatistical,
		})
	}
	return patterns
}

// runDetector isolates a single detector invocation. Detectors fail open:
// one bad detector must never blank the whole report.
func runDetector(det Detector, symptoms []database.SymptomEntry, opts Options) (result []Pattern) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pattern detector %q panicked: %v", det.Name(), r)
			result = nil
		}
	}()
	return det.Detect(symptoms, opts)
}
