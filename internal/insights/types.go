// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package insights

import (
	"time"

	"github.com/svan-b/myhealthyagent/internal/database"
)

// Confidence is the tier assigned to a detected pattern
type Confidence string

// Confidence tiers, strongest first
const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Rank returns a sortable weight for a confidence tier
func (c Confidence) Rank() int {
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

// PatternType categorizes what kind of signal a detector found
type PatternType string

// Pattern types
const (
	PatternTemporal    PatternType = "temporal"
	PatternCorrelation PatternType = "correlation"
	PatternTiming      PatternType = "timing"
	PatternStatistical PatternType = "statistical"
	PatternCluster     PatternType = "cluster"
)

// Pattern is a ranked, heuristic textual hypothesis about symptom behavior.
// Patterns are recomputed on demand and never persisted.
type Pattern struct {
	Text       string                 `json:"text"`
	Confidence Confidence             `json:"confidence"`
	Type       PatternType            `json:"type"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Options controls a detectPatterns invocation. Zero values fall back to
// the documented defaults.
type Options struct {
	Now            time.Time  // injectable clock for testing
	MinOccurrences int        // default 3
	TagLagWindow   [2]int     // [low, high] hours, default [12, 24]
	LookbackDays   int        // default 30
	Detectors      []Detector // default Builtins()
}

// resolve fills in defaults, leaving the receiver untouched
func (o Options) resolve() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.MinOccurrences < 1 {
		o.MinOccurrences = 3
	}
	if o.TagLagWindow == [2]int{} {
		o.TagLagWindow = [2]int{12, 24}
	}
	if o.LookbackDays < 1 {
		o.LookbackDays = 30
	}
	if o.Detectors == nil {
		o.Detectors = Builtins()
	}
	return o
}

// Detector inspects the full symptom history and emits zero or more
// pattern hypotheses. Implementations must be pure with respect to their
// inputs; the engine isolates panics per detector.
type Detector interface {
	Name() string
	Detect(symptoms []database.SymptomEntry, opts Options) []Pattern
}

// DetectorFunc adapts a plain function into a Detector, the
// bring-your-own-detector extension point.
type DetectorFunc struct {
	DetectorName string
	Fn           func(symptoms []database.SymptomEntry, opts Options) []Pattern
}

// Name returns the detector name
func (d DetectorFunc) Name() string { return d.DetectorName }

// Detect runs the wrapped function
func (d DetectorFunc) Detect(symptoms []database.SymptomEntry, opts Options) []Pattern {
	return d.Fn(symptoms, opts)
}
