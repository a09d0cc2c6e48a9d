// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/svan-b/myhealthyagent/internal/timing"
)

// NewTimingCheckTool creates the journal_timing_check tool definition
func NewTimingCheckTool() mcp.Tool {
	return mcp.NewTool("journal_timing_check",
		mcp.WithDescription("Check medication/context timing interactions before taking a dose. Evaluates the candidate medication plus medications logged recently against the interaction rules (e.g. iron with coffee, tetracycline with dairy)."),
		mcp.WithString("medication",
			mcp.Description("Medication about to be taken"),
		),
		mcp.WithArray("tags",
			mcp.Description("Current context labels, e.g. [\"breakfast\", \"coffee\"]"),
		),
		mcp.WithNumber("lookback_hours",
			mcp.Description("How far back to scan recent medication logs. Default: 4"),
		),
		mcp.WithNumber("max",
			mcp.Description("Maximum hints to return. Default: 2"),
		),
	)
}

// TimingCheckHandler handles the journal_timing_check tool
func TimingCheckHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		medication := request.GetString("medication", "")
		tags := request.GetStringSlice("tags", nil)
		lookbackHours := request.GetFloat("lookback_hours", 4)
		max := int(request.GetFloat("max", float64(ctx.Config.Journal.MaxTimingHints)))

		now := ctx.Now()
		logs, err := ctx.Store.MedicationLogsBetween(c,
			now.Add(-time.Duration(lookbackHours)*time.Hour), now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list recent medications: %v", err)), nil
		}

		recent := make([]timing.RecentMedication, 0, len(logs))
		for _, l := range logs {
			recent = append(recent, timing.RecentMedication{
				Name:      l.Name,
				Timestamp: l.Timestamp,
				Dosage:    l.Dose,
			})
		}

		// Evaluate the candidate and every recent medication, then merge
		// keeping the strongest instance of each rule
		batches := [][]timing.Hint{
			timing.EvaluateHints(timing.Params{
				CurrentMed:  medication,
				CurrentTags: tags,
				RecentMeds:  recent,
				Max:         max,
			}),
			timing.CheckRecentMedications(tags, recent, max),
		}
		hints := timing.MergeHints(max, batches...)

		if len(hints) == 0 {
			return mcp.NewToolResultText("No timing interactions found."), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("# Timing Hints (%d)\n", len(hints)))
		for _, h := range hints {
			sb.WriteString(fmt.Sprintf("- [%s] %s", h.Confidence, h.Message))
			if h.Window != "" {
				sb.WriteString(fmt.Sprintf(" (window: %s)", h.Window))
			}
			sb.WriteString("\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
