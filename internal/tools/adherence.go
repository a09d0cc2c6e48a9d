// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/svan-b/myhealthyagent/internal/adherence"
)

// NewAdherenceTool creates the journal_adherence tool definition
func NewAdherenceTool() mcp.Tool {
	return mcp.NewTool("journal_adherence",
		mcp.WithDescription("Compute adherence statistics for a medication schedule: percentage taken, timing consistency, and where the misses cluster (time of day, weekday). Includes plain-language observations."),
		mcp.WithString("schedule_id",
			mcp.Required(),
			mcp.Description("Schedule to analyze"),
		),
		mcp.WithNumber("days",
			mcp.Description("Analysis window in days. Default: 30"),
		),
	)
}

// AdherenceHandler handles the journal_adherence tool
func AdherenceHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scheduleID, err := request.RequireString("schedule_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		days := int(request.GetFloat("days", 30))

		schedule, err := ctx.Store.GetSchedule(c, scheduleID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("schedule not found: %s", scheduleID)), nil
		}
		records, err := ctx.Store.AdherenceForSchedule(c, scheduleID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list adherence records: %v", err)), nil
		}

		metrics := adherence.Calculate(schedule, records, days, ctx.Now())
		observations := adherence.Insights(metrics)

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("# Adherence: %s (last %d days)\n\n", schedule.MedicationName, days))
		sb.WriteString(fmt.Sprintf("Adherence: %d%% (%d of %d doses taken)\n",
			metrics.AdherencePercentage, metrics.TakenDoses, metrics.TotalDoses))
		sb.WriteString(fmt.Sprintf("Missed: %d, Skipped: %d\n", metrics.MissedDoses, metrics.SkippedDoses))
		if metrics.TimingConsistencyMinutes != nil {
			sb.WriteString(fmt.Sprintf("Timing consistency: ±%.0f minutes\n", *metrics.TimingConsistencyMinutes))
		} else {
			sb.WriteString("Timing consistency: not enough timed doses\n")
		}

		if len(metrics.SkipReasons) > 0 {
			sb.WriteString("\nSkip reasons:\n")
			for reason, count := range metrics.SkipReasons {
				sb.WriteString(fmt.Sprintf("- %s: %d\n", reason, count))
			}
		}

		if len(observations) > 0 {
			sb.WriteString("\nObservations:\n")
			for _, obs := range observations {
				sb.WriteString("- " + obs + "\n")
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
