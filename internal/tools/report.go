// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/svan-b/myhealthyagent/internal/insights"
)

// NewReportTool creates the journal_report tool definition
func NewReportTool() mcp.Tool {
	return mcp.NewTool("journal_report",
		mcp.WithDescription("Generate the insight report: detected patterns (top 3 hypotheses), the daily severity trend, and the most frequent symptoms over the lookback window."),
		mcp.WithNumber("days",
			mcp.Description("Report window in days. Default: 30"),
		),
		mcp.WithNumber("top",
			mcp.Description("How many top symptoms to list. Default: 5"),
		),
	)
}

// ReportHandler handles the journal_report tool
func ReportHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := int(request.GetFloat("days", 30))
		topN := int(request.GetFloat("top", 5))
		now := ctx.Now()

		// Full history feeds the detectors; each applies its own lookback
		symptoms, err := ctx.Store.ListSymptoms(c)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list symptoms: %v", err)), nil
		}

		patterns := insights.DetectPatterns(symptoms, insights.Options{
			Now:            now,
			MinOccurrences: ctx.Config.Journal.MinOccurrences,
			TagLagWindow:   [2]int{ctx.Config.Journal.TagLagLowHour, ctx.Config.Journal.TagLagHighHour},
			LookbackDays:   ctx.Config.Journal.LookbackDays,
		})
		trend := insights.CalculateTrend(symptoms, insights.TrendOptions{Days: days, Now: now})
		top := insights.TopSymptoms(symptoms, topN)

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("# Insight Report (last %d days)\n\n", days))

		sb.WriteString("## Detected Patterns\n")
		for i, p := range patterns {
			sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, p.Confidence, p.Text))
		}

		sb.WriteString(fmt.Sprintf("\n## Top Symptoms (%d)\n", len(top)))
		for _, t := range top {
			sb.WriteString(fmt.Sprintf("- %s: %d times, avg %.2f/10\n", t.Name, t.Count, t.AvgSeverity))
		}

		sb.WriteString("\n## Daily Severity Trend\n")
		for _, point := range trend {
			if point.AvgSeverity == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("- %s: %.2f\n", point.Date, point.AvgSeverity))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
