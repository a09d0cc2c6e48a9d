// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/svan-b/myhealthyagent/internal/database"
	"github.com/svan-b/myhealthyagent/internal/timing"
)

// NewLogSymptomTool creates the journal_log_symptom tool definition
func NewLogSymptomTool() mcp.Tool {
	return mcp.NewTool("journal_log_symptom",
		mcp.WithDescription("Log a symptom occurrence with a 0-10 severity. Tags add context the pattern detectors can use later: what was eaten, activities, surroundings (e.g. 'dairy', 'meal', 'exercise')."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Symptom name, e.g. 'Headache'"),
		),
		mcp.WithNumber("severity",
			mcp.Required(),
			mcp.Description("Severity from 0 (none) to 10 (worst)"),
		),
		mcp.WithString("timestamp",
			mcp.Description("When it happened (RFC 3339 or yyyy-MM-dd). Default: now"),
		),
		mcp.WithArray("tags",
			mcp.Description("Context labels, e.g. [\"dairy\", \"stress\"]"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes"),
		),
	)
}

// LogSymptomHandler handles the journal_log_symptom tool
func LogSymptomHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		severity := request.GetFloat("severity", -1)
		if severity < 0 || severity > 10 {
			return mcp.NewToolResultError("severity must be between 0 and 10"), nil
		}

		ts, err := parseTimestamp(request.GetString("timestamp", ""), ctx.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid timestamp: %v", err)), nil
		}

		entry := &database.SymptomEntry{
			Name:      name,
			Severity:  int(severity),
			Timestamp: ts,
			Tags:      request.GetStringSlice("tags", nil),
			Notes:     request.GetString("notes", ""),
		}
		if err := ctx.Store.CreateSymptom(c, entry); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to log symptom: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Logged %s (severity %d/10) at %s [id %s]",
			entry.Name, entry.Severity, entry.Timestamp.Format("2006-01-02 15:04"), entry.ID)), nil
	}
}

// NewLogMedicationTool creates the journal_log_medication tool definition
func NewLogMedicationTool() mcp.Tool {
	return mcp.NewTool("journal_log_medication",
		mcp.WithDescription("Log that a medication was taken. Context tags (e.g. 'dairy', 'coffee', 'meal') are checked against the timing-interaction rules and any warnings come back with the confirmation."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Medication name, e.g. 'Doxycycline'"),
		),
		mcp.WithString("dose",
			mcp.Description("Dose taken, e.g. '100mg'"),
		),
		mcp.WithString("timestamp",
			mcp.Description("When it was taken (RFC 3339 or yyyy-MM-dd). Default: now"),
		),
		mcp.WithArray("tags",
			mcp.Description("Context labels around this dose, e.g. [\"breakfast\", \"coffee\"]"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes"),
		),
	)
}

// LogMedicationHandler handles the journal_log_medication tool
func LogMedicationHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		ts, err := parseTimestamp(request.GetString("timestamp", ""), ctx.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid timestamp: %v", err)), nil
		}
		tags := request.GetStringSlice("tags", nil)

		entry := &database.MedicationLog{
			Name:      name,
			Timestamp: ts,
			Dose:      request.GetString("dose", ""),
			Notes:     request.GetString("notes", ""),
		}
		if err := ctx.Store.CreateMedicationLog(c, entry); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to log medication: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Logged %s", entry.Name))
		if entry.Dose != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", entry.Dose))
		}
		sb.WriteString(fmt.Sprintf(" at %s [id %s]", entry.Timestamp.Format("2006-01-02 15:04"), entry.ID))

		hints := timing.EvaluateHints(timing.Params{
			CurrentMed:  name,
			CurrentTags: tags,
			Max:         ctx.Config.Journal.MaxTimingHints,
		})
		for _, h := range hints {
			sb.WriteString(fmt.Sprintf("\n[%s] %s", h.Confidence, h.Message))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
