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
)

// NewScheduleTool creates the journal_schedule tool definition
func NewScheduleTool() mcp.Tool {
	return mcp.NewTool("journal_schedule",
		mcp.WithDescription("Manage medication schedules. Actions: create, update, deactivate, list. Frequencies: daily, twice-daily, three-times, four-times, as-needed. Non-as-needed schedules carry dose times in 24h HH:MM format."),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: create, update, deactivate, list"),
		),
		mcp.WithString("id",
			mcp.Description("Schedule id (update/deactivate)"),
		),
		mcp.WithString("medication",
			mcp.Description("Medication name (create/update)"),
		),
		mcp.WithString("dosage",
			mcp.Description("Dosage, e.g. '100mg'"),
		),
		mcp.WithString("frequency",
			mcp.Description("Dose frequency (create/update)"),
		),
		mcp.WithArray("times",
			mcp.Description("Dose times, e.g. [\"08:00\", \"20:00\"]"),
		),
		mcp.WithString("start_date",
			mcp.Description("Schedule start (RFC 3339 or yyyy-MM-dd). Default: today"),
		),
		mcp.WithString("end_date",
			mcp.Description("Schedule end, open-ended when omitted"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes"),
		),
	)
}

// ScheduleHandler handles the journal_schedule tool
func ScheduleHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		action, err := request.RequireString("action")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		switch action {
		case "create":
			return createSchedule(c, ctx, request)
		case "update":
			return updateSchedule(c, ctx, request)
		case "deactivate":
			return deactivateSchedule(c, ctx, request)
		case "list":
			return listSchedules(c, ctx)
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown action: %s", action)), nil
		}
	}
}

func createSchedule(c context.Context, ctx *ToolContext, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	medication := request.GetString("medication", "")
	if medication == "" {
		return mcp.NewToolResultError("medication is required for create"), nil
	}
	frequency := request.GetString("frequency", "")
	if !database.IsValidFrequency(frequency) {
		return mcp.NewToolResultError(fmt.Sprintf("frequency must be one of: %s",
			strings.Join(database.ValidFrequencies(), ", "))), nil
	}

	startDate, err := parseTimestamp(request.GetString("start_date", ""), ctx.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start_date: %v", err)), nil
	}

	schedule := &database.MedicationSchedule{
		MedicationName: medication,
		Dosage:         request.GetString("dosage", ""),
		Frequency:      frequency,
		ScheduleTimes:  request.GetStringSlice("times", nil),
		IsActive:       true,
		StartDate:      startDate,
		Notes:          request.GetString("notes", ""),
	}
	if endStr := request.GetString("end_date", ""); endStr != "" {
		end, err := parseTimestamp(endStr, ctx.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid end_date: %v", err)), nil
		}
		schedule.EndDate = &end
	}

	if err := ctx.Store.CreateSchedule(c, schedule); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create schedule: %v", err)), nil
	}

	msg := fmt.Sprintf("Created schedule for %s (%s) [id %s]", schedule.MedicationName, schedule.Frequency, schedule.ID)
	if !schedule.IsConsistent() {
		msg += fmt.Sprintf("\nWarning: %d dose times configured but %s implies %d",
			len(schedule.ScheduleTimes), schedule.Frequency, database.ExpectedDoseCount(schedule.Frequency))
	}
	return mcp.NewToolResultText(msg), nil
}

func updateSchedule(c context.Context, ctx *ToolContext, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required for update"), nil
	}
	schedule, err := ctx.Store.GetSchedule(c, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("schedule not found: %s", id)), nil
	}

	if v := request.GetString("medication", ""); v != "" {
		schedule.MedicationName = v
	}
	if v := request.GetString("dosage", ""); v != "" {
		schedule.Dosage = v
	}
	if v := request.GetString("frequency", ""); v != "" {
		if !database.IsValidFrequency(v) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid frequency: %s", v)), nil
		}
		schedule.Frequency = v
	}
	if v := request.GetStringSlice("times", nil); v != nil {
		schedule.ScheduleTimes = v
	}
	if v := request.GetString("notes", ""); v != "" {
		schedule.Notes = v
	}
	if v := request.GetString("end_date", ""); v != "" {
		end, err := parseTimestamp(v, ctx.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid end_date: %v", err)), nil
		}
		schedule.EndDate = &end
	}

	if err := ctx.Store.UpdateSchedule(c, schedule); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update schedule: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated schedule %s", id)), nil
}

func deactivateSchedule(c context.Context, ctx *ToolContext, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required for deactivate"), nil
	}
	schedule, err := ctx.Store.GetSchedule(c, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("schedule not found: %s", id)), nil
	}
	schedule.IsActive = false
	if err := ctx.Store.UpdateSchedule(c, schedule); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to deactivate schedule: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deactivated schedule for %s", schedule.MedicationName)), nil
}

func listSchedules(c context.Context, ctx *ToolContext) (*mcp.CallToolResult, error) {
	schedules, err := ctx.Store.ListSchedules(c, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list schedules: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Medication Schedules (%d)\n", len(schedules)))
	for _, s := range schedules {
		state := "active"
		if !s.IsActive {
			state = "inactive"
		}
		sb.WriteString(fmt.Sprintf("- %s %s, %s", s.MedicationName, s.Dosage, s.Frequency))
		if len(s.ScheduleTimes) > 0 {
			sb.WriteString(" at " + strings.Join(s.ScheduleTimes, ", "))
		}
		sb.WriteString(fmt.Sprintf(" (%s, id %s)\n", state, s.ID))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
