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

	"github.com/svan-b/myhealthyagent/internal/database"
)

// NewDoseTool creates the journal_dose tool definition
func NewDoseTool() mcp.Tool {
	return mcp.NewTool("journal_dose",
		mcp.WithDescription("Record the outcome of a scheduled dose. Actions: due (create the expected dose record), take, skip, pending (list outstanding doses), expire (mark overdue pending doses missed). Taken and skipped doses are final."),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: due, take, skip, pending, expire"),
		),
		mcp.WithString("schedule_id",
			mcp.Description("Schedule the dose belongs to (due)"),
		),
		mcp.WithString("dose_id",
			mcp.Description("Adherence record id (take/skip)"),
		),
		mcp.WithString("scheduled_time",
			mcp.Description("When the dose was due, RFC 3339 (due). Default: now"),
		),
		mcp.WithString("taken_time",
			mcp.Description("When the dose was actually taken (take). Default: now"),
		),
		mcp.WithString("reason",
			mcp.Description("Why the dose was skipped (skip)"),
		),
	)
}

// DoseHandler handles the journal_dose tool
func DoseHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		action, err := request.RequireString("action")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		switch action {
		case "due":
			return createDueDose(c, ctx, request)
		case "take":
			return resolveDose(c, ctx, request, database.StatusTaken)
		case "skip":
			return resolveDose(c, ctx, request, database.StatusSkipped)
		case "pending":
			return listPendingDoses(c, ctx)
		case "expire":
			return expireDoses(c, ctx)
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown action: %s", action)), nil
		}
	}
}

func createDueDose(c context.Context, ctx *ToolContext, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scheduleID := request.GetString("schedule_id", "")
	if scheduleID == "" {
		return mcp.NewToolResultError("schedule_id is required for due"), nil
	}
	schedule, err := ctx.Store.GetSchedule(c, scheduleID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("schedule not found: %s", scheduleID)), nil
	}

	scheduledTime, err := parseTimestamp(request.GetString("scheduled_time", ""), ctx.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scheduled_time: %v", err)), nil
	}

	record := &database.MedicationAdherence{
		ScheduleID:     schedule.ID,
		MedicationName: schedule.MedicationName,
		ScheduledTime:  scheduledTime,
		Status:         database.StatusPending,
	}
	if err := ctx.Store.CreateAdherence(c, record); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create dose record: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Dose of %s due at %s [id %s]",
		record.MedicationName, record.ScheduledTime.Format("2006-01-02 15:04"), record.ID)), nil
}

func resolveDose(c context.Context, ctx *ToolContext, request mcp.CallToolRequest, status string) (*mcp.CallToolResult, error) {
	doseID := request.GetString("dose_id", "")
	if doseID == "" {
		return mcp.NewToolResultError("dose_id is required"), nil
	}
	record, err := ctx.Store.GetAdherence(c, doseID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dose record not found: %s", doseID)), nil
	}

	record.Status = status
	switch status {
	case database.StatusTaken:
		takenTime, err := parseTimestamp(request.GetString("taken_time", ""), ctx.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid taken_time: %v", err)), nil
		}
		record.TakenTime = &takenTime
	case database.StatusSkipped:
		record.SkipReason = request.GetString("reason", "")
	}

	if err := ctx.Store.UpdateAdherence(c, record); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update dose: %v", err)), nil
	}

	if status == database.StatusTaken {
		offset := record.TakenTime.Sub(record.ScheduledTime).Round(time.Minute)
		return mcp.NewToolResultText(fmt.Sprintf("Marked %s taken (%s from scheduled time)",
			record.MedicationName, offset)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Marked %s skipped", record.MedicationName)), nil
}

func listPendingDoses(c context.Context, ctx *ToolContext) (*mcp.CallToolResult, error) {
	records, err := ctx.Store.PendingDosesBefore(c, ctx.Now().Add(24*time.Hour))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list pending doses: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Pending Doses (%d)\n", len(records)))
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("- %s due %s (id %s)\n",
			r.MedicationName, r.ScheduledTime.Format("2006-01-02 15:04"), r.ID))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func expireDoses(c context.Context, ctx *ToolContext) (*mcp.CallToolResult, error) {
	grace := time.Duration(ctx.Config.Scheduler.MissedGraceMinutes) * time.Minute
	n, err := ctx.Store.MarkMissedBefore(c, ctx.Now().Add(-grace))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to expire doses: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Marked %d overdue doses as missed", n)), nil
}
