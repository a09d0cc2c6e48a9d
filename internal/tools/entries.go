// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewEntriesTool creates the journal_entries tool definition
func NewEntriesTool() mcp.Tool {
	return mcp.NewTool("journal_entries",
		mcp.WithDescription("List journal entries. Returns symptoms and medication logs, optionally restricted to a time range."),
		mcp.WithString("since",
			mcp.Description("Start of range (RFC 3339 or yyyy-MM-dd). Default: 30 days ago"),
		),
		mcp.WithString("until",
			mcp.Description("End of range (RFC 3339 or yyyy-MM-dd). Default: now"),
		),
		mcp.WithBoolean("symptoms_only",
			mcp.Description("Only list symptom entries"),
		),
		mcp.WithBoolean("medications_only",
			mcp.Description("Only list medication logs"),
		),
	)
}

// EntriesHandler handles the journal_entries tool
func EntriesHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		now := ctx.Now()
		since, err := parseTimestamp(request.GetString("since", ""), now.AddDate(0, 0, -30))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid since: %v", err)), nil
		}
		until, err := parseTimestamp(request.GetString("until", ""), now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid until: %v", err)), nil
		}
		symptomsOnly := request.GetBool("symptoms_only", false)
		medicationsOnly := request.GetBool("medications_only", false)

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("# Journal %s to %s\n",
			since.Format("2006-01-02"), until.Format("2006-01-02")))

		if !medicationsOnly {
			symptoms, err := ctx.Store.SymptomsBetween(c, since, until)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to list symptoms: %v", err)), nil
			}
			sb.WriteString(fmt.Sprintf("\n## Symptoms (%d)\n", len(symptoms)))
			for _, s := range symptoms {
				sb.WriteString(fmt.Sprintf("- %s %s %d/10", s.Timestamp.Format("2006-01-02 15:04"), s.Name, s.Severity))
				if len(s.Tags) > 0 {
					sb.WriteString(" [" + strings.Join(s.Tags, ", ") + "]")
				}
				sb.WriteString(fmt.Sprintf(" (id %s)\n", s.ID))
			}
		}

		if !symptomsOnly {
			logs, err := ctx.Store.MedicationLogsBetween(c, since, until)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to list medication logs: %v", err)), nil
			}
			sb.WriteString(fmt.Sprintf("\n## Medications (%d)\n", len(logs)))
			for _, m := range logs {
				sb.WriteString(fmt.Sprintf("- %s %s", m.Timestamp.Format("2006-01-02 15:04"), m.Name))
				if m.Dose != "" {
					sb.WriteString(" " + m.Dose)
				}
				sb.WriteString(fmt.Sprintf(" (id %s)\n", m.ID))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// NewDeleteTool creates the journal_delete tool definition
func NewDeleteTool() mcp.Tool {
	return mcp.NewTool("journal_delete",
		mcp.WithDescription("Delete a single journal entry by id, or purge the entire journal. Purging removes all symptoms, medication logs, schedules and adherence records. There is no undo."),
		mcp.WithString("id",
			mcp.Description("Entry id to delete (symptom or medication log)"),
		),
		mcp.WithBoolean("purge_all",
			mcp.Description("Delete ALL journal data instead of a single entry"),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Must be true when purge_all is set"),
		),
	)
}

// DeleteHandler handles the journal_delete tool
func DeleteHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if request.GetBool("purge_all", false) {
			if !request.GetBool("confirm", false) {
				return mcp.NewToolResultError("purge_all requires confirm=true"), nil
			}
			if err := ctx.Store.PurgeAll(c); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to purge journal: %v", err)), nil
			}
			return mcp.NewToolResultText("All journal data deleted."), nil
		}

		id := request.GetString("id", "")
		if id == "" {
			return mcp.NewToolResultError("id is required unless purge_all is set"), nil
		}

		// The id namespace is shared (UUIDs), so try both entry types
		if _, err := ctx.Store.GetSymptom(c, id); err == nil {
			if err := ctx.Store.DeleteSymptom(c, id); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to delete symptom: %v", err)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("Deleted symptom entry %s", id)), nil
		}
		if err := ctx.Store.DeleteMedicationLog(c, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to delete entry: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted entry %s", id)), nil
	}
}
