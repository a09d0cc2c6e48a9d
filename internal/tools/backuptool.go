// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewBackupTool creates the journal_backup tool definition
func NewBackupTool() mcp.Tool {
	return mcp.NewTool("journal_backup",
		mcp.WithDescription("Snapshot the journal to the local git backup repository. Writes monthly markdown files and a medications.yaml dump, then commits if anything changed."),
	)
}

// BackupHandler handles the journal_backup tool
func BackupHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.BackupRepo == nil {
			return mcp.NewToolResultError("backup is disabled; enable it in the config and restart"), nil
		}

		result, err := ctx.BackupRepo.Snapshot(c, ctx.Store, ctx.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("backup failed: %v", err)), nil
		}

		if !result.Committed {
			return mcp.NewToolResultText(fmt.Sprintf("Backup up to date, nothing changed (%d files checked).", len(result.Files))), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Backup committed %d files (commit %s).", len(result.Files), result.Commit)), nil
	}
}
