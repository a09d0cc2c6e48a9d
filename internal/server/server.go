// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"github.com/mark3labs/mcp-go/server"
	"gorm.io/gorm"

	"github.com/svan-b/myhealthyagent/internal/backup"
	"github.com/svan-b/myhealthyagent/internal/config"
	"github.com/svan-b/myhealthyagent/internal/database"
	"github.com/svan-b/myhealthyagent/internal/tools"
)

// MCPServer wraps the mcp-go server with our configuration
type MCPServer struct {
	mcpServer  *server.MCPServer
	config     *config.Config
	store      *database.Store
	backupRepo *backup.Repository
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(cfg *config.Config, db *gorm.DB, backupRepo *backup.Repository) (*MCPServer, error) {
	mcpServer := server.NewMCPServer(
		"myhealthyagent",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &MCPServer{
		mcpServer:  mcpServer,
		config:     cfg,
		store:      database.NewStore(db),
		backupRepo: backupRepo,
	}

	srv.registerTools()

	return srv, nil
}

// registerTools registers all MCP tools
func (s *MCPServer) registerTools() {
	toolCtx := tools.NewToolContext(s.store, s.config)
	toolCtx.BackupRepo = s.backupRepo

	// Logging: symptoms and medication doses as they happen
	s.mcpServer.AddTool(tools.NewLogSymptomTool(), tools.LogSymptomHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewLogMedicationTool(), tools.LogMedicationHandler(toolCtx))

	// Journal access: list and delete entries
	s.mcpServer.AddTool(tools.NewEntriesTool(), tools.EntriesHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewDeleteTool(), tools.DeleteHandler(toolCtx))

	// Medication schedules and dose tracking
	s.mcpServer.AddTool(tools.NewScheduleTool(), tools.ScheduleHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewDoseTool(), tools.DoseHandler(toolCtx))

	// Analysis: pattern report, adherence statistics, timing interactions
	s.mcpServer.AddTool(tools.NewReportTool(), tools.ReportHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewAdherenceTool(), tools.AdherenceHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewTimingCheckTool(), tools.TimingCheckHandler(toolCtx))

	// Git snapshot of the journal
	s.mcpServer.AddTool(tools.NewBackupTool(), tools.BackupHandler(toolCtx))
}

// GetMCPServer returns the underlying MCP server
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
