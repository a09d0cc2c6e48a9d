// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"time"

	"github.com/svan-b/myhealthyagent/internal/backup"
	"github.com/svan-b/myhealthyagent/internal/config"
	"github.com/svan-b/myhealthyagent/internal/database"
)

// ToolContext holds shared dependencies for all tools
type ToolContext struct {
	Store      *database.Store
	Config     *config.Config
	BackupRepo *backup.Repository // nil when backup is disabled
	Clock      func() time.Time   // injectable for tests; nil means time.Now
}

// NewToolContext creates a tool context with the real clock
func NewToolContext(store *database.Store, cfg *config.Config) *ToolContext {
	return &ToolContext{
		Store:  store,
		Config: cfg,
	}
}

// Now returns the context's current time
func (tc *ToolContext) Now() time.Time {
	if tc.Clock != nil {
		return tc.Clock()
	}
	return time.Now()
}

// parseTimestamp parses an RFC 3339 or date-only timestamp, falling back
// to the given default when the input is empty
func parseTimestamp(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}
