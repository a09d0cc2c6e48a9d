// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"gorm.io/gorm/logger"

	"github.com/svan-b/myhealthyagent/internal/backup"
	"github.com/svan-b/myhealthyagent/internal/config"
	"github.com/svan-b/myhealthyagent/internal/database"
	"github.com/svan-b/myhealthyagent/internal/server"
	"github.com/svan-b/myhealthyagent/internal/templates"
	"github.com/svan-b/myhealthyagent/pkg/scheduler"
)

// Version is set at build time via ldflags (e.g. -X main.Version={{.Version}}).
var Version string

func main() {
	// CRITICAL: MCP servers must ONLY output JSON-RPC to stdout
	// Redirect all logging to stderr
	log.SetOutput(os.Stderr)

	// Define command-line flags
	configPath := flag.String("config", "", "Path to config file")
	dbType := flag.String("db-type", "", "Database type (sqlite or postgres)")
	dbPath := flag.String("db-path", "", "Database path (for sqlite)")
	dbDSN := flag.String("db-dsn", "", "Database DSN (for postgres)")
	runBackup := flag.Bool("backup", false, "Run one journal snapshot and exit")
	markMissed := flag.Bool("mark-missed", false, "Expire overdue pending doses and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "myhealthyagent MCP Server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Server Mode:\n")
		fmt.Fprintf(os.Stderr, "  %s                  Start MCP server (stdio)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMaintenance:\n")
		fmt.Fprintf(os.Stderr, "  %s --backup         Snapshot the journal to the backup repository and exit\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mark-missed    Mark overdue pending doses as missed and exit\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DB_TYPE    Database type (sqlite or postgres)\n")
		fmt.Fprintf(os.Stderr, "  DB_PATH    SQLite database path\n")
		fmt.Fprintf(os.Stderr, "  DB_DSN     PostgreSQL connection string\n")
	}

	flag.Parse()

	if *runBackup && *markMissed {
		log.Fatal("ERROR: --backup and --mark-missed cannot be used together")
	}

	log.Println("Starting myhealthyagent MCP Server...")

	// Load configuration
	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
		if err != nil {
			log.Printf("Warning: Failed to load config from %s: %v", *configPath, err)
			log.Println("Using defaults")
			cfg = config.DefaultConfig()
		} else {
			log.Printf("Loaded configuration from %s", *configPath)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			log.Printf("Warning: Failed to load default config: %v", err)
			log.Println("Using built-in defaults")
			cfg = config.DefaultConfig()
		} else {
			log.Printf("Loaded configuration from ~/.myhealthyagent/configs/config.json")
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Apply CLI flag overrides (highest priority)
	applyCLIOverrides(cfg, *dbType, *dbPath, *dbDSN)

	log.Printf("Configuration: database=%s", cfg.Database.Type)

	// Connect to the database and run migrations
	db, err := database.Connect(&database.Config{
		Type:        cfg.Database.Type,
		SQLitePath:  cfg.Database.SQLitePath,
		PostgresDSN: cfg.Database.PostgresDSN,
		LogLevel:    logger.Silent, // CRITICAL: Silence GORM stdout output for MCP
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	log.Printf("Connected to database: %s", cfg.Database.Type)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	if err := database.CreateIndexes(db); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	store := database.NewStore(db)

	// Seed symptom templates (built-in presets plus optional user file)
	if err := templates.Seed(context.Background(), store, cfg.Templates.UserFile); err != nil {
		log.Printf("Warning: Failed to seed symptom templates: %v", err)
	}

	// Open the backup repository when enabled
	var backupRepo *backup.Repository
	if cfg.Backup.Enabled {
		repoPath := cfg.Backup.RepoPath
		if repoPath == "" {
			homeDir, _ := os.UserHomeDir()
			repoPath = filepath.Join(homeDir, ".myhealthyagent", "backup")
		}
		backupRepo, err = backup.OpenOrInit(repoPath)
		if err != nil {
			log.Fatalf("Failed to open backup repository: %v", err)
		}
		log.Printf("Using backup repository at: %s", backupRepo.Path)
	}

	// MAINTENANCE MODE: run the requested job and exit
	if *runBackup {
		runBackupMode(store, backupRepo)
		return
	}
	if *markMissed {
		runMarkMissedMode(store, cfg)
		return
	}

	// Start the background scheduler (missed-dose expiry, periodic snapshots)
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(store, cfg.Scheduler.IntervalMinutes, cfg.Scheduler.MissedGraceMinutes, backupRepo)
		sched.Start()
		defer sched.Stop()
		log.Printf("Scheduler started (interval: %dm, grace: %dm)",
			cfg.Scheduler.IntervalMinutes, cfg.Scheduler.MissedGraceMinutes)
	}

	// Create MCP server
	mcpServer, err := server.NewMCPServer(cfg, db, backupRepo)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	log.Println("MCP server ready (stdio mode) - 10 tools registered")

	// Serve via stdio
	if err := mcpserver.ServeStdio(mcpServer.GetMCPServer()); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}

// runBackupMode takes one snapshot and exits
func runBackupMode(store *database.Store, repo *backup.Repository) {
	if repo == nil {
		log.Fatal("ERROR: --backup requires backup.enabled in the config")
	}
	result, err := repo.Snapshot(context.Background(), store, time.Now())
	if err != nil {
		log.Fatalf("Backup failed: %v", err)
	}
	if result.Committed {
		log.Printf("Backup committed %d files (commit %s)", len(result.Files), result.Commit)
	} else {
		log.Printf("Backup up to date, nothing changed (%d files checked)", len(result.Files))
	}
}

// runMarkMissedMode expires overdue pending doses and exits
func runMarkMissedMode(store *database.Store, cfg *config.Config) {
	cutoff := time.Now().Add(-time.Duration(cfg.Scheduler.MissedGraceMinutes) * time.Minute)
	count, err := store.MarkMissedBefore(context.Background(), cutoff)
	if err != nil {
		log.Fatalf("Failed to mark missed doses: %v", err)
	}
	log.Printf("Marked %d overdue doses as missed", count)
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("DB_TYPE"); v != "" {
		cfg.Database.Type = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
}

// applyCLIOverrides applies command-line flag overrides to the config
func applyCLIOverrides(cfg *config.Config, dbType, dbPath, dbDSN string) {
	if dbType != "" {
		cfg.Database.Type = dbType
	}
	if dbPath != "" {
		cfg.Database.SQLitePath = dbPath
	}
	if dbDSN != "" {
		cfg.Database.PostgresDSN = dbDSN
	}
}
