// Command mcp-reminder provides an MCP server for reminder management.
//
// This server provides tools for creating, listing, snoozing, and managing
// reminders stored in the planner's SQLite database.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Environment:
//
//	DAYPLAN_DB_PATH  Path to SQLite database (default: ~/.dayplan/dayplan.db)
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/config"
	"github.com/notexe/dayplan/internal/logging"
	"github.com/notexe/dayplan/internal/reminder"
	"github.com/notexe/dayplan/internal/storage"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	cfg, err := config.Load(config.GetDefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
	defer db.Close()

	store, err := reminder.NewStore(db)
	if err != nil {
		logger.Fatal("failed to prepare reminder store", zap.Error(err))
	}

	s := reminder.NewServer(store, clock.Real{})

	logger.Info("serving reminder tools on stdio", zap.String("db", cfg.Database.Path))
	if err := server.ServeStdio(s.MCPServer()); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - Reminder management via MCP protocol

USAGE:
    mcp-reminder          Start MCP server (communicates via stdio)
    mcp-reminder --help   Show this help

ENVIRONMENT:
    DAYPLAN_DB_PATH  Path to SQLite database file
                     Default: ~/.dayplan/dayplan.db

TOOLS:
    add_reminder       Add a new reminder (title, scheduled_time, notes, priority)
    list_reminders     List all reminders (optional status filter)
    get_due_reminders  Get pending reminders that are due now
    snooze_reminder    Postpone a reminder (minutes, default 10)
    delete_reminder    Delete a reminder permanently
    update_reminder    Update reminder fields (title, notes, scheduled_time, priority)

Due reminders are delivered by "planner watch"; this server never marks them sent.

CONFIGURATION:
    Add to your MCP client configuration:
    {
      "mcpServers": {
        "reminder": {
          "command": "/path/to/mcp-reminder",
          "args": []
        }
      }
    }`)
}
