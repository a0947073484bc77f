// Command mcp-tasks provides an MCP server for day planning.
//
// It exposes the planner's tasks and the free/occupied timeline of a day so
// an assistant can find where a new task fits.
//
// Usage:
//
//	./mcp-tasks          # Start MCP server (stdio)
//	./mcp-tasks --help   # Show help
//
// Environment:
//
//	DAYPLAN_DB_PATH   Path to SQLite database (default: ~/.dayplan/dayplan.db)
//	DAYPLAN_TIMEZONE  IANA zone used for dates (default: Local)
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/config"
	"github.com/notexe/dayplan/internal/logging"
	"github.com/notexe/dayplan/internal/storage"
	"github.com/notexe/dayplan/internal/task"
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

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
	defer db.Close()

	clk := clock.Real{}
	store, err := task.NewStore(db, clk)
	if err != nil {
		logger.Fatal("failed to prepare task store", zap.Error(err))
	}

	s := task.NewServer(store, clk, loc, cfg.Planner.DefaultDuration)

	logger.Info("serving task tools on stdio",
		zap.String("db", cfg.Database.Path), zap.String("timezone", loc.String()))
	if err := server.ServeStdio(s.MCPServer()); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Tasks Server - Day planning via MCP protocol

USAGE:
    mcp-tasks          Start MCP server (communicates via stdio)
    mcp-tasks --help   Show this help

ENVIRONMENT:
    DAYPLAN_DB_PATH   Path to SQLite database file
                      Default: ~/.dayplan/dayplan.db
    DAYPLAN_TIMEZONE  Timezone for YYYY-MM-DD dates (default: Local)

TOOLS:
    add_task       Schedule a task (title, start, end, notes)
    list_tasks     List the tasks of a date
    complete_task  Mark a task completed so it no longer blocks time
    delete_task    Delete a task permanently
    day_timeline   Free and occupied intervals of a date for a duration
    suggest_slot   Earliest free start that fits a duration

CONFIGURATION:
    Add to your MCP client configuration:
    {
      "mcpServers": {
        "tasks": {
          "command": "/path/to/mcp-tasks",
          "args": []
        }
      }
    }`)
}
