package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/timeline"
)

const (
	serverName    = "tasks"
	serverVersion = "1.0.0"

	dateLayout = "2006-01-02"
)

// Server is the MCP server for tasks and free-slot suggestions.
type Server struct {
	mcpServer       *server.MCPServer
	store           *Store
	clock           clock.Clock
	loc             *time.Location
	defaultDuration int
}

// NewServer creates a task MCP server. Dates passed to tools are interpreted
// in loc; defaultDuration is the slot length in minutes used when a tool call
// omits one.
func NewServer(store *Store, clk clock.Clock, loc *time.Location, defaultDuration int) *Server {
	if clk == nil {
		clk = clock.Real{}
	}
	if loc == nil {
		loc = time.Local
	}
	if defaultDuration <= 0 {
		defaultDuration = 30
	}
	s := &Server{
		store:           store,
		clock:           clk,
		loc:             loc,
		defaultDuration: defaultDuration,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("add_task",
			mcp.WithDescription("Schedule a task. Without an end time it occupies 30 minutes."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithString("start", mcp.Required(), mcp.Description("Start time in RFC3339 format")),
			mcp.WithString("end", mcp.Description("Optional end time in RFC3339 format")),
			mcp.WithString("notes", mcp.Description("Optional notes")),
		),
		s.handleAddTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_tasks",
			mcp.WithDescription("List tasks starting on a date"),
			mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD (default: today)")),
		),
		s.handleListTasks,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("complete_task",
			mcp.WithDescription("Mark a task as completed; it no longer blocks time"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleCompleteTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_task",
			mcp.WithDescription("Delete a task permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleDeleteTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("day_timeline",
			mcp.WithDescription("Partition a day into free and occupied intervals; free intervals report whether the requested duration fits"),
			mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD (default: today)")),
			mcp.WithNumber("duration_minutes", mcp.Description("Requested duration in minutes")),
		),
		s.handleDayTimeline,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("suggest_slot",
			mcp.WithDescription("Suggest the start of the earliest free interval that fits the requested duration"),
			mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD (default: today)")),
			mcp.WithNumber("duration_minutes", mcp.Description("Requested duration in minutes")),
		),
		s.handleSuggestSlot,
	)
}

func (s *Server) handleAddTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	start, err := time.Parse(time.RFC3339, req.GetString("start", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start: %v (use RFC3339, e.g. 2025-01-15T09:00:00Z)", err)), nil
	}

	t := Task{Title: title, Start: start, Notes: req.GetString("notes", "")}
	if v := req.GetString("end", ""); v != "" {
		end, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid end: %v", err)), nil
		}
		t.End = &end
	}

	added, err := s.store.Add(ctx, t)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}

	return jsonResult(added)
}

func (s *Server) handleListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := s.parseDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tasks, err := s.store.List(ctx, day)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tasks: %v", err)), nil
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found."), nil
	}

	return jsonResult(tasks)
}

func (s *Server) handleCompleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.store.Complete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task %d marked as completed.", id)), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task %d deleted.", id)), nil
}

func (s *Server) handleDayTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tl, errResult := s.timelineFor(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(tl)
}

func (s *Server) handleSuggestSlot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tl, errResult := s.timelineFor(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	iv, ok := tl.FirstFit()
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No free slot of %d minutes on %s.", tl.Requested, tl.Day.Format(dateLayout))), nil
	}

	start, _ := timeline.SuggestStart(iv)
	return jsonResult(map[string]any{
		"start":            start,
		"free_until":       iv.End,
		"free_minutes":     iv.DurationMinutes(),
		"duration_minutes": tl.Requested,
	})
}

func (s *Server) timelineFor(ctx context.Context, req mcp.CallToolRequest) (timeline.Timeline, *mcp.CallToolResult) {
	day, err := s.parseDate(req.GetString("date", ""))
	if err != nil {
		return timeline.Timeline{}, mcp.NewToolResultError(err.Error())
	}

	minutes := int(req.GetFloat("duration_minutes", float64(s.defaultDuration)))
	if minutes <= 0 {
		return timeline.Timeline{}, mcp.NewToolResultError("duration_minutes must be positive")
	}

	tl, err := s.store.Timeline(ctx, day, minutes)
	if err != nil {
		return timeline.Timeline{}, mcp.NewToolResultError(fmt.Sprintf("failed to compute timeline: %v", err))
	}
	return tl, nil
}

func (s *Server) parseDate(v string) (time.Time, error) {
	if v == "" {
		return s.clock.Now().In(s.loc), nil
	}
	day, err := time.ParseInLocation(dateLayout, v, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	return day, nil
}

func requireID(req mcp.CallToolRequest) (int64, *mcp.CallToolResult) {
	idFloat := req.GetFloat("id", -1)
	if idFloat < 0 {
		return 0, mcp.NewToolResultError("id is required and must be a positive number")
	}
	return int64(idFloat), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}
