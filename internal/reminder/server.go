package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/dayplan/internal/clock"
)

const (
	serverName    = "reminder"
	serverVersion = "1.0.0"
)

// Server is the MCP server for reminder management.
type Server struct {
	mcpServer *server.MCPServer
	store     *Store
	clock     clock.Clock
}

// NewServer creates a new Reminder MCP server backed by the given store.
func NewServer(store *Store, clk clock.Clock) *Server {
	if clk == nil {
		clk = clock.Real{}
	}
	s := &Server{
		store: store,
		clock: clk,
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
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a new reminder with a title, scheduled time, optional notes and priority"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("scheduled_time", mcp.Required(), mcp.Description("When to remind, RFC3339 (e.g. 2025-01-15T09:00:00Z)")),
			mcp.WithString("notes", mcp.Description("Optional notes shown in the notification body")),
			mcp.WithString("priority", mcp.Description("Priority: low, medium, high (default: medium)")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List reminders, optionally filtered by status (pending, sent or snoozed)"),
			mcp.WithString("status", mcp.Description("Filter by status: pending, sent, snoozed, or empty for all")),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_due_reminders",
			mcp.WithDescription("Get all pending reminders that are due now or overdue, without changing them"),
		),
		s.handleGetDueReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("snooze_reminder",
			mcp.WithDescription("Snooze a reminder for a number of minutes; it fires again afterwards"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithNumber("minutes", mcp.Description("Snooze length in minutes (default: 10)")),
		),
		s.handleSnoozeReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("update_reminder",
			mcp.WithDescription("Update a reminder's fields; a new scheduled_time makes it pending again"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("notes", mcp.Description("New notes")),
			mcp.WithString("scheduled_time", mcp.Description("New scheduled time in RFC3339 format")),
			mcp.WithString("priority", mcp.Description("New priority: low, medium, high")),
		),
		s.handleUpdateReminder,
	)
}

// DefaultSnooze is used when snooze_reminder gets no duration.
const DefaultSnooze = 10 * time.Minute

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	scheduledStr := req.GetString("scheduled_time", "")

	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	if scheduledStr == "" {
		return mcp.NewToolResultError("scheduled_time is required"), nil
	}

	scheduled, err := time.Parse(time.RFC3339, scheduledStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scheduled_time format: %v (use RFC3339, e.g. 2025-01-15T09:00:00Z)", err)), nil
	}

	r := Reminder{
		Title:         title,
		Notes:         req.GetString("notes", ""),
		ScheduledTime: scheduled,
		Priority:      req.GetString("priority", PriorityMedium),
	}

	added, err := s.store.Add(ctx, r)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}

	return jsonResult(added)
}

func (s *Server) handleListReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := Status(req.GetString("status", ""))

	reminders, err := s.store.List(ctx, status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	return jsonResult(reminders)
}

func (s *Server) handleGetDueReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get due reminders: %v", err)), nil
	}

	due := ScanDue(snapshot, s.clock.Now())
	if len(due) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}

	return jsonResult(due)
}

func (s *Server) handleSnoozeReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	d := DefaultSnooze
	if m := req.GetFloat("minutes", 0); m > 0 {
		d = time.Duration(m * float64(time.Minute))
	}

	snoozed, err := s.store.Snooze(ctx, id, s.clock.Now().Add(d))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to snooze reminder: %v", err)), nil
	}

	return jsonResult(snoozed)
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d deleted.", id)), nil
}

func (s *Server) handleUpdateReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	var fields UpdateFields

	if v := req.GetString("title", ""); v != "" {
		fields.Title = &v
	}
	if v := req.GetString("notes", ""); v != "" {
		fields.Notes = &v
	}
	if v := req.GetString("scheduled_time", ""); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid scheduled_time: %v", err)), nil
		}
		fields.ScheduledTime = &t
	}
	if v := req.GetString("priority", ""); v != "" {
		fields.Priority = &v
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder: %v", err)), nil
	}

	return jsonResult(updated)
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
