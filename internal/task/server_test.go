package task

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/timeline"
)

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content type %T", res.Content[0])
	return tc.Text
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 12, 7, 7, 0, 0, 0, time.UTC))
	return NewServer(newTestStore(t, clk), clk, time.UTC, 30)
}

func TestServer_DayTimeline(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	for _, args := range []map[string]any{
		{"title": "Standup", "start": "2025-12-07T09:00:00Z", "end": "2025-12-07T10:00:00Z"},
		{"title": "Review", "start": "2025-12-07T14:00:00Z", "end": "2025-12-07T14:30:00Z"},
	} {
		res, err := s.handleAddTask(ctx, callRequest(args))
		require.NoError(t, err)
		require.False(t, res.IsError, resultText(t, res))
	}

	res, err := s.handleDayTimeline(ctx, callRequest(map[string]any{
		"date":             "2025-12-07",
		"duration_minutes": float64(45),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var tl timeline.Timeline
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &tl))
	require.Len(t, tl.Intervals, 5)
	assert.Equal(t, 45, tl.Requested)

	kinds := make([]timeline.Kind, 0, 5)
	for _, iv := range tl.Intervals {
		kinds = append(kinds, iv.Kind)
	}
	assert.Equal(t, []timeline.Kind{timeline.Free, timeline.Occupied, timeline.Free, timeline.Occupied, timeline.Free}, kinds)
	for _, iv := range tl.Free() {
		assert.True(t, iv.Fits)
	}
}

func TestServer_SuggestSlot(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	_, err := s.handleAddTask(ctx, callRequest(map[string]any{
		"title": "Sleep", "start": "2025-12-07T00:00:00Z", "end": "2025-12-07T08:00:00Z",
	}))
	require.NoError(t, err)
	_, err = s.handleAddTask(ctx, callRequest(map[string]any{
		"title": "Call", "start": "2025-12-07T08:20:00Z", "end": "2025-12-07T09:00:00Z",
	}))
	require.NoError(t, err)

	res, err := s.handleSuggestSlot(ctx, callRequest(map[string]any{"duration_minutes": float64(30)}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var got struct {
		Start time.Time `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.True(t, got.Start.Equal(time.Date(2025, 12, 7, 9, 0, 0, 0, time.UTC)), "got %v", got.Start)
}

func TestServer_BadInput(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	res, err := s.handleDayTimeline(ctx, callRequest(map[string]any{"date": "07/12/2025"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleDayTimeline(ctx, callRequest(map[string]any{"duration_minutes": float64(0)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleAddTask(ctx, callRequest(map[string]any{"title": "x", "start": "soon"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleCompleteTask(ctx, callRequest(map[string]any{"id": float64(12)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_CompleteFreesTime(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	res, err := s.handleAddTask(ctx, callRequest(map[string]any{
		"title": "Block", "start": "2025-12-07T00:00:00Z", "end": "2025-12-08T00:00:00Z",
	}))
	require.NoError(t, err)
	var added Task
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &added))

	res, err = s.handleSuggestSlot(ctx, callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "No free slot")

	res, err = s.handleCompleteTask(ctx, callRequest(map[string]any{"id": float64(added.ID)}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = s.handleListTasks(ctx, callRequest(map[string]any{"date": "2025-12-07"}))
	require.NoError(t, err)
	var tasks []Task
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &tasks))
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	res, err = s.handleSuggestSlot(ctx, callRequest(nil))
	require.NoError(t, err)
	assert.NotContains(t, resultText(t, res), "No free slot")
}
