package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	available bool
	err       error
	titles    []string
}

func (r *recordingNotifier) Available() bool { return r.available }

func (r *recordingNotifier) Notify(_ context.Context, title, _ string) error {
	r.titles = append(r.titles, title)
	return r.err
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	assert.False(t, n.Available())
	assert.ErrorIs(t, n.Notify(context.Background(), "t", "b"), ErrUnavailable)
}

func TestMulti(t *testing.T) {
	ok := &recordingNotifier{available: true}
	off := &recordingNotifier{available: false}
	failing := &recordingNotifier{available: true, err: errors.New("boom")}

	m := Multi{ok, off, failing}
	assert.True(t, m.Available())

	err := m.Notify(context.Background(), "Standup", "")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"Standup"}, ok.titles)
	assert.Empty(t, off.titles)
	assert.Equal(t, []string{"Standup"}, failing.titles)

	assert.False(t, Multi{off}.Available())
	assert.False(t, Multi{}.Available())
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, false)
	require.True(t, n.Available())

	require.NoError(t, n.Notify(context.Background(), "Stretch", "5 minutes"))
	assert.Equal(t, "⏰ Stretch  5 minutes\n", buf.String())
}

func TestTelegram_Unavailable(t *testing.T) {
	n := NewTelegram("", "123")
	assert.False(t, n.Available())
	assert.ErrorIs(t, n.Notify(context.Background(), "x", ""), ErrUnavailable)
}

func TestTelegram_Send(t *testing.T) {
	var got telegramSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegram("TOKEN", "42").WithBaseURL(srv.URL)
	require.NoError(t, n.Notify(context.Background(), "Pay <rent>", "today"))

	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Equal(t, "<b>⏰ Pay &lt;rent&gt;</b>\ntoday", got.Text)
}

func TestTelegram_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	err := NewTelegram("TOKEN", "42").WithBaseURL(srv.URL).Notify(context.Background(), "x", "")
	assert.ErrorContains(t, err, "chat not found")
}
