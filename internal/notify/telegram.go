package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram sends notifications via the Telegram Bot API.
type Telegram struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegram creates a Telegram notifier. It is unavailable when either
// credential is empty.
func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPIBase,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL points the notifier at another Bot API endpoint.
func (t *Telegram) WithBaseURL(u string) *Telegram {
	t.baseURL = strings.TrimRight(u, "/")
	return t
}

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

func (t *Telegram) Available() bool {
	return t.botToken != "" && t.chatID != ""
}

// Notify sends title in bold followed by body to the configured chat.
func (t *Telegram) Notify(ctx context.Context, title, body string) error {
	if !t.Available() {
		return ErrUnavailable
	}

	text := "<b>⏰ " + html.EscapeString(title) + "</b>"
	if body != "" {
		text += "\n" + html.EscapeString(body)
	}

	payload, err := json.Marshal(telegramSendRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}

	var tgResp telegramResponse
	if err := json.Unmarshal(respBody, &tgResp); err != nil {
		return fmt.Errorf("failed to parse telegram response (status %d): %w", resp.StatusCode, err)
	}

	if !tgResp.OK {
		return fmt.Errorf("telegram API error: %s", tgResp.Description)
	}

	return nil
}
