package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram delivers messages through the Telegram Bot API. Delivery retries
// live here, not in the pipeline.
type Telegram struct {
	client  *retryablehttp.Client
	baseURL string
	token   string
	chatID  string
}

// NewTelegram builds a Telegram sink for the given bot token and chat.
func NewTelegram(token, chatID string) *Telegram {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil

	return &Telegram{
		client:  client,
		baseURL: telegramAPIBase,
		token:   token,
		chatID:  chatID,
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts a pre-formatted message to the configured chat.
func (t *Telegram) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("marshal telegram request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram api status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var parsed sendMessageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("parse telegram response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram api rejected message: %s", parsed.Description)
	}

	return nil
}

// Nop is a notification sink that drops everything. Used when no bot token is
// configured and in tests.
type Nop struct{}

func (Nop) Send(context.Context, string) error { return nil }
