package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegramSend(t *testing.T) {
	var got sendMessageRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/bottest-token/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	sink := NewTelegram("test-token", "12345")
	sink.baseURL = ts.URL

	if err := sink.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.ChatID != "12345" || got.Text != "hello" {
		t.Fatalf("request mismatch: %+v", got)
	}
	if got.ParseMode != "Markdown" {
		t.Fatalf("parse mode mismatch: %q", got.ParseMode)
	}
}

func TestTelegramSendRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer ts.Close()

	sink := NewTelegram("test-token", "12345")
	sink.baseURL = ts.URL

	err := sink.Send(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error for rejected message")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("error should carry the api description: %v", err)
	}
}
