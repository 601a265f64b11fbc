package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type recordedCall struct {
	method  string
	payload map[string]any
}

func newAPIServer(t *testing.T, respond func(method string, payload map[string]any) (int, string)) (*Client, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /bot<token>/<method>
		parts := strings.Split(r.URL.Path, "/")
		method := parts[len(parts)-1]
		if parts[1] != "bottest-token" {
			t.Errorf("unexpected token path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		payload := map[string]any{}
		_ = json.Unmarshal(body, &payload)
		calls = append(calls, recordedCall{method: method, payload: payload})

		status, out := respond(method, payload)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(out))
	}))
	t.Cleanup(srv.Close)
	return NewClient("test-token", srv.Client()).WithBaseURL(srv.URL), &calls
}

func TestClientSendMessage(t *testing.T) {
	client, calls := newAPIServer(t, func(string, map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":{}}`
	})

	markup := &ReplyKeyboardMarkup{Keyboard: [][]KeyboardButton{{{Text: "Share", RequestContact: true}}}}
	if err := client.SendMessage(context.Background(), 42, "hello", markup); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if err := client.Notify(context.Background(), 43, "ping"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(*calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(*calls))
	}
	first := (*calls)[0]
	if first.method != "sendMessage" || first.payload["chat_id"] != float64(42) || first.payload["text"] != "hello" {
		t.Errorf("unexpected call %+v", first)
	}
	if _, ok := first.payload["reply_markup"]; !ok {
		t.Error("reply_markup missing")
	}
	if _, ok := (*calls)[1].payload["reply_markup"]; ok {
		t.Error("Notify should not send reply_markup")
	}
}

func TestClientAPIError(t *testing.T) {
	client, _ := newAPIServer(t, func(string, map[string]any) (int, string) {
		return http.StatusForbidden, `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`
	})

	err := client.SendMessage(context.Background(), 42, "hello", nil)
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error = %T %v, want *APIError", err, err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
}

func TestClientNotOK(t *testing.T) {
	client, _ := newAPIServer(t, func(string, map[string]any) (int, string) {
		return http.StatusOK, `{"ok":false,"description":"nope"}`
	})

	if err := client.DeleteWebhook(context.Background(), true); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("DeleteWebhook error = %v, want description", err)
	}
}

func TestClientEditNotModified(t *testing.T) {
	client, _ := newAPIServer(t, func(string, map[string]any) (int, string) {
		return http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: message is not modified"}`
	})

	if err := client.EditMessageText(context.Background(), 1, 2, "same", nil); err != nil {
		t.Errorf("EditMessageText error = %v, want nil", err)
	}
}

func TestClientGetMeAndUpdates(t *testing.T) {
	client, calls := newAPIServer(t, func(method string, _ map[string]any) (int, string) {
		switch method {
		case "getMe":
			return http.StatusOK, `{"ok":true,"result":{"id":1,"is_bot":true,"username":"magic_scout_bot"}}`
		case "getUpdates":
			return http.StatusOK, `{"ok":true,"result":[
				{"update_id":10,"message":{"message_id":1,"chat":{"id":5,"type":"private"},"from":{"id":5},"text":"/start ref_111"}},
				{"update_id":11,"callback_query":{"id":"cb1","from":{"id":111},"data":"menu"}}
			]}`
		}
		return http.StatusNotFound, ""
	})
	ctx := context.Background()

	me, err := client.GetMe(ctx)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.Username != "magic_scout_bot" {
		t.Errorf("Username = %q", me.Username)
	}

	updates, err := client.GetUpdates(ctx, 10, 90*time.Second, 500)
	if err != nil {
		t.Fatalf("GetUpdates: %v", err)
	}
	if len(updates) != 2 || updates[0].Message == nil || updates[1].CallbackQuery == nil {
		t.Fatalf("updates = %+v", updates)
	}
	if updates[1].CallbackQuery.Data != "menu" {
		t.Errorf("Data = %q", updates[1].CallbackQuery.Data)
	}

	payload := (*calls)[1].payload
	if payload["timeout"] != float64(50) || payload["limit"] != float64(100) || payload["offset"] != float64(10) {
		t.Errorf("getUpdates payload = %v", payload)
	}
}

func TestClientSetWebhook(t *testing.T) {
	client, calls := newAPIServer(t, func(string, map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":true}`
	})
	ctx := context.Background()

	if err := client.SetWebhook(ctx, "", "s", false); err == nil {
		t.Error("SetWebhook with empty url should fail")
	}
	if err := client.SetWebhook(ctx, "https://example.com/telegram/webhook", "s", true); err != nil {
		t.Fatalf("SetWebhook: %v", err)
	}
	payload := (*calls)[0].payload
	if payload["secret_token"] != "s" || payload["drop_pending_updates"] != true {
		t.Errorf("setWebhook payload = %v", payload)
	}
}
