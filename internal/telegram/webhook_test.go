package telegram

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordingHandler struct {
	updates []Update
	err     error
}

func (h *recordingHandler) HandleUpdate(_ context.Context, update Update) error {
	h.updates = append(h.updates, update)
	return h.err
}

func TestWebhookUnauthorized(t *testing.T) {
	handler := NewWebhookHandler(&recordingHandler{}, "secret", nil)

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(`{"update_id":1}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Result().StatusCode)
	}
}

func TestWebhookSuccess(t *testing.T) {
	h := &recordingHandler{}
	handler := NewWebhookHandler(h, "secret", nil)

	payload := `{"update_id":1,"message":{"message_id":1,"chat":{"id":12,"type":"private"},"from":{"id":12},"text":"/start ref_111"}}`
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(payload))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Result().StatusCode)
	}
	if len(h.updates) != 1 || h.updates[0].Message.Chat.ID != 12 {
		t.Fatalf("updates = %+v", h.updates)
	}
}

func TestWebhookRejects(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		err    error
		want   int
	}{
		{"method", http.MethodGet, "", nil, http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "{", nil, http.StatusBadRequest},
		{"too large", http.MethodPost, `{"update_id":1,"x":"` + string(bytes.Repeat([]byte("a"), 2<<20)) + `"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewWebhookHandler(&recordingHandler{err: tt.err}, "", nil)
			req := httptest.NewRequest(tt.method, "/telegram/webhook", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			if rec.Result().StatusCode != tt.want {
				t.Errorf("status = %d, want %d", rec.Result().StatusCode, tt.want)
			}
		})
	}
}

func TestWebhookAcknowledgesHandlerError(t *testing.T) {
	h := &recordingHandler{err: errors.New("send failed")}
	handler := NewWebhookHandler(h, "", nil)

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(`{"update_id":1}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Result().StatusCode)
	}
	if len(h.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(h.updates))
	}
}

// flakySender fails the first SendMessage and delegates afterwards.
type flakySender struct {
	*fakeSender
	mu     sync.Mutex
	failed bool
}

func (f *flakySender) SendMessage(ctx context.Context, chatID int64, text string, markup any) error {
	f.mu.Lock()
	fail := !f.failed
	f.failed = true
	f.mu.Unlock()
	if fail {
		return errors.New("telegram: connection reset")
	}
	return f.fakeSender.SendMessage(ctx, chatID, text, markup)
}

func TestWebhookRedeliveryAppliesAnswerOnce(t *testing.T) {
	h := newBotHarness(t, nil)
	ctx := context.Background()
	if err := h.bot.HandleUpdate(ctx, textUpdate(555, "alice", "/start")); err != nil {
		t.Fatalf("start: %v", err)
	}

	h.bot.sender = &flakySender{fakeSender: h.sender}
	handler := NewWebhookHandler(h.bot, "", nil)

	payload := `{"update_id":42,"message":{"message_id":3,"chat":{"id":555,"type":"private"},"from":{"id":555,"username":"alice"},"text":"Alice Smith"}}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(payload))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Result().StatusCode != http.StatusOK {
			t.Fatalf("delivery %d: expected 200, got %d", i+1, rec.Result().StatusCode)
		}
	}

	for _, text := range []string{"15.08.2001", "B2", "Ryzen 5 3600", "RTX 2060", "yes", "+7 999 123 45 67"} {
		if err := h.bot.HandleUpdate(ctx, textUpdate(555, "alice", text)); err != nil {
			t.Fatalf("answer %q: %v", text, err)
		}
	}

	a, err := h.store.FindBySubmitter(ctx, 555)
	if err != nil {
		t.Fatalf("FindBySubmitter: %v", err)
	}
	if a.FullName != "Alice Smith" || a.DateOfBirth != "15.08.2001" || a.EnglishLevel != "B2" {
		t.Errorf("answers shifted: name=%q dob=%q english=%q", a.FullName, a.DateOfBirth, a.EnglishLevel)
	}
	if a.Phone != "79991234567" {
		t.Errorf("Phone = %q, want 79991234567", a.Phone)
	}
}
