package telegram

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler checks Telegram webhook requests and hands updates to the handler.
type WebhookHandler struct {
	handler      UpdateHandler
	secretToken  string
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewWebhookHandler creates a webhook handler that checks the Telegram secret token.
func NewWebhookHandler(handler UpdateHandler, secretToken string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		handler:      handler,
		secretToken:  secretToken,
		maxBodyBytes: 1 << 20,
		logger:       logger,
	}
}

// ServeHTTP implements http.Handler for Telegram webhook callbacks.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if h.secretToken != "" && r.Header.Get(telegramSecretHeader) != h.secretToken {
		h.logger.Warn("unauthorized webhook request", zap.String("remote_addr", r.RemoteAddr))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	payload, err := io.ReadAll(body)
	if err != nil {
		h.logger.Warn("failed to read webhook body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var update Update
	if err := json.Unmarshal(payload, &update); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// The update is acknowledged even when its reply could not be delivered:
	// Telegram redelivers non-2xx updates and the answer has already been applied.
	if err := h.handler.HandleUpdate(r.Context(), update); err != nil {
		h.logger.Error("failed to handle telegram update", zap.Int64("update_id", update.UpdateID), zap.Error(err))
	}

	w.WriteHeader(http.StatusOK)
}
