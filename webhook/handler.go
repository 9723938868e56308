package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"
)

// MaxBodyBytes bounds the size of a delivery accepted by Handler.
const MaxBodyBytes = 1 << 20

// HandlerFunc processes a verified event.
type HandlerFunc func(ctx context.Context, e *Event) error

// Handler returns an http.Handler that verifies and decodes deliveries before
// passing them to fn. It answers 204 on success, 401 on a bad signature,
// 400 on an unreadable body and 500 when fn fails. logger may be nil.
func Handler(secret string, fn HandlerFunc, logger hclog.Logger) http.Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		if err != nil {
			logger.Warn("read webhook body", "error", err)
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}

		event, err := VerifyAndParse(payload, r.Header.Get(SignatureHeader), secret)
		switch {
		case errors.Is(err, ErrInvalidSignature):
			logger.Warn("rejected webhook delivery", "reason", "signature mismatch")
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		case err != nil:
			logger.Warn("rejected webhook delivery", "error", err)
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		if err := fn(r.Context(), event); err != nil {
			logger.Error("webhook handler failed", "event", event.Event, "webhook_id", event.WebhookID, "error", err)
			http.Error(w, "handler failed", http.StatusInternalServerError)
			return
		}

		logger.Debug("webhook delivery processed", "event", event.Event, "webhook_id", event.WebhookID)
		w.WriteHeader(http.StatusNoContent)
	})
}
