package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/veltasoft/backend/internal/domain"
	"github.com/veltasoft/backend/internal/service"
)

// maxWebhookBody caps webhook payload reads. Stripe events are small; this
// guards the unauthenticated endpoint against oversized bodies.
const maxWebhookBody = 1 << 20

// WebhookHandler receives payment-provider webhook deliveries.
type WebhookHandler struct {
	billing *service.BillingService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(billing *service.BillingService) *WebhookHandler {
	return &WebhookHandler{billing: billing}
}

// HandlePayment handles POST /api/webhooks/payment. The body must stay raw
// for signature verification. A 500 tells the provider to redeliver; a 400
// rejects a payload that failed authentication.
func (h *WebhookHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := h.billing.ProcessWebhook(r.Context(), body, signature); err != nil {
		if errors.Is(err, domain.ErrSignatureInvalid) {
			log.Printf("[webhook] rejected delivery: %v", err)
			JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
			return
		}
		log.Printf("[webhook] processing failed: %v", err)
		JSON(w, http.StatusInternalServerError, map[string]string{"error": "event processing failed"})
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"received": true})
}
