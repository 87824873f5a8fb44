package handler

import (
	"net/http"

	"github.com/veltasoft/backend/internal/contextkeys"
	"github.com/veltasoft/backend/internal/service"
)

// SubscriptionHandler exposes the caller's subscription state.
type SubscriptionHandler struct {
	billing *service.BillingService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(billing *service.BillingService) *SubscriptionHandler {
	return &SubscriptionHandler{billing: billing}
}

// GetCurrent handles GET /api/subscription.
func (h *SubscriptionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	companyID, ok := r.Context().Value(contextkeys.CompanyID).(string)
	if !ok || companyID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "no company in session"})
		return
	}

	sub, err := h.billing.GetCompanySubscription(r.Context(), companyID)
	if err != nil {
		Error(w, err)
		return
	}

	if sub == nil {
		JSON(w, http.StatusOK, map[string]interface{}{"status": "none"})
		return
	}

	JSON(w, http.StatusOK, sub)
}
