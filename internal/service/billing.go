package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/veltasoft/backend/internal/domain"
	"github.com/veltasoft/backend/pkg/payment"
)

// provisionalPeriod is the billing window written on checkout completion,
// before the first invoice event delivers the provider's authoritative
// period end.
const provisionalPeriod = 30 * 24 * time.Hour

// BillingService reconciles payment-provider lifecycle events into the
// subscriptions table. Every write is keyed by the provider subscription id,
// so at-least-once webhook delivery is safe: redelivering any event re-applies
// the same keyed upsert or update.
type BillingService struct {
	provider  payment.Provider
	subs      SubscriptionStore
	companies CompanyStore

	now func() time.Time
}

// NewBillingService creates a BillingService.
func NewBillingService(provider payment.Provider, subs SubscriptionStore, companies CompanyStore) *BillingService {
	return &BillingService{
		provider:  provider,
		subs:      subs,
		companies: companies,
		now:       time.Now,
	}
}

// ProcessWebhook verifies and applies one webhook delivery.
//
// A returned error wrapping domain.ErrSignatureInvalid means the payload
// failed authentication and must be rejected without retry guidance. Any
// other error is a transient fault (provider fetch or persistence) and must
// surface as a 500 so the provider's retry-with-backoff redelivers the
// event. A nil return acknowledges the delivery, including deliberate
// no-ops: unknown event types and events that cannot be attributed to a
// company are logged and dropped rather than retried forever.
func (s *BillingService) ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	ev, err := s.provider.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return fmt.Errorf("%w: %v", domain.ErrSignatureInvalid, err)
		}
		return fmt.Errorf("webhook parse failed: %w", err)
	}

	switch ev.Kind {
	case payment.KindCheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, ev.Checkout)
	case payment.KindInvoicePaid:
		return s.applyInvoicePaid(ctx, ev.Invoice)
	case payment.KindInvoiceFailed:
		return s.applyInvoiceFailed(ctx, ev.Invoice)
	case payment.KindSubscriptionUpdated:
		return s.applySubscriptionUpdated(ctx, ev.Subscription)
	case payment.KindSubscriptionDeleted:
		return s.applySubscriptionDeleted(ctx, ev.Subscription)
	default:
		log.Printf("[billing] ignoring unrecognized webhook event")
		return nil
	}
}

// applyCheckoutCompleted creates (or refreshes) the subscription row for a
// completed checkout. The owning company comes from the customer's metadata;
// the plan comes from the session's line item. Invoice events have not fired
// yet, so the period end is a provisional window.
func (s *BillingService) applyCheckoutCompleted(ctx context.Context, ev *payment.CheckoutEvent) error {
	if ev.SubscriptionID == "" {
		log.Printf("[billing] checkout %s completed without a subscription, dropping", ev.SessionID)
		return nil
	}

	cust, err := s.provider.GetCustomer(ctx, ev.CustomerID)
	if err != nil {
		return fmt.Errorf("fetch customer %s: %w", ev.CustomerID, err)
	}

	companyID, err := s.resolveCompany(ctx, cust)
	if err != nil {
		if errors.Is(err, domain.ErrTenantResolution) {
			// Malformed or legacy customer. Acknowledge instead of
			// blocking the provider's delivery queue.
			log.Printf("[billing] dropping checkout %s: %v", ev.SessionID, err)
			return nil
		}
		return err
	}

	items, err := s.provider.ListCheckoutLineItems(ctx, ev.SessionID)
	if err != nil {
		return fmt.Errorf("fetch line items for %s: %w", ev.SessionID, err)
	}
	var plan string
	if len(items) > 0 {
		plan = items[0].PriceID
	}

	now := s.now().UTC()
	sub := &domain.Subscription{
		ID:                    domain.NewID(),
		CompanyID:             companyID,
		PaymentCustomerID:     ev.CustomerID,
		PaymentSubscriptionID: ev.SubscriptionID,
		Plan:                  plan,
		CurrentPeriodEnd:      now.Add(provisionalPeriod),
		Status:                domain.StatusActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.subs.UpsertByProviderSubscriptionID(ctx, sub); err != nil {
		return err
	}

	log.Printf("[billing] subscription %s activated for company %s (plan %s)", ev.SubscriptionID, companyID, plan)
	return nil
}

// applyInvoicePaid refreshes the period end from the provider's
// authoritative subscription record. Invoice events do not carry full
// subscription state, so the extra round-trip is deliberate.
func (s *BillingService) applyInvoicePaid(ctx context.Context, ev *payment.InvoiceEvent) error {
	if ev.SubscriptionID == "" {
		log.Printf("[billing] invoice %s paid without a subscription reference, dropping", ev.InvoiceID)
		return nil
	}

	info, err := s.provider.GetSubscription(ctx, ev.SubscriptionID)
	if err != nil {
		return fmt.Errorf("fetch subscription %s: %w", ev.SubscriptionID, err)
	}

	status := domain.StatusActive
	return s.patch(ctx, ev.SubscriptionID, domain.SubscriptionPatch{
		Status:           &status,
		CurrentPeriodEnd: &info.CurrentPeriodEnd,
	})
}

// applyInvoiceFailed marks the subscription past due. Plan and period are
// left untouched; the provider keeps retrying the charge.
func (s *BillingService) applyInvoiceFailed(ctx context.Context, ev *payment.InvoiceEvent) error {
	if ev.SubscriptionID == "" {
		log.Printf("[billing] invoice %s failed without a subscription reference, dropping", ev.InvoiceID)
		return nil
	}

	status := domain.StatusPastDue
	return s.patch(ctx, ev.SubscriptionID, domain.SubscriptionPatch{Status: &status})
}

// applySubscriptionUpdated refreshes plan, period end and status verbatim
// from the event payload.
func (s *BillingService) applySubscriptionUpdated(ctx context.Context, ev *payment.SubscriptionEvent) error {
	patch := domain.SubscriptionPatch{}
	if ev.Status != "" {
		patch.Status = &ev.Status
	}
	if ev.PriceID != "" {
		patch.Plan = &ev.PriceID
	}
	if ev.CurrentPeriodEnd.Unix() > 0 {
		patch.CurrentPeriodEnd = &ev.CurrentPeriodEnd
	}
	return s.patch(ctx, ev.SubscriptionID, patch)
}

// applySubscriptionDeleted records the cancellation. The row is never
// deleted; access runs out at the recorded period end.
func (s *BillingService) applySubscriptionDeleted(ctx context.Context, ev *payment.SubscriptionEvent) error {
	status := domain.StatusCanceled
	patch := domain.SubscriptionPatch{Status: &status}
	if ev.CurrentPeriodEnd.Unix() > 0 {
		patch.CurrentPeriodEnd = &ev.CurrentPeriodEnd
	}
	return s.patch(ctx, ev.SubscriptionID, patch)
}

// resolveCompany extracts and validates the company linkage from customer
// metadata. A missing or dangling company_id is a tenant-resolution failure,
// never propagated downstream as a bad id.
func (s *BillingService) resolveCompany(ctx context.Context, cust *payment.CustomerInfo) (string, error) {
	companyID := cust.Metadata["company_id"]
	if companyID == "" {
		return "", fmt.Errorf("%w: customer %s has no company_id metadata", domain.ErrTenantResolution, cust.ID)
	}

	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("look up company %s: %w", companyID, err)
	}
	if company == nil {
		return "", fmt.Errorf("%w: customer %s references unknown company %s", domain.ErrTenantResolution, cust.ID, companyID)
	}
	return companyID, nil
}

func (s *BillingService) patch(ctx context.Context, providerSubID string, patch domain.SubscriptionPatch) error {
	updated, err := s.subs.UpdateByProviderSubscriptionID(ctx, providerSubID, patch)
	if err != nil {
		return err
	}
	if !updated {
		// No row for this subscription id. Retrying will not create one,
		// so acknowledge and leave a trace for review.
		log.Printf("[billing] no subscription row for %s, event dropped", providerSubID)
	}
	return nil
}

// GetCompanySubscription returns the company's current subscription, or nil.
func (s *BillingService) GetCompanySubscription(ctx context.Context, companyID string) (*domain.Subscription, error) {
	return s.subs.FindByCompanyID(ctx, companyID)
}
