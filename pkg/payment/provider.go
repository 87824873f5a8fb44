package payment

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidSignature is returned by VerifyWebhook when the payload cannot be
// authenticated against the configured signing secret.
var ErrInvalidSignature = errors.New("payment: invalid webhook signature")

// Provider abstracts the hosted payment backend (Stripe in production).
type Provider interface {
	// CreateCustomer registers a billing customer. Metadata is attached
	// verbatim and round-trips through webhook events.
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (customerID string, err error)
	// CreateCheckoutSession starts a provider-hosted subscription checkout
	// and returns the redirect URL.
	CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (url string, err error)
	// VerifyWebhook authenticates a raw webhook body against the signature
	// header and parses it into a typed event. Unrecognized event types
	// yield KindUnknown, not an error.
	VerifyWebhook(payload []byte, signatureHeader string) (*Event, error)
	// GetSubscription fetches the authoritative subscription state.
	GetSubscription(ctx context.Context, id string) (*SubscriptionInfo, error)
	// GetCustomer fetches a customer, including its metadata.
	GetCustomer(ctx context.Context, id string) (*CustomerInfo, error)
	// ListCheckoutLineItems returns the line items of a completed checkout.
	ListCheckoutLineItems(ctx context.Context, sessionID string) ([]LineItem, error)
}

// EventKind discriminates the webhook event union.
type EventKind string

const (
	KindUnknown             EventKind = "unknown"
	KindCheckoutCompleted   EventKind = "checkout_completed"
	KindInvoicePaid         EventKind = "invoice_paid"
	KindInvoiceFailed       EventKind = "invoice_failed"
	KindSubscriptionUpdated EventKind = "subscription_updated"
	KindSubscriptionDeleted EventKind = "subscription_deleted"
)

// Event is a verified webhook event. Exactly one payload field is set for
// the matching kind; all are nil for KindUnknown.
type Event struct {
	Kind         EventKind
	Checkout     *CheckoutEvent
	Invoice      *InvoiceEvent
	Subscription *SubscriptionEvent
}

// CheckoutEvent carries the fields of a completed checkout session.
type CheckoutEvent struct {
	SessionID      string
	CustomerID     string
	SubscriptionID string
}

// InvoiceEvent carries the fields of an invoice payment event.
type InvoiceEvent struct {
	InvoiceID      string
	CustomerID     string
	SubscriptionID string
}

// SubscriptionEvent carries the subscription object embedded in a
// subscription lifecycle event.
type SubscriptionEvent struct {
	SubscriptionID   string
	Status           string
	PriceID          string
	CurrentPeriodEnd time.Time
}

// SubscriptionInfo is the authoritative subscription state fetched from the
// provider.
type SubscriptionInfo struct {
	ID               string
	Status           string
	PriceID          string
	CurrentPeriodEnd time.Time
}

// CustomerInfo is a billing customer with its metadata.
type CustomerInfo struct {
	ID       string
	Email    string
	Metadata map[string]string
}

// LineItem is a single checkout line item.
type LineItem struct {
	PriceID string
}
