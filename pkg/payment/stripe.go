package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeProvider implements Provider using the Stripe API.
type StripeProvider struct {
	webhookSecret string
}

// NewStripeProvider creates a StripeProvider. The API key is a Stripe secret
// key (sk_test_... / sk_live_...); the webhook secret is the endpoint signing
// secret (whsec_...).
func NewStripeProvider(apiKey, webhookSecret string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{webhookSecret: webhookSecret}
}

// CreateCustomer creates a Stripe customer carrying the given metadata.
func (p *StripeProvider) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{
		Email:    stripe.String(email),
		Metadata: metadata,
	}
	params.Context = ctx

	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("payment: create stripe customer: %w", err)
	}
	return c.ID, nil
}

// CreateCheckoutSession creates a subscription-mode checkout session and
// returns its hosted URL.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("payment: create checkout session: %w", err)
	}
	return s.URL, nil
}

// GetSubscription fetches a subscription. Period end and price live on the
// first subscription item.
func (p *StripeProvider) GetSubscription(ctx context.Context, id string) (*SubscriptionInfo, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	s, err := subscription.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("payment: get subscription %s: %w", id, err)
	}

	info := &SubscriptionInfo{ID: s.ID, Status: string(s.Status)}
	if s.Items != nil && len(s.Items.Data) > 0 {
		item := s.Items.Data[0]
		info.CurrentPeriodEnd = time.Unix(item.CurrentPeriodEnd, 0).UTC()
		if item.Price != nil {
			info.PriceID = item.Price.ID
		}
	}
	return info, nil
}

// GetCustomer fetches a customer with its metadata.
func (p *StripeProvider) GetCustomer(ctx context.Context, id string) (*CustomerInfo, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	c, err := customer.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("payment: get customer %s: %w", id, err)
	}
	return &CustomerInfo{ID: c.ID, Email: c.Email, Metadata: c.Metadata}, nil
}

// ListCheckoutLineItems returns the line items of a checkout session.
func (p *StripeProvider) ListCheckoutLineItems(ctx context.Context, sessionID string) ([]LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx

	var items []LineItem
	iter := session.ListLineItems(params)
	for iter.Next() {
		li := iter.LineItem()
		if li.Price != nil {
			items = append(items, LineItem{PriceID: li.Price.ID})
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("payment: list line items for %s: %w", sessionID, err)
	}
	return items, nil
}

// VerifyWebhook authenticates the raw body against the Stripe-Signature
// header and maps the event onto the typed union. The raw body must be used
// unparsed: any re-serialization breaks the signature.
func (p *StripeProvider) VerifyWebhook(payload []byte, signatureHeader string) (*Event, error) {
	// Events are pinned to the Stripe account's API version, which usually
	// trails the SDK's, so version mismatch is not treated as an error.
	ev, err := webhook.ConstructEventWithOptions(payload, signatureHeader, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch ev.Type {
	case "checkout.session.completed":
		var s checkoutSessionJSON
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("payment: parse checkout session event: %w", err)
		}
		return &Event{
			Kind: KindCheckoutCompleted,
			Checkout: &CheckoutEvent{
				SessionID:      s.ID,
				CustomerID:     s.Customer,
				SubscriptionID: s.Subscription,
			},
		}, nil

	case "invoice.paid", "invoice.payment_succeeded", "invoice.payment_failed":
		var in invoiceJSON
		if err := json.Unmarshal(ev.Data.Raw, &in); err != nil {
			return nil, fmt.Errorf("payment: parse invoice event: %w", err)
		}
		kind := KindInvoicePaid
		if ev.Type == "invoice.payment_failed" {
			kind = KindInvoiceFailed
		}
		return &Event{
			Kind: kind,
			Invoice: &InvoiceEvent{
				InvoiceID:      in.ID,
				CustomerID:     in.Customer,
				SubscriptionID: in.subscriptionID(),
			},
		}, nil

	case "customer.subscription.updated", "customer.subscription.deleted":
		var s subscriptionJSON
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("payment: parse subscription event: %w", err)
		}
		kind := KindSubscriptionUpdated
		if ev.Type == "customer.subscription.deleted" {
			kind = KindSubscriptionDeleted
		}
		return &Event{
			Kind: kind,
			Subscription: &SubscriptionEvent{
				SubscriptionID:   s.ID,
				Status:           s.Status,
				PriceID:          s.priceID(),
				CurrentPeriodEnd: time.Unix(s.periodEnd(), 0).UTC(),
			},
		}, nil

	default:
		// Forward compatibility: new provider event types are acknowledged
		// as no-ops instead of failing delivery.
		return &Event{Kind: KindUnknown}, nil
	}
}

// Webhook payloads are decoded into local structs rather than the SDK's API
// types: event bodies carry bare object ids where the API types expect
// expandable objects, and the period-end field has moved between the
// subscription and its items across API versions.

type checkoutSessionJSON struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
}

type invoiceJSON struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
	Parent       struct {
		SubscriptionDetails struct {
			Subscription string `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

func (in invoiceJSON) subscriptionID() string {
	if in.Subscription != "" {
		return in.Subscription
	}
	return in.Parent.SubscriptionDetails.Subscription
}

type subscriptionJSON struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
	Items            struct {
		Data []struct {
			CurrentPeriodEnd int64 `json:"current_period_end"`
			Price            struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

func (s subscriptionJSON) priceID() string {
	if len(s.Items.Data) > 0 {
		return s.Items.Data[0].Price.ID
	}
	return ""
}

func (s subscriptionJSON) periodEnd() int64 {
	if s.CurrentPeriodEnd != 0 {
		return s.CurrentPeriodEnd
	}
	if len(s.Items.Data) > 0 {
		return s.Items.Data[0].CurrentPeriodEnd
	}
	return 0
}
