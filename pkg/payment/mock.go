package payment

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a test double that records calls and returns configurable
// results.
type MockProvider struct {
	mu sync.Mutex

	// Customers maps customerID -> CustomerInfo.
	Customers map[string]*CustomerInfo
	// Subscriptions maps subscriptionID -> SubscriptionInfo.
	Subscriptions map[string]*SubscriptionInfo
	// SessionLineItems maps sessionID -> line items.
	SessionLineItems map[string][]LineItem
	// Events maps signatureHeader -> the event VerifyWebhook returns,
	// simulating a verified payload.
	Events map[string]*Event

	// CheckoutURL is returned from CreateCheckoutSession.
	CheckoutURL string
	// CreatedCustomers collects (email, metadata) pairs.
	CreatedCustomers []CustomerInfo
	// CreatedSessions collects customer ids passed to CreateCheckoutSession.
	CreatedSessions []string

	// Error fields allow tests to inject failures.
	CreateCustomerErr  error
	CreateSessionErr   error
	GetSubscriptionErr error
	GetCustomerErr     error
	ListLineItemsErr   error

	nextCustomerSeq int
}

// NewMockProvider creates a MockProvider ready for use.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Customers:        make(map[string]*CustomerInfo),
		Subscriptions:    make(map[string]*SubscriptionInfo),
		SessionLineItems: make(map[string][]LineItem),
		Events:           make(map[string]*Event),
		CheckoutURL:      "https://checkout.example.com/pay/cs_mock",
	}
}

func (m *MockProvider) CreateCustomer(_ context.Context, email string, metadata map[string]string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateCustomerErr != nil {
		return "", m.CreateCustomerErr
	}

	m.nextCustomerSeq++
	id := fmt.Sprintf("cus_mock_%d", m.nextCustomerSeq)
	info := &CustomerInfo{ID: id, Email: email, Metadata: metadata}
	m.Customers[id] = info
	m.CreatedCustomers = append(m.CreatedCustomers, *info)
	return id, nil
}

func (m *MockProvider) CreateCheckoutSession(_ context.Context, customerID, _, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateSessionErr != nil {
		return "", m.CreateSessionErr
	}
	if _, ok := m.Customers[customerID]; !ok {
		return "", fmt.Errorf("payment: unknown customer %s", customerID)
	}
	m.CreatedSessions = append(m.CreatedSessions, customerID)
	return m.CheckoutURL, nil
}

// VerifyWebhook looks the signature header up in Events; unregistered
// signatures fail verification like a tampered payload would.
func (m *MockProvider) VerifyWebhook(_ []byte, signatureHeader string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.Events[signatureHeader]
	if !ok {
		return nil, ErrInvalidSignature
	}
	return ev, nil
}

func (m *MockProvider) GetSubscription(_ context.Context, id string) (*SubscriptionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetSubscriptionErr != nil {
		return nil, m.GetSubscriptionErr
	}
	sub, ok := m.Subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("payment: subscription %s not found", id)
	}
	return sub, nil
}

func (m *MockProvider) GetCustomer(_ context.Context, id string) (*CustomerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetCustomerErr != nil {
		return nil, m.GetCustomerErr
	}
	c, ok := m.Customers[id]
	if !ok {
		return nil, fmt.Errorf("payment: customer %s not found", id)
	}
	return c, nil
}

func (m *MockProvider) ListCheckoutLineItems(_ context.Context, sessionID string) ([]LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListLineItemsErr != nil {
		return nil, m.ListLineItemsErr
	}
	return m.SessionLineItems[sessionID], nil
}
