package domain

import "time"

// Subscription status values for well-known provider states. Provider-native
// strings such as "trialing" are stored verbatim when the provider reports
// them on a subscription update.
const (
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusTrialing = "trialing"
)

// Subscription is the persisted row tracking a company's plan, billing status
// and period. PaymentSubscriptionID is the provider subscription id and the
// idempotency key for all reconciliation writes: repeated delivery of the
// same webhook event must never create a duplicate row.
type Subscription struct {
	ID                    string    `json:"id"`
	CompanyID             string    `json:"companyId"`
	PaymentCustomerID     string    `json:"paymentCustomerId"`
	PaymentSubscriptionID string    `json:"paymentSubscriptionId"`
	Plan                  string    `json:"plan"` // provider price id
	CurrentPeriodEnd      time.Time `json:"currentPeriodEnd"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// SubscriptionPatch holds the fields a reconciliation branch may change.
// Nil fields are left untouched.
type SubscriptionPatch struct {
	Plan             *string
	CurrentPeriodEnd *time.Time
	Status           *string
}
