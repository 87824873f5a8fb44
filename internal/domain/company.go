package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a customer organization ("empresa"). It is created once
// by the registration flow and owns the admin users and the subscription.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RegisterRequest is the validated input for the self-service signup flow.
type RegisterRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=2,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Plan        string `json:"plan" validate:"required"`
}

// RegisterResponse carries the checkout redirect URL back to the frontend.
type RegisterResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	CompanyID   string `json:"companyId"`
}

// CompanyOverview is the admin back-office view of a company with its
// subscription state, if any.
type CompanyOverview struct {
	Company
	Plan      string     `json:"plan,omitempty"`
	Status    string     `json:"status,omitempty"`
	PeriodEnd *time.Time `json:"periodEnd,omitempty"`
}

// NewID generates a new UUID for any entity.
func NewID() string {
	return uuid.New().String()
}
