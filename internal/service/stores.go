package service

import (
	"context"

	"github.com/veltasoft/backend/internal/domain"
)

// Store interfaces are declared here, at the point of use, so tests can
// substitute in-memory fakes for the pgx-backed repositories.

// CompanyStore persists companies.
type CompanyStore interface {
	Create(ctx context.Context, c *domain.Company) error
	FindByID(ctx context.Context, id string) (*domain.Company, error)
}

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// SubscriptionStore persists subscription records keyed by the provider
// subscription id.
type SubscriptionStore interface {
	UpsertByProviderSubscriptionID(ctx context.Context, sub *domain.Subscription) error
	UpdateByProviderSubscriptionID(ctx context.Context, providerSubID string, patch domain.SubscriptionPatch) (bool, error)
	FindByProviderSubscriptionID(ctx context.Context, providerSubID string) (*domain.Subscription, error)
	FindByCompanyID(ctx context.Context, companyID string) (*domain.Subscription, error)
}

// Mailer sends transactional email. Delivery is best effort and never blocks
// a request.
type Mailer interface {
	SendWelcomeEmail(to, companyName string) error
}
