package service

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/veltasoft/backend/internal/domain"
	"github.com/veltasoft/backend/pkg/payment"
	"golang.org/x/crypto/bcrypt"
)

// RegistrationService implements the self-service signup flow: it creates
// the company, its admin user, the billing customer and a checkout session,
// and hands the checkout URL back to the frontend. The subscription row
// itself is created later by the webhook reconciler once checkout completes.
type RegistrationService struct {
	companies  CompanyStore
	users      UserStore
	provider   payment.Provider
	mailer     Mailer // optional
	validate   *validator.Validate
	planPrices map[string]string // plan id -> provider price id
	successURL string
	cancelURL  string
}

// NewRegistrationService creates a RegistrationService. mailer may be nil.
func NewRegistrationService(companies CompanyStore, users UserStore, provider payment.Provider, mailer Mailer, planPrices map[string]string, successURL, cancelURL string) *RegistrationService {
	return &RegistrationService{
		companies:  companies,
		users:      users,
		provider:   provider,
		mailer:     mailer,
		validate:   validator.New(),
		planPrices: planPrices,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// Register handles POST /api/register. Validation happens before any side
// effect: an invalid plan creates no company, user, customer or session.
func (s *RegistrationService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.RegisterResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	priceID, ok := s.planPrices[req.Plan]
	if domain.PlanByID(req.Plan) == nil || !ok || priceID == "" {
		return nil, domain.ErrBadRequest("unknown plan: " + req.Plan)
	}

	exists, err := s.users.Exists(ctx, req.Email)
	if err != nil {
		return nil, domain.ErrInternal("failed to check email", err)
	}
	if exists {
		return nil, domain.ErrBadRequest("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("failed to hash password", err)
	}

	now := time.Now()
	company := &domain.Company{
		ID:        domain.NewID(),
		Name:      req.CompanyName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, domain.ErrInternal("failed to create company", err)
	}

	owner := &domain.User{
		ID:        domain.NewID(),
		CompanyID: company.ID,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      domain.RoleOwner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, owner); err != nil {
		return nil, domain.ErrInternal("failed to create user", err)
	}

	// The webhook reconciler resolves the company from this metadata when
	// checkout completes.
	customerID, err := s.provider.CreateCustomer(ctx, req.Email, map[string]string{
		"company_id": company.ID,
	})
	if err != nil {
		return nil, domain.ErrBadRequest("failed to create billing customer")
	}

	checkoutURL, err := s.provider.CreateCheckoutSession(ctx, customerID, priceID, s.successURL, s.cancelURL)
	if err != nil {
		return nil, domain.ErrBadRequest("failed to start checkout")
	}

	if s.mailer != nil {
		go func(email, name string) {
			if err := s.mailer.SendWelcomeEmail(email, name); err != nil {
				log.Printf("[register] welcome email to %s failed: %v", email, err)
			}
		}(req.Email, req.CompanyName)
	}

	log.Printf("[register] company %s (%s) registered on plan %s", company.ID, company.Name, req.Plan)
	return &domain.RegisterResponse{
		CheckoutURL: checkoutURL,
		CompanyID:   company.ID,
	}, nil
}
