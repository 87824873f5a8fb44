package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltasoft/backend/internal/domain"
	"github.com/veltasoft/backend/pkg/payment"
	"golang.org/x/crypto/bcrypt"
)

type registrationFixture struct {
	svc       *RegistrationService
	provider  *payment.MockProvider
	companies *fakeCompanyStore
	users     *fakeUserStore
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()

	provider := payment.NewMockProvider()
	companies := newFakeCompanyStore()
	users := newFakeUserStore()

	planPrices := map[string]string{
		"starter": "price_starter",
		"pro":     "price_pro",
	}
	svc := NewRegistrationService(companies, users, provider, nil, planPrices,
		"https://example.com/success", "https://example.com/cancel")

	return &registrationFixture{svc: svc, provider: provider, companies: companies, users: users}
}

func validRegisterRequest() *domain.RegisterRequest {
	return &domain.RegisterRequest{
		CompanyName: "Acme Ltda",
		Email:       "owner@acme.test",
		Password:    "correct-horse",
		Plan:        "starter",
	}
}

func TestRegister_Success(t *testing.T) {
	f := newRegistrationFixture(t)

	resp, err := f.svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, f.provider.CheckoutURL, resp.CheckoutURL)
	assert.NotEmpty(t, resp.CompanyID)

	company, err := f.companies.FindByID(context.Background(), resp.CompanyID)
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, "Acme Ltda", company.Name)

	user, err := f.users.FindByEmail(context.Background(), "owner@acme.test")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, domain.RoleOwner, user.Role)
	assert.Equal(t, resp.CompanyID, user.CompanyID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct-horse")))

	require.Len(t, f.provider.CreatedCustomers, 1)
	assert.Equal(t, resp.CompanyID, f.provider.CreatedCustomers[0].Metadata["company_id"],
		"the webhook reconciler depends on this metadata linkage")
	assert.Len(t, f.provider.CreatedSessions, 1)
}

func TestRegister_UnknownPlanHasNoSideEffects(t *testing.T) {
	f := newRegistrationFixture(t)

	req := validRegisterRequest()
	req.Plan = "platinum"

	_, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)

	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	assert.Empty(t, f.companies.companies, "no company may be created")
	assert.Empty(t, f.users.byEmail, "no user may be created")
	assert.Empty(t, f.provider.CreatedCustomers, "no billing customer may be created")
	assert.Empty(t, f.provider.CreatedSessions, "no checkout session may be created")
}

func TestRegister_PlanWithoutConfiguredPriceIsRejected(t *testing.T) {
	f := newRegistrationFixture(t)

	// "business" is in the catalog but has no configured price id.
	req := validRegisterRequest()
	req.Plan = "business"

	_, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Empty(t, f.companies.companies)
}

func TestRegister_InvalidInput(t *testing.T) {
	f := newRegistrationFixture(t)

	tests := []struct {
		name   string
		mutate func(*domain.RegisterRequest)
	}{
		{"missing email", func(r *domain.RegisterRequest) { r.Email = "" }},
		{"malformed email", func(r *domain.RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *domain.RegisterRequest) { r.Password = "short" }},
		{"missing company name", func(r *domain.RegisterRequest) { r.CompanyName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(req)

			_, err := f.svc.Register(context.Background(), req)
			require.Error(t, err)
			appErr, ok := domain.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newRegistrationFixture(t)

	_, err := f.svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	req := validRegisterRequest()
	req.CompanyName = "Second Co"
	_, err = f.svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestRegister_ProviderFailureIsClientError(t *testing.T) {
	f := newRegistrationFixture(t)
	f.provider.CreateCustomerErr = errors.New("stripe is down")

	_, err := f.svc.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Empty(t, f.provider.CreatedSessions, "checkout must not start after a customer failure")
}
