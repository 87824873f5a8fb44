package service

import (
	"context"
	"sync"

	"github.com/veltasoft/backend/internal/domain"
)

// In-memory store fakes mirroring the repository semantics, including the
// upsert conflict behavior and the period-end monotonicity guard.

type fakeCompanyStore struct {
	mu        sync.Mutex
	companies map[string]*domain.Company
	createErr error
	findErr   error
}

func newFakeCompanyStore() *fakeCompanyStore {
	return &fakeCompanyStore{companies: make(map[string]*domain.Company)}
}

func (f *fakeCompanyStore) Create(_ context.Context, c *domain.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *c
	f.companies[c.ID] = &cp
	return nil
}

func (f *fakeCompanyStore) FindByID(_ context.Context, id string) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	c, ok := f.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type fakeUserStore struct {
	mu        sync.Mutex
	byEmail   map[string]*domain.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Exists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserStore) ListAll(_ context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.User
	for _, u := range f.byEmail {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.byEmail {
		if u.ID == id {
			delete(f.byEmail, email)
			return nil
		}
	}
	return nil
}

type fakeSubscriptionStore struct {
	mu sync.Mutex
	// rows keyed by the provider subscription id.
	rows      map[string]*domain.Subscription
	writes    int
	upsertErr error
	updateErr error
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{rows: make(map[string]*domain.Subscription)}
}

func (f *fakeSubscriptionStore) UpsertByProviderSubscriptionID(_ context.Context, sub *domain.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.writes++

	existing, ok := f.rows[sub.PaymentSubscriptionID]
	if !ok {
		cp := *sub
		f.rows[sub.PaymentSubscriptionID] = &cp
		return nil
	}
	// Conflict path: id and created_at stay, period end never moves back.
	existing.CompanyID = sub.CompanyID
	existing.PaymentCustomerID = sub.PaymentCustomerID
	existing.Plan = sub.Plan
	existing.Status = sub.Status
	if sub.CurrentPeriodEnd.After(existing.CurrentPeriodEnd) {
		existing.CurrentPeriodEnd = sub.CurrentPeriodEnd
	}
	return nil
}

func (f *fakeSubscriptionStore) UpdateByProviderSubscriptionID(_ context.Context, providerSubID string, patch domain.SubscriptionPatch) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return false, f.updateErr
	}

	row, ok := f.rows[providerSubID]
	if !ok {
		return false, nil
	}
	f.writes++
	if patch.Plan != nil {
		row.Plan = *patch.Plan
	}
	if patch.Status != nil {
		row.Status = *patch.Status
	}
	if patch.CurrentPeriodEnd != nil && patch.CurrentPeriodEnd.After(row.CurrentPeriodEnd) {
		row.CurrentPeriodEnd = *patch.CurrentPeriodEnd
	}
	return true, nil
}

func (f *fakeSubscriptionStore) FindByProviderSubscriptionID(_ context.Context, providerSubID string) (*domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[providerSubID]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeSubscriptionStore) FindByCompanyID(_ context.Context, companyID string) (*domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.CompanyID == companyID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}
