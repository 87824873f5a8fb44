package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veltasoft/backend/internal/domain"
)

// SubscriptionRepository handles database operations for subscriptions. The
// provider subscription id is the idempotency key: all reconciliation writes
// target the row it identifies, so concurrent redelivery cannot duplicate
// rows. Period-end writes never move the stored value backward; a stale
// event replayed after a newer one leaves the period untouched.
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// UpsertByProviderSubscriptionID inserts the subscription or, if a row with
// the same provider subscription id exists, refreshes its mutable fields.
func (r *SubscriptionRepository) UpsertByProviderSubscriptionID(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions
			(id, company_id, payment_customer_id, payment_subscription_id, plan, current_period_end, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (payment_subscription_id) DO UPDATE SET
			company_id          = EXCLUDED.company_id,
			payment_customer_id = EXCLUDED.payment_customer_id,
			plan                = EXCLUDED.plan,
			current_period_end  = GREATEST(subscriptions.current_period_end, EXCLUDED.current_period_end),
			status              = EXCLUDED.status,
			updated_at          = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		sub.ID, sub.CompanyID, sub.PaymentCustomerID, sub.PaymentSubscriptionID,
		sub.Plan, sub.CurrentPeriodEnd, sub.Status, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// UpdateByProviderSubscriptionID applies the non-nil patch fields to the row
// keyed by the provider subscription id. It reports whether a row matched.
func (r *SubscriptionRepository) UpdateByProviderSubscriptionID(ctx context.Context, providerSubID string, patch domain.SubscriptionPatch) (bool, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{providerSubID}

	if patch.Plan != nil {
		args = append(args, *patch.Plan)
		sets = append(sets, fmt.Sprintf("plan = $%d", len(args)))
	}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.CurrentPeriodEnd != nil {
		args = append(args, *patch.CurrentPeriodEnd)
		sets = append(sets, fmt.Sprintf("current_period_end = GREATEST(current_period_end, $%d)", len(args)))
	}

	query := fmt.Sprintf(
		"UPDATE subscriptions SET %s WHERE payment_subscription_id = $1",
		strings.Join(sets, ", "),
	)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update subscription: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindByProviderSubscriptionID returns the subscription keyed by the provider
// subscription id, or nil if none exists.
func (r *SubscriptionRepository) FindByProviderSubscriptionID(ctx context.Context, providerSubID string) (*domain.Subscription, error) {
	query := selectSubscription + ` WHERE payment_subscription_id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, providerSubID))
}

// FindByCompanyID returns the company's most recent subscription, or nil.
func (r *SubscriptionRepository) FindByCompanyID(ctx context.Context, companyID string) (*domain.Subscription, error) {
	query := selectSubscription + ` WHERE company_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanSubscription(r.db.QueryRow(ctx, query, companyID))
}

const selectSubscription = `
	SELECT id, company_id, payment_customer_id, payment_subscription_id, plan, current_period_end, status, created_at, updated_at
	FROM subscriptions`

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var s domain.Subscription
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.PaymentCustomerID, &s.PaymentSubscriptionID,
		&s.Plan, &s.CurrentPeriodEnd, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return &s, nil
}
