package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veltasoft/backend/internal/domain"
)

// CompanyRepository handles database operations for companies.
type CompanyRepository struct {
	db *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts a new company.
func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	query := `
		INSERT INTO companies (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

// FindByID returns a company by ID, or nil if it does not exist.
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT id, name, created_at, updated_at FROM companies WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)

	var c domain.Company
	err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return &c, nil
}

// ListOverviews returns all companies joined with their latest subscription,
// for the admin back-office.
func (r *CompanyRepository) ListOverviews(ctx context.Context) ([]*domain.CompanyOverview, error) {
	query := `
		SELECT c.id, c.name, c.created_at, c.updated_at,
		       s.plan, s.status, s.current_period_end
		FROM companies c
		LEFT JOIN LATERAL (
			SELECT plan, status, current_period_end
			FROM subscriptions WHERE company_id = c.id
			ORDER BY created_at DESC LIMIT 1
		) s ON TRUE
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var out []*domain.CompanyOverview
	for rows.Next() {
		var o domain.CompanyOverview
		var plan, status *string
		var periodEnd *time.Time
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt, &plan, &status, &periodEnd); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		if plan != nil {
			o.Plan = *plan
		}
		if status != nil {
			o.Status = *status
		}
		o.PeriodEnd = periodEnd
		out = append(out, &o)
	}
	return out, nil
}
