package handler

import (
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veltasoft/backend/internal/repository"
	"github.com/veltasoft/backend/internal/service"
)

// AdminHandler serves the back-office endpoints.
type AdminHandler struct {
	db        *pgxpool.Pool
	authSvc   *service.AuthService
	companies *repository.CompanyRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *pgxpool.Pool, authSvc *service.AuthService, companies *repository.CompanyRepository) *AdminHandler {
	return &AdminHandler{db: db, authSvc: authSvc, companies: companies}
}

// GetStats returns system-wide metrics.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var companiesCount, usersCount, activeCount, pastDueCount int

	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM companies").Scan(&companiesCount); err != nil {
		log.Printf("Failed to count companies: %v", err)
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM users").Scan(&usersCount); err != nil {
		log.Printf("Failed to count users: %v", err)
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM subscriptions WHERE status = 'active'").Scan(&activeCount); err != nil {
		log.Printf("Failed to count active subscriptions: %v", err)
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM subscriptions WHERE status = 'past_due'").Scan(&pastDueCount); err != nil {
		log.Printf("Failed to count past due subscriptions: %v", err)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"companies":            companiesCount,
		"users":                usersCount,
		"activeSubscriptions":  activeCount,
		"pastDueSubscriptions": pastDueCount,
	})
}

// ListCompanies returns all companies with their subscription state.
func (h *AdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.ListOverviews(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, companies)
}

// ListUsers returns all users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authSvc.ListUsers(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, users)
}
