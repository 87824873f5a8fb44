package domain

import "time"

// User roles. Platform admins run the back-office; owners are the admin
// contact created for a company at registration.
const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// User represents a registered user scoped to a company. Platform admins
// have an empty CompanyID.
type User struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginRequest is the validated input for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse is the API response after successful login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser is the user info returned after login.
type LoginUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CompanyID string `json:"companyId,omitempty"`
}

// JWTClaims represents the JWT payload.
type JWTClaims struct {
	Sub       string `json:"sub"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId"`
}

// CreateUserRequest is the validated input for creating a user (back-office).
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"omitempty,oneof=owner admin"`
	CompanyID string `json:"companyId" validate:"required_unless=Role admin"`
}

// UserResponse is the safe API response for a user (no password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
