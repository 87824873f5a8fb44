package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltasoft/backend/internal/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	svc := NewAuthService("test-secret", "admin@veltasoft.dev", "admin-password", users)
	require.NoError(t, svc.SeedAdmin(context.Background()))
	return svc, users
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	svc, users := newAuthFixture(t)
	require.NoError(t, svc.SeedAdmin(context.Background()))

	admin, err := users.FindByEmail(context.Background(), "admin@veltasoft.dev")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Empty(t, admin.CompanyID, "platform admin belongs to no company")
	assert.Len(t, users.byEmail, 1)
}

func TestLoginAndVerifyToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.CreateUser(context.Background(), &domain.CreateUserRequest{
		CompanyID: "t_1",
		Email:     "owner@acme.test",
		Password:  "correct-horse",
		Role:      domain.RoleOwner,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), "owner@acme.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "t_1", resp.User.CompanyID)

	claims, err := svc.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Sub)
	assert.Equal(t, "owner@acme.test", claims.Email)
	assert.Equal(t, domain.RoleOwner, claims.Role)
	assert.Equal(t, "t_1", claims.CompanyID)
}

func TestCreateUser_InvalidInput(t *testing.T) {
	svc, users := newAuthFixture(t)

	tests := []struct {
		name string
		req  domain.CreateUserRequest
	}{
		{"empty email", domain.CreateUserRequest{CompanyID: "t_1", Email: "", Password: "correct-horse"}},
		{"malformed email", domain.CreateUserRequest{CompanyID: "t_1", Email: "not-an-email", Password: "correct-horse"}},
		{"short password", domain.CreateUserRequest{CompanyID: "t_1", Email: "owner@acme.test", Password: "xx"}},
		{"unknown role", domain.CreateUserRequest{CompanyID: "t_1", Email: "owner@acme.test", Password: "correct-horse", Role: "superuser"}},
		{"owner without company", domain.CreateUserRequest{Email: "owner@acme.test", Password: "correct-horse", Role: domain.RoleOwner}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), &tt.req)
			require.Error(t, err)
			appErr, ok := domain.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
		})
	}

	assert.Len(t, users.byEmail, 1, "only the seeded admin may exist")
}

func TestLogin_InvalidInput(t *testing.T) {
	svc, _ := newAuthFixture(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "admin-password"},
		{"malformed email", "not-an-email", "admin-password"},
		{"empty password", "admin@veltasoft.dev", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			appErr, ok := domain.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@acme.test", "whatever"},
		{"wrong password", "admin@veltasoft.dev", "not-the-password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			appErr, ok := domain.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, appErr.Code)
		})
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.VerifyToken("not.a.token")
	require.Error(t, err)

	other := NewAuthService("different-secret", "admin@veltasoft.dev", "pw", newFakeUserStore())
	resp, err := svc.Login(context.Background(), "admin@veltasoft.dev", "admin-password")
	require.NoError(t, err)
	_, err = other.VerifyToken(resp.Token)
	assert.Error(t, err, "token signed with another secret must be rejected")
}

func TestDeleteUser_ProtectsAdmin(t *testing.T) {
	svc, users := newAuthFixture(t)
	admin, err := users.FindByEmail(context.Background(), "admin@veltasoft.dev")
	require.NoError(t, err)

	err = svc.DeleteUser(context.Background(), admin.ID)
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	created, err := svc.CreateUser(context.Background(), &domain.CreateUserRequest{
		CompanyID: "t_1",
		Email:     "owner@acme.test",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, created.Role, "role defaults to owner")
	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	err = svc.DeleteUser(context.Background(), created.ID)
	appErr, ok = domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}
