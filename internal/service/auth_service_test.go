package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			TokenTTLMinutes:         60,
			PasswordResetTTLMinutes: 10,
			BcryptCost:              bcrypt.MinCost,
		},
		Bootstrap: config.BootstrapConfig{
			AdminEmail: "admin@csa.gov.lr",
		},
	}
}

func newAuthService(t *testing.T, bootstrapPassword string) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	var hash string
	if bootstrapPassword != "" {
		var err error
		hash, err = auth.HashPassword(bootstrapPassword, bcrypt.MinCost)
		require.NoError(t, err)
	}
	return NewAuthService(testConfig(), users, hash), users
}

func seedUser(t *testing.T, svc *AuthService, email, password string) *domain.User {
	t.Helper()
	result, err := svc.Signup(context.Background(), nil, "Jane", "Doe", email, password, "")
	require.NoError(t, err)
	return result.User
}

func TestSignup_FirstUserBecomesSuperAdmin(t *testing.T) {
	svc, _ := newAuthService(t, "")

	result, err := svc.Signup(context.Background(), nil, "Jane", "Doe", "jane@csa.gov.lr", "pass123", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, result.User.Role)
	assert.NotEmpty(t, result.Token)
}

func TestSignup_ElevatedRoleRequiresAdminActor(t *testing.T) {
	svc, _ := newAuthService(t, "")
	seedUser(t, svc, "first@csa.gov.lr", "pass123")

	_, err := svc.Signup(context.Background(), nil, "Eve", "Smith", "eve@csa.gov.lr", "pass123", domain.RoleManager)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 403, domainErr.HTTPStatus)

	admin := &domain.User{ID: "user-x", Role: domain.RoleAdmin}
	result, err := svc.Signup(context.Background(), admin, "Eve", "Smith", "eve@csa.gov.lr", "pass123", domain.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, result.User.Role)
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAuthService(t, "")
	seedUser(t, svc, "jane@csa.gov.lr", "pass123")

	_, err := svc.Signup(context.Background(), nil, "Jane", "Doe", "jane@csa.gov.lr", "other", "")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 409, domainErr.HTTPStatus)
}

func TestLogin_CollapsesFailuresIntoOneError(t *testing.T) {
	svc, users := newAuthService(t, "")
	user := seedUser(t, svc, "jane@csa.gov.lr", "pass123")

	_, err := svc.Login(context.Background(), "unknown@csa.gov.lr", "pass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "jane@csa.gov.lr", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, users.SetActive(context.Background(), user.ID, false))
	_, err = svc.Login(context.Background(), "jane@csa.gov.lr", "pass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Succeeds(t *testing.T) {
	svc, _ := newAuthService(t, "")
	seedUser(t, svc, "jane@csa.gov.lr", "pass123")

	result, err := svc.Login(context.Background(), "Jane@CSA.gov.lr", "pass123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestLogin_BootstrapAdmin(t *testing.T) {
	svc, _ := newAuthService(t, "changeme")

	result, err := svc.Login(context.Background(), "admin@csa.gov.lr", "changeme")
	require.NoError(t, err)
	assert.Equal(t, auth.BootstrapAdminID, result.User.ID)
	assert.Equal(t, domain.RoleAdmin, result.User.Role)

	_, err = svc.Login(context.Background(), "admin@csa.gov.lr", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword_RotatesCredentialAndToken(t *testing.T) {
	svc, users := newAuthService(t, "")
	user := seedUser(t, svc, "jane@csa.gov.lr", "pass123")

	_, err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpass")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 401, domainErr.HTTPStatus)

	result, err := svc.ChangePassword(context.Background(), user.ID, "pass123", "newpass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordChangedAt)
	assert.True(t, stored.ChangedPasswordAfter(time.Now().Add(-time.Minute)))

	_, err = svc.Login(context.Background(), "jane@csa.gov.lr", "newpass")
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, users := newAuthService(t, "")
	user := seedUser(t, svc, "jane@csa.gov.lr", "pass123")

	plain, expires, err := svc.RequestPasswordReset(context.Background(), "jane@csa.gov.lr")
	require.NoError(t, err)
	require.NotEmpty(t, plain)
	assert.True(t, expires.After(time.Now()))

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordResetToken)
	assert.NotEqual(t, plain, *stored.PasswordResetToken)

	_, err = svc.ResetPassword(context.Background(), "bogus-token", "newpass")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.HTTPStatus)

	result, err := svc.ResetPassword(context.Background(), plain, "newpass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	stored, err = users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PasswordResetToken)

	_, err = svc.Login(context.Background(), "jane@csa.gov.lr", "newpass")
	assert.NoError(t, err)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t, "")

	_, _, err := svc.RequestPasswordReset(context.Background(), "ghost@csa.gov.lr")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}
