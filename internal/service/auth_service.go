package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// ErrInvalidCredentials is the single login failure surfaced to clients.
// Unknown email, wrong password, and deactivated accounts all collapse into
// it so responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginResult bundles the authenticated user and its issued token.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates signup, login, and password lifecycle flows.
type AuthService struct {
	users          repository.UserRepository
	tokenMgr       *auth.TokenManager
	bcryptCost     int
	resetTTL       time.Duration
	bootstrapEmail string
	bootstrapHash  string
}

// NewAuthService builds the service. bootstrapHash must already be computed;
// main hashes the fallback admin password before the listener starts.
func NewAuthService(cfg config.Config, users repository.UserRepository, bootstrapHash string) *AuthService {
	return &AuthService{
		users:          users,
		tokenMgr:       auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes),
		bcryptCost:     cfg.Auth.BcryptCost,
		resetTTL:       time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		bootstrapEmail: cfg.Bootstrap.AdminEmail,
		bootstrapHash:  bootstrapHash,
	}
}

// Login authenticates an account by email and password. The bootstrap admin
// email bypasses the users table and is verified against the startup hash.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.bootstrapHash != "" && email == s.bootstrapEmail {
		if err := auth.ComparePassword(s.bootstrapHash, password); err != nil {
			return nil, ErrInvalidCredentials
		}
		admin := &domain.User{
			ID:        auth.BootstrapAdminID,
			FirstName: "Admin",
			LastName:  "User",
			Email:     s.bootstrapEmail,
			Role:      domain.RoleAdmin,
			IsActive:  true,
		}
		token, exp, err := s.tokenMgr.GenerateToken(admin.ID, admin.Email, admin.Role)
		if err != nil {
			return nil, err
		}
		return &LoginResult{User: admin, Token: token, ExpiresAt: exp}, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// Signup creates an account and issues a token. The first account ever
// created becomes super_admin; elevated roles otherwise require an
// authenticated admin caller (actor may be nil for anonymous signups).
func (s *AuthService) Signup(ctx context.Context, actor *domain.User, firstName, lastName, email, password string, role domain.Role) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	isFirstUser := count == 0

	if role == "" {
		role = domain.RoleEmployee
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if !isFirstUser && role != domain.RoleEmployee {
		if actor == nil || !actor.Role.AtLeast(domain.RoleAdmin) {
			return nil, apperrors.NewForbidden("you do not have permission to create users with this role")
		}
	}
	if isFirstUser {
		role = domain.RoleSuperAdmin
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// ChangePassword verifies the current password, stores the new hash, and
// re-issues a token. password_changed_at moves forward so earlier tokens die.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*LoginResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return nil, apperrors.NewUnauthorized("your current password is wrong")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetPassword(ctx, user.ID, hash, time.Now()); err != nil {
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// RequestPasswordReset stores a hashed single-use token on the user row and
// returns the plain token for delivery.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return "", time.Time{}, err
	}

	plain := uuid.NewString()
	hashed := hashResetToken(plain)
	expires := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, &hashed, &expires); err != nil {
		return "", time.Time{}, err
	}
	return plain, expires, nil
}

// ResetPassword consumes a reset token and installs the new password,
// logging the user in with a fresh token.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, newPassword string) (*LoginResult, error) {
	user, err := s.users.GetByResetToken(ctx, hashResetToken(plainToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("token is invalid or has expired", nil)
		}
		return nil, err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetPassword(ctx, user.ID, hash, time.Now()); err != nil {
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func hashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
