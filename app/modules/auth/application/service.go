// Package authservice implements login and token refresh.
package authservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/placar-app/placar-backend/app/modules/auth/domain"
	authjwt "github.com/placar-app/placar-backend/app/modules/auth/infrastructure/jwt"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/observability"
)

// ErrInvalidCredentials covers unknown accounts, accounts without a password,
// and wrong passwords alike, so responses don't leak which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Account is the auth module's view of a sign-in account. The user module
// provides the lookup through an adapter.
type Account struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Role         authdomain.Role
	BranchID     *uuid.UUID
	PasswordHash string
}

// AccountReader resolves accounts for credential checks.
type AccountReader interface {
	AccountByEmail(ctx context.Context, email string) (*Account, error)
}

// AuthService implements login and token refresh.
type AuthService struct {
	accounts AccountReader
	provider authjwt.Provider
	ttl      time.Duration
	logger   *slog.Logger
	metrics  observability.Metrics
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts AccountReader, provider authjwt.Provider, ttl time.Duration, logger *slog.Logger, metrics observability.Metrics) *AuthService {
	return &AuthService{
		accounts: accounts,
		provider: provider,
		ttl:      ttl,
		logger:   logger,
		metrics:  metrics,
	}
}

// Login checks the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *authdomain.Claims, error) {
	s.metrics.RecordOperationAttempt(ctx, "Login")

	account, err := s.accounts.AccountByEmail(ctx, email)
	if err != nil || account == nil || account.PasswordHash == "" {
		s.metrics.RecordOperationFailure(ctx, "Login")
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.metrics.RecordOperationFailure(ctx, "Login")
		return "", nil, ErrInvalidCredentials
	}

	claims := &authdomain.Claims{
		UserID:   account.ID,
		Name:     account.Name,
		Role:     account.Role,
		BranchID: account.BranchID,
	}
	token, err := s.provider.GenerateToken(claims, s.ttl)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "Login")
		return "", nil, err
	}
	claims.ExpiresAt = time.Now().Add(s.ttl)

	s.logger.InfoContext(ctx, "User logged in",
		attr.UUID("user_id", account.ID),
		attr.String("role", account.Role.String()),
	)
	s.metrics.RecordOperationSuccess(ctx, "Login")
	return token, claims, nil
}

// Refresh validates an unexpired token and issues a fresh one with the same
// identity.
func (s *AuthService) Refresh(ctx context.Context, tokenString string) (string, *authdomain.Claims, error) {
	s.metrics.RecordOperationAttempt(ctx, "Refresh")

	claims, err := s.provider.ValidateToken(tokenString)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "Refresh")
		return "", nil, err
	}

	token, err := s.provider.GenerateToken(claims, s.ttl)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "Refresh")
		return "", nil, err
	}
	claims.ExpiresAt = time.Now().Add(s.ttl)
	s.metrics.RecordOperationSuccess(ctx, "Refresh")
	return token, claims, nil
}

// Validate parses and checks an access token.
func (s *AuthService) Validate(tokenString string) (*authdomain.Claims, error) {
	return s.provider.ValidateToken(tokenString)
}
