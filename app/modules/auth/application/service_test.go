package authservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/placar-app/placar-backend/app/modules/auth/domain"
	authjwt "github.com/placar-app/placar-backend/app/modules/auth/infrastructure/jwt"
	"github.com/placar-app/placar-backend/internal/observability"
)

type fakeAccounts struct {
	account *Account
	err     error
}

func (f *fakeAccounts) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	return f.account, f.err
}

func newTestAuthService(accounts AccountReader) *AuthService {
	return NewAuthService(
		accounts,
		authjwt.NewProvider("test-secret"),
		time.Hour,
		slog.New(slog.DiscardHandler),
		observability.NoOpMetrics{},
	)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	account := &Account{
		ID:           uuid.New(),
		Name:         "Judge Person",
		Email:        "judge@placar.dev",
		Role:         authdomain.RoleJudge,
		BranchID:     &branchID,
		PasswordHash: hashOf(t, "correct-horse"),
	}

	t.Run("success", func(t *testing.T) {
		svc := newTestAuthService(&fakeAccounts{account: account})

		token, claims, err := svc.Login(ctx, "judge@placar.dev", "correct-horse")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.Equal(t, account.ID, claims.UserID)
		assert.Equal(t, authdomain.RoleJudge, claims.Role)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)

		// The issued token validates back to the same identity.
		parsed, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, parsed.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := newTestAuthService(&fakeAccounts{account: account})
		_, _, err := svc.Login(ctx, "judge@placar.dev", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := newTestAuthService(&fakeAccounts{})
		_, _, err := svc.Login(ctx, "nobody@placar.dev", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("account without password", func(t *testing.T) {
		noPass := *account
		noPass.PasswordHash = ""
		svc := newTestAuthService(&fakeAccounts{account: &noPass})
		_, _, err := svc.Login(ctx, "judge@placar.dev", "anything")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("lookup error reads as invalid credentials", func(t *testing.T) {
		svc := newTestAuthService(&fakeAccounts{err: errors.New("db down")})
		_, _, err := svc.Login(ctx, "judge@placar.dev", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	account := &Account{
		ID:           uuid.New(),
		Role:         authdomain.RoleRepresentative,
		PasswordHash: hashOf(t, "pw"),
	}
	svc := newTestAuthService(&fakeAccounts{account: account})

	token, _, err := svc.Login(ctx, "rep@placar.dev", "pw")
	require.NoError(t, err)

	fresh, claims, err := svc.Refresh(ctx, token)
	require.NoError(t, err)
	require.NotEmpty(t, fresh)
	assert.Equal(t, account.ID, claims.UserID)
	assert.Equal(t, authdomain.RoleRepresentative, claims.Role)

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, "nope")
		require.Error(t, err)
	})
}
