package authjwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/placar-app/placar-backend/app/modules/auth/domain"
)

func TestProvider_RoundTrip(t *testing.T) {
	provider := NewProvider("test-secret")
	branchID := uuid.New()

	claims := &authdomain.Claims{
		UserID:   uuid.New(),
		Name:     "Judge Person",
		Role:     authdomain.RoleJudge,
		BranchID: &branchID,
	}

	token, err := provider.GenerateToken(claims, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := provider.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, got.UserID)
	assert.Equal(t, claims.Name, got.Name)
	assert.Equal(t, authdomain.RoleJudge, got.Role)
	require.NotNil(t, got.BranchID)
	assert.Equal(t, branchID, *got.BranchID)
	assert.False(t, got.IsExpired())
	assert.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt, 5*time.Second)
}

func TestProvider_NoBranch(t *testing.T) {
	provider := NewProvider("test-secret")

	token, err := provider.GenerateToken(&authdomain.Claims{
		UserID: uuid.New(),
		Role:   authdomain.RoleAdmin,
	}, time.Hour)
	require.NoError(t, err)

	got, err := provider.ValidateToken(token)
	require.NoError(t, err)
	assert.Nil(t, got.BranchID)
}

func TestProvider_Expired(t *testing.T) {
	provider := NewProvider("test-secret")

	token, err := provider.GenerateToken(&authdomain.Claims{
		UserID: uuid.New(),
		Role:   authdomain.RoleAthlete,
	}, -time.Minute)
	require.NoError(t, err)

	_, err = provider.ValidateToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestProvider_WrongSecret(t *testing.T) {
	issuer := NewProvider("secret-a")
	verifier := NewProvider("secret-b")

	token, err := issuer.GenerateToken(&authdomain.Claims{
		UserID: uuid.New(),
		Role:   authdomain.RoleJudge,
	}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestProvider_Garbage(t *testing.T) {
	provider := NewProvider("test-secret")

	_, err := provider.ValidateToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
