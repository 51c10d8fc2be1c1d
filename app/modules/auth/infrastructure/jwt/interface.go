package authjwt

import (
	"time"

	authdomain "github.com/placar-app/placar-backend/app/modules/auth/domain"
)

// Provider signs and validates access tokens.
type Provider interface {
	GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*authdomain.Claims, error)
}
