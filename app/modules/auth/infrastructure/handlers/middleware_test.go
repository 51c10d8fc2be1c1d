package authhandlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	authdomain "github.com/placar-app/placar-backend/app/modules/auth/domain"
	authjwt "github.com/placar-app/placar-backend/app/modules/auth/infrastructure/jwt"
)

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2)
	handler := RateLimitMiddleware(limiter)(okHandler(t))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 2 allowed, third rejected.
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234"))

	// Other IPs keep their own budget.
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234"))
}

func TestIPRateLimiter_SameLimiterPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 5)
	first := limiter.GetLimiter("10.0.0.1")
	second := limiter.GetLimiter("10.0.0.1")
	assert.Same(t, first, second)
	assert.NotSame(t, first, limiter.GetLimiter("10.0.0.2"))
}

func TestAuthenticator(t *testing.T) {
	provider := authjwt.NewProvider("test-secret")
	handler := Authenticator(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, authdomain.RoleJudge, claims.Role)
		w.WriteHeader(http.StatusOK)
	}))

	token, err := provider.GenerateToken(&authdomain.Claims{
		UserID: uuid.New(),
		Role:   authdomain.RoleJudge,
	}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid token", header: "Bearer " + token, want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	provider := authjwt.NewProvider("test-secret")
	handler := Authenticator(provider)(RequireRole(authdomain.RoleAdmin)(okHandler(t)))

	issue := func(role authdomain.Role) string {
		token, err := provider.GenerateToken(&authdomain.Claims{UserID: uuid.New(), Role: role}, time.Hour)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name string
		role authdomain.Role
		want int
	}{
		{name: "admin passes", role: authdomain.RoleAdmin, want: http.StatusOK},
		{name: "judge forbidden", role: authdomain.RoleJudge, want: http.StatusForbidden},
		{name: "athlete forbidden", role: authdomain.RoleAthlete, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/events/x/fees", nil)
			req.Header.Set("Authorization", "Bearer "+issue(tt.role))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("no claims in context", func(t *testing.T) {
		bare := RequireRole(authdomain.RoleAdmin)(okHandler(t))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		bare.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
