// Package authhandlers exposes login and token refresh over HTTP.
package authhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authservice "github.com/placar-app/placar-backend/app/modules/auth/application"
	"github.com/placar-app/placar-backend/internal/attr"
)

// AuthHandlers serves the authentication endpoints.
type AuthHandlers struct {
	service *authservice.AuthService
	logger  *slog.Logger
}

func NewAuthHandlers(service *authservice.AuthService, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the auth API behind an IP rate limit.
func (h *AuthHandlers) RegisterRoutes(r chi.Router, limiter *IPRateLimiter) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter))
		r.Post("/login", h.HandleLogin)
		r.Post("/refresh", h.HandleRefresh)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, claims, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "Login failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		Role:      claims.Role.String(),
		ExpiresAt: claims.ExpiresAt,
	})
}

type refreshRequest struct {
	Token string `json:"token"`
}

func (h *AuthHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, claims, err := h.service.Refresh(ctx, req.Token)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		Role:      claims.Role.String(),
		ExpiresAt: claims.ExpiresAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
