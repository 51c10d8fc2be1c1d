// Package userhandlers exposes the user module over HTTP.
package userhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	userservice "github.com/placar-app/placar-backend/app/modules/user/application"
	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
)

// UserHandlers serves account, branch, athlete, and registration endpoints.
type UserHandlers struct {
	service userservice.Service
	logger  *slog.Logger
}

func NewUserHandlers(service userservice.Service, logger *slog.Logger) *UserHandlers {
	return &UserHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the user API.
func (h *UserHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", h.HandleCreateUser)
		r.Get("/", h.HandleListUsers)
		r.Get("/{userID}", h.HandleGetUser)
		r.Post("/{userID}/representative", h.HandleDesignateRepresentative)
	})
	r.Route("/api/branches", func(r chi.Router) {
		r.Post("/", h.HandleCreateBranch)
		r.Get("/", h.HandleListBranches)
		r.Get("/{branchID}/athletes", h.HandleListAthletes)
	})
	r.Route("/api/athletes", func(r chi.Router) {
		r.Post("/", h.HandleCreateAthlete)
		r.Get("/{athleteID}", h.HandleGetAthlete)
	})
	r.Route("/api/registrations", func(r chi.Router) {
		r.Post("/", h.HandleRegisterAthlete)
		r.Post("/{registrationID}/confirm", h.HandleConfirmRegistration)
		r.Post("/{registrationID}/cancel", h.HandleCancelRegistration)
	})
}

type createUserRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password,omitempty"`
	Role     string     `json:"role"`
	BranchID *uuid.UUID `json:"branch_id,omitempty"`
}

func (h *UserHandlers) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.CreateUser(ctx, userservice.CreateUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     userdb.Role(req.Role),
		BranchID: req.BranchID,
	})
	if err != nil {
		switch {
		case errors.Is(err, userdb.ErrDuplicateEmail):
			http.Error(w, "email already registered", http.StatusConflict)
		case errors.Is(err, userservice.ErrInvalidInput), errors.Is(err, userservice.ErrWeakPassword):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "User creation failed", attr.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, sanitizeUser(user))
}

func (h *UserHandlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var branchID *uuid.UUID
	if raw := r.URL.Query().Get("branch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid branch_id", http.StatusBadRequest)
			return
		}
		branchID = &id
	}

	users, err := h.service.ListUsersWithAuthStatus(ctx, branchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "User listing failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	type row struct {
		userView
		HasAuth bool `json:"has_auth"`
	}
	out := make([]row, len(users))
	for i, u := range users {
		out[i] = row{userView: sanitizeUser(&u.User), HasAuth: u.HasAuth}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UserHandlers) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.service.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, userdb.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "User lookup failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sanitizeUser(user))
}

func (h *UserHandlers) HandleDesignateRepresentative(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.service.DesignateRepresentative(ctx, id); err != nil {
		if errors.Is(err, userdb.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "Representative designation failed", attr.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createBranchRequest struct {
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

func (h *UserHandlers) HandleCreateBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	branch, err := h.service.CreateBranch(ctx, req.Name, req.Region)
	if err != nil {
		if errors.Is(err, userservice.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "Branch creation failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, branch)
}

func (h *UserHandlers) HandleListBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	branches, err := h.service.ListBranches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Branch listing failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}

func (h *UserHandlers) HandleListAthletes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	branchID, err := uuid.Parse(chi.URLParam(r, "branchID"))
	if err != nil {
		http.Error(w, "invalid branch id", http.StatusBadRequest)
		return
	}

	athletes, err := h.service.ListAthletesByBranch(ctx, branchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Athlete listing failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, athletes)
}

type createAthleteRequest struct {
	Name      string     `json:"name"`
	BranchID  uuid.UUID  `json:"branch_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    string     `json:"gender,omitempty"`
}

func (h *UserHandlers) HandleCreateAthlete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createAthleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	athlete, err := h.service.CreateAthlete(ctx, userservice.CreateAthleteCommand{
		Name:      req.Name,
		BranchID:  req.BranchID,
		UserID:    req.UserID,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
	})
	if err != nil {
		if errors.Is(err, userservice.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "Athlete creation failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, athlete)
}

func (h *UserHandlers) HandleGetAthlete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "athleteID"))
	if err != nil {
		http.Error(w, "invalid athlete id", http.StatusBadRequest)
		return
	}

	athlete, err := h.service.GetAthlete(ctx, id)
	if err != nil {
		if errors.Is(err, userdb.ErrAthleteNotFound) {
			http.Error(w, "athlete not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "Athlete lookup failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, athlete)
}

type registerAthleteRequest struct {
	AthleteID  uuid.UUID  `json:"athlete_id"`
	ModalityID uuid.UUID  `json:"modality_id"`
	EventID    uuid.UUID  `json:"event_id"`
	TeamID     *uuid.UUID `json:"team_id,omitempty"`
}

func (h *UserHandlers) HandleRegisterAthlete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerAthleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reg, err := h.service.RegisterAthlete(ctx, userservice.RegisterAthleteCommand{
		AthleteID:  req.AthleteID,
		ModalityID: req.ModalityID,
		EventID:    req.EventID,
		TeamID:     req.TeamID,
	})
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAlreadyRegistered):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, userdb.ErrAthleteNotFound):
			http.Error(w, "athlete not found", http.StatusNotFound)
		default:
			h.logger.ErrorContext(ctx, "Registration failed", attr.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (h *UserHandlers) HandleConfirmRegistration(w http.ResponseWriter, r *http.Request) {
	h.updateRegistrationStatus(w, r, h.service.ConfirmRegistration)
}

func (h *UserHandlers) HandleCancelRegistration(w http.ResponseWriter, r *http.Request) {
	h.updateRegistrationStatus(w, r, h.service.CancelRegistration)
}

func (h *UserHandlers) updateRegistrationStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID) error) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "registrationID"))
	if err != nil {
		http.Error(w, "invalid registration id", http.StatusBadRequest)
		return
	}
	if err := op(ctx, id); err != nil {
		if errors.Is(err, userdb.ErrRegistrationNotFound) {
			http.Error(w, "registration not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "Registration status update failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userView is the wire shape of a user, without the password hash.
type userView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	BranchID  *uuid.UUID `json:"branch_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func sanitizeUser(u *userdb.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		BranchID:  u.BranchID,
		CreatedAt: u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
