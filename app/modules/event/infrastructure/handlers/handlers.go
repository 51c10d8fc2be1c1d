// Package eventhandlers exposes the event module over HTTP.
package eventhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	eventservice "github.com/placar-app/placar-backend/app/modules/event/application"
	eventdb "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
)

// EventHandlers serves event, modality, and heat endpoints.
type EventHandlers struct {
	service eventservice.Service
	logger  *slog.Logger
}

func NewEventHandlers(service eventservice.Service, logger *slog.Logger) *EventHandlers {
	return &EventHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the event API.
func (h *EventHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/events", func(r chi.Router) {
		r.Post("/", h.HandleCreateEvent)
		r.Get("/", h.HandleListEvents)
		r.Get("/{eventID}", h.HandleGetEvent)
		r.Post("/{eventID}/transition", h.HandleTransitionEvent)
		r.Post("/{eventID}/modalities", h.HandleCreateModality)
		r.Get("/{eventID}/modalities", h.HandleListModalities)
	})
	r.Route("/api/modalities", func(r chi.Router) {
		r.Post("/{modalityID}/template", h.HandleAssignTemplate)
		r.Post("/{modalityID}/heats", h.HandleCreateHeat)
		r.Get("/{modalityID}/heats", h.HandleListHeats)
	})
}

type createEventRequest struct {
	Name     string     `json:"name"`
	BranchID *uuid.UUID `json:"branch_id,omitempty"`
	StartsAt string     `json:"starts_at,omitempty"`
	EndsAt   string     `json:"ends_at,omitempty"`
}

func (h *EventHandlers) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	event, err := h.service.CreateEvent(ctx, eventservice.CreateEventCommand{
		Name:     req.Name,
		BranchID: req.BranchID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, eventdb.ErrDuplicateSlug):
			http.Error(w, "event name already in use", http.StatusConflict)
		case errors.Is(err, eventservice.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "Event creation failed", attr.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandlers) HandleListEvents(w http.ResponseWriter, r *http.Request) {
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

	events, err := h.service.ListEvents(ctx, branchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Event listing failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandlers) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	event, err := h.service.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, eventdb.ErrEventNotFound) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "Event lookup failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *EventHandlers) HandleTransitionEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.TransitionEvent(ctx, id, eventdb.EventStatus(req.Status)); err != nil {
		switch {
		case errors.Is(err, eventdb.ErrEventNotFound):
			http.Error(w, "event not found", http.StatusNotFound)
		case errors.Is(err, eventservice.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "Event transition failed", attr.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createModalityRequest struct {
	Name     string `json:"name"`
	TeamSize int    `json:"team_size,omitempty"`
}

func (h *EventHandlers) HandleCreateModality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	var req createModalityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	modality, err := h.service.CreateModality(ctx, eventservice.CreateModalityCommand{
		EventID:  eventID,
		Name:     req.Name,
		TeamSize: req.TeamSize,
	})
	if err != nil {
		switch {
		case errors.Is(err, eventdb.ErrEventNotFound):
			http.Error(w, "event not found", http.StatusNotFound)
		case errors.Is(err, eventservice.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "Modality creation failed", attr.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, modality)
}

func (h *EventHandlers) HandleListModalities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	modalities, err := h.service.ListModalities(ctx, eventID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Modality listing failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, modalities)
}

type assignTemplateRequest struct {
	TemplateID uuid.UUID `json:"template_id"`
}

func (h *EventHandlers) HandleAssignTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	modalityID, err := uuid.Parse(chi.URLParam(r, "modalityID"))
	if err != nil {
		http.Error(w, "invalid modality id", http.StatusBadRequest)
		return
	}
	var req assignTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.AssignTemplate(ctx, modalityID, req.TemplateID); err != nil {
		if errors.Is(err, eventdb.ErrModalityNotFound) {
			http.Error(w, "modality not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "Template assignment failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createHeatRequest struct {
	Number   int    `json:"number,omitempty"`
	Schedule string `json:"schedule,omitempty"`
}

func (h *EventHandlers) HandleCreateHeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	modalityID, err := uuid.Parse(chi.URLParam(r, "modalityID"))
	if err != nil {
		http.Error(w, "invalid modality id", http.StatusBadRequest)
		return
	}
	var req createHeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	heat, err := h.service.CreateHeat(ctx, eventservice.CreateHeatCommand{
		ModalityID: modalityID,
		Number:     req.Number,
		Schedule:   req.Schedule,
	})
	if err != nil {
		switch {
		case errors.Is(err, eventdb.ErrModalityNotFound):
			http.Error(w, "modality not found", http.StatusNotFound)
		default:
			h.logger.ErrorContext(ctx, "Heat creation failed", attr.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusCreated, heat)
}

func (h *EventHandlers) HandleListHeats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	modalityID, err := uuid.Parse(chi.URLParam(r, "modalityID"))
	if err != nil {
		http.Error(w, "invalid modality id", http.StatusBadRequest)
		return
	}

	heats, err := h.service.ListHeats(ctx, modalityID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Heat listing failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, heats)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
