// Package paymenthandlers exposes fee configuration and settlement over HTTP.
package paymenthandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	paymentservice "github.com/placar-app/placar-backend/app/modules/payment/application"
	paymentdb "github.com/placar-app/placar-backend/app/modules/payment/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
)

// PaymentHandlers serves the fee API.
type PaymentHandlers struct {
	service *paymentservice.PaymentService
	logger  *slog.Logger
}

func NewPaymentHandlers(service *paymentservice.PaymentService, logger *slog.Logger) *PaymentHandlers {
	return &PaymentHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the payment API.
func (h *PaymentHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/events/{eventID}/fees", func(r chi.Router) {
		r.Put("/", h.HandleSetFee)
		r.Get("/", h.HandleGetFee)
		r.Get("/statuses", h.HandleListStatuses)
	})
	r.Route("/api/registrations/{registrationID}/fee", func(r chi.Router) {
		r.Post("/track", h.HandleTrackRegistration)
		r.Post("/pay", h.HandleMarkPaid)
	})
}

type setFeeRequest struct {
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

func (h *PaymentHandlers) HandleSetFee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	var req setFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cfg, err := h.service.SetFee(ctx, paymentservice.SetFeeCommand{
		EventID:     eventID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		DueAt:       req.DueAt,
	})
	if err != nil {
		if errors.Is(err, paymentservice.ErrInvalidAmount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "Fee configuration failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *PaymentHandlers) HandleGetFee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	cfg, err := h.service.GetFee(ctx, eventID)
	if err != nil {
		if errors.Is(err, paymentdb.ErrFeeConfigNotFound) {
			http.Error(w, "no fee configured", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "Fee lookup failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *PaymentHandlers) HandleListStatuses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	statuses, err := h.service.ListStatuses(ctx, eventID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Fee status listing failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

type trackRequest struct {
	EventID   uuid.UUID `json:"event_id"`
	AthleteID uuid.UUID `json:"athlete_id"`
}

func (h *PaymentHandlers) HandleTrackRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	registrationID, err := uuid.Parse(chi.URLParam(r, "registrationID"))
	if err != nil {
		http.Error(w, "invalid registration id", http.StatusBadRequest)
		return
	}
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.TrackRegistration(ctx, registrationID, req.EventID, req.AthleteID); err != nil {
		h.logger.ErrorContext(ctx, "Fee tracking failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PaymentHandlers) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	registrationID, err := uuid.Parse(chi.URLParam(r, "registrationID"))
	if err != nil {
		http.Error(w, "invalid registration id", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkPaid(ctx, registrationID); err != nil {
		if errors.Is(err, paymentdb.ErrFeeStatusNotFound) {
			http.Error(w, "fee status not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "Fee settlement failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
