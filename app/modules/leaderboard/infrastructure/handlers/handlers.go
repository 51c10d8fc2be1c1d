// Package leaderboardhandlers exposes ranking, standings, and export endpoints.
package leaderboardhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	leaderboardservice "github.com/placar-app/placar-backend/app/modules/leaderboard/application"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// LeaderboardHandlers serves the ranking API.
type LeaderboardHandlers struct {
	service *leaderboardservice.LeaderboardService
	logger  *slog.Logger
}

func NewLeaderboardHandlers(service *leaderboardservice.LeaderboardService, logger *slog.Logger) *LeaderboardHandlers {
	return &LeaderboardHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the leaderboard API.
func (h *LeaderboardHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/leaderboard", func(r chi.Router) {
		r.Post("/ranks", h.HandleCalculateRanks)
		r.Get("/standings", h.HandleStandings)
		r.Get("/standings/export", h.HandleExportStandings)
		r.Get("/athletes/{athleteID}/chart", h.HandleScoreChart)
	})
}

type calculateRanksRequest struct {
	EventID    uuid.UUID  `json:"event_id"`
	ModalityID uuid.UUID  `json:"modality_id"`
	TemplateID uuid.UUID  `json:"template_id"`
	HeatID     *uuid.UUID `json:"heat_id,omitempty"`
	FieldKey   string     `json:"field_key"`
}

func (h *LeaderboardHandlers) HandleCalculateRanks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req calculateRanksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := leaderboardservice.RankCommand{
		Scope: sharedtypes.ScoreScope{
			EventID:    sharedtypes.EventID(req.EventID),
			ModalityID: sharedtypes.ModalityID(req.ModalityID),
			TemplateID: sharedtypes.TemplateID(req.TemplateID),
			HeatID:     (*sharedtypes.HeatID)(req.HeatID),
		},
		FieldKey: req.FieldKey,
	}

	entries, err := h.service.CalculateRanks(ctx, cmd)
	if err != nil {
		var insufficient *leaderboardservice.InsufficientDataError
		if errors.As(err, &insufficient) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":               insufficient.Error(),
				"eligible_count":      insufficient.EligibleCount,
				"incomplete_athletes": insufficient.IncompleteAthletes,
			})
			return
		}
		var notCalculated *leaderboardservice.ErrFieldNotCalculated
		if errors.As(err, &notCalculated) {
			http.Error(w, notCalculated.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "Rank calculation failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *LeaderboardHandlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, err := scopeFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.service.Standings(ctx, scope, r.URL.Query().Get("rank_field"))
	if err != nil {
		h.logger.ErrorContext(ctx, "Standings lookup failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *LeaderboardHandlers) HandleExportStandings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, err := scopeFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.service.ExportStandingsXLSX(ctx, scope, r.URL.Query().Get("rank_field"))
	if err != nil {
		h.logger.ErrorContext(ctx, "Standings export failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="standings.xlsx"`)
	_, _ = w.Write(data)
}

func (h *LeaderboardHandlers) HandleScoreChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	athleteID, err := uuid.Parse(chi.URLParam(r, "athleteID"))
	if err != nil {
		http.Error(w, "invalid athlete id", http.StatusBadRequest)
		return
	}
	scope, err := scopeFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	history, err := h.service.ScoreHistory(ctx, scope, sharedtypes.AthleteID(athleteID))
	if err != nil {
		h.logger.ErrorContext(ctx, "Score history lookup failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	png, err := h.service.GenerateScoreEvolutionChart(ctx, sharedtypes.AthleteID(athleteID), history)
	if err != nil {
		h.logger.ErrorContext(ctx, "Chart rendering failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func scopeFromQuery(r *http.Request) (sharedtypes.ScoreScope, error) {
	var scope sharedtypes.ScoreScope

	eventID, err := uuid.Parse(r.URL.Query().Get("event_id"))
	if err != nil {
		return scope, errors.New("invalid event_id")
	}
	modalityID, err := uuid.Parse(r.URL.Query().Get("modality_id"))
	if err != nil {
		return scope, errors.New("invalid modality_id")
	}
	templateID, err := uuid.Parse(r.URL.Query().Get("template_id"))
	if err != nil {
		return scope, errors.New("invalid template_id")
	}

	scope = sharedtypes.ScoreScope{
		EventID:    sharedtypes.EventID(eventID),
		ModalityID: sharedtypes.ModalityID(modalityID),
		TemplateID: sharedtypes.TemplateID(templateID),
	}
	if raw := r.URL.Query().Get("heat_id"); raw != "" {
		heatID, err := uuid.Parse(raw)
		if err != nil {
			return scope, errors.New("invalid heat_id")
		}
		scope.HeatID = (*sharedtypes.HeatID)(&heatID)
	}
	return scope, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
