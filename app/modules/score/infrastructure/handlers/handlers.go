// Package scorehandlers exposes the score module over HTTP.
package scorehandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	scoreservice "github.com/placar-app/placar-backend/app/modules/score/application"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ScoreHandlers serves the judge-facing scoring endpoints.
type ScoreHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
}

func NewScoreHandlers(service scoreservice.Service, logger *slog.Logger) *ScoreHandlers {
	return &ScoreHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the scoring API.
func (h *ScoreHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/scoring", func(r chi.Router) {
		r.Post("/scores", h.HandleSubmitScore)
		r.Get("/scores/sheet", h.HandleGetScoreSheet)
		r.Post("/templates", h.HandleCreateTemplate)
		r.Get("/templates/{templateID}/fields", h.HandleGetTemplateFields)
		r.Put("/participations", h.HandleSetParticipation)
	})
}

type submitScoreRequest struct {
	EventID         uuid.UUID         `json:"event_id"`
	ModalityID      uuid.UUID         `json:"modality_id"`
	TemplateID      uuid.UUID         `json:"template_id"`
	JudgeID         uuid.UUID         `json:"judge_id"`
	AthleteID       *uuid.UUID        `json:"athlete_id,omitempty"`
	TeamID          *uuid.UUID        `json:"team_id,omitempty"`
	HeatID          *uuid.UUID        `json:"heat_id,omitempty"`
	Lane            *int              `json:"lane,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Form            map[string]string `json:"form"`
	ExpectedVersion *int64            `json:"expected_version,omitempty"`
}

func (h *ScoreHandlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := scoreservice.SubmitScoreCommand{
		EventID:         sharedtypes.EventID(req.EventID),
		ModalityID:      sharedtypes.ModalityID(req.ModalityID),
		TemplateID:      sharedtypes.TemplateID(req.TemplateID),
		JudgeID:         sharedtypes.JudgeID(req.JudgeID),
		HeatID:          (*sharedtypes.HeatID)(req.HeatID),
		Lane:            req.Lane,
		Notes:           req.Notes,
		Form:            req.Form,
		ExpectedVersion: req.ExpectedVersion,
	}
	cmd.AthleteID = (*sharedtypes.AthleteID)(req.AthleteID)
	cmd.TeamID = (*sharedtypes.TeamID)(req.TeamID)

	result, err := h.service.SubmitScore(ctx, cmd)
	if err != nil {
		if errors.Is(err, scoredb.ErrVersionConflict) {
			http.Error(w, "score was modified by another judge; reload and retry", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "Score submission failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if result.IsFailure() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": result.Failure.Reason})
		return
	}

	writeJSON(w, http.StatusOK, result.Success)
}

func (h *ScoreHandlers) HandleGetScoreSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key, err := scoreKeyFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sheet, err := h.service.GetScoreSheet(ctx, key)
	if err != nil {
		h.logger.ErrorContext(ctx, "Score sheet lookup failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if sheet == nil {
		http.Error(w, "no score recorded", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

type createTemplateRequest struct {
	ModalityID uuid.UUID            `json:"modality_id"`
	Name       string               `json:"name"`
	Fields     []templateFieldInput `json:"fields"`
}

type templateFieldInput struct {
	Key          string                    `json:"key"`
	Label        string                    `json:"label"`
	InputKind    string                    `json:"input_kind"`
	Required     bool                      `json:"required"`
	DisplayOrder int                       `json:"display_order"`
	Metadata     scoredomain.FieldMetadata `json:"metadata"`
}

func (h *ScoreHandlers) HandleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	fields := make([]scoredomain.ScoringField, len(req.Fields))
	for i, f := range req.Fields {
		fields[i] = scoredomain.ScoringField{
			Key:          f.Key,
			Label:        f.Label,
			InputKind:    scoredomain.InputKind(f.InputKind),
			Required:     f.Required,
			DisplayOrder: f.DisplayOrder,
			Metadata:     f.Metadata,
		}
	}

	templateID, err := h.service.CreateTemplate(ctx, sharedtypes.ModalityID(req.ModalityID), req.Name, fields)
	if err != nil {
		h.logger.ErrorContext(ctx, "Template creation failed", attr.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"template_id": templateID.String()})
}

func (h *ScoreHandlers) HandleGetTemplateFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	templateID, err := uuid.Parse(chi.URLParam(r, "templateID"))
	if err != nil {
		http.Error(w, "invalid template id", http.StatusBadRequest)
		return
	}

	fields, err := h.service.GetTemplateFields(ctx, sharedtypes.TemplateID(templateID))
	if err != nil {
		h.logger.ErrorContext(ctx, "Template fields lookup failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

type participationRequest struct {
	AthleteID     uuid.UUID  `json:"athlete_id"`
	ModalityID    uuid.UUID  `json:"modality_id"`
	EventID       uuid.UUID  `json:"event_id"`
	HeatID        *uuid.UUID `json:"heat_id,omitempty"`
	Participating bool       `json:"participating"`
}

func (h *ScoreHandlers) HandleSetParticipation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req participationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := scoreservice.ParticipationCommand{
		AthleteID:     sharedtypes.AthleteID(req.AthleteID),
		ModalityID:    sharedtypes.ModalityID(req.ModalityID),
		EventID:       sharedtypes.EventID(req.EventID),
		HeatID:        (*sharedtypes.HeatID)(req.HeatID),
		Participating: req.Participating,
	}
	if err := h.service.SetParticipation(ctx, cmd); err != nil {
		h.logger.ErrorContext(ctx, "Participation update failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func scoreKeyFromQuery(r *http.Request) (scoredb.ScoreKey, error) {
	var key scoredb.ScoreKey
	parse := func(name string) (uuid.UUID, error) {
		return uuid.Parse(r.URL.Query().Get(name))
	}

	athleteID, err := parse("athlete_id")
	if err != nil {
		return key, errors.New("invalid athlete_id")
	}
	modalityID, err := parse("modality_id")
	if err != nil {
		return key, errors.New("invalid modality_id")
	}
	eventID, err := parse("event_id")
	if err != nil {
		return key, errors.New("invalid event_id")
	}
	judgeID, err := parse("judge_id")
	if err != nil {
		return key, errors.New("invalid judge_id")
	}
	templateID, err := parse("template_id")
	if err != nil {
		return key, errors.New("invalid template_id")
	}

	key = scoredb.ScoreKey{
		AthleteID:  sharedtypes.AthleteID(athleteID),
		ModalityID: sharedtypes.ModalityID(modalityID),
		EventID:    sharedtypes.EventID(eventID),
		JudgeID:    sharedtypes.JudgeID(judgeID),
		TemplateID: sharedtypes.TemplateID(templateID),
	}
	if raw := r.URL.Query().Get("heat_id"); raw != "" {
		heatID, err := uuid.Parse(raw)
		if err != nil {
			return key, errors.New("invalid heat_id")
		}
		key.HeatID = (*sharedtypes.HeatID)(&heatID)
	}
	return key, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
