package scoreservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ScoreSheet is a stored score together with its attempt values, used to
// rehydrate the judge form.
type ScoreSheet struct {
	Score    scoredb.Score
	Attempts []scoredb.Attempt
}

// CreateTemplate authors a scoring template with its ordered fields.
func (s *ScoreService) CreateTemplate(ctx context.Context, modalityID sharedtypes.ModalityID, name string, fields []scoredomain.ScoringField) (sharedtypes.TemplateID, error) {
	if name == "" {
		return sharedtypes.TemplateID{}, fmt.Errorf("template name is required")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Key == "" {
			return sharedtypes.TemplateID{}, fmt.Errorf("field with empty key in template %q", name)
		}
		if seen[f.Key] {
			return sharedtypes.TemplateID{}, fmt.Errorf("duplicate field key %q in template %q", f.Key, name)
		}
		seen[f.Key] = true
	}

	template := &scoredb.ScoringTemplate{
		ID:         uuid.New(),
		ModalityID: uuid.UUID(modalityID),
		Name:       name,
	}
	rows := make([]scoredb.ScoringField, len(fields))
	for i, f := range scoredomain.OrderFields(fields) {
		rows[i] = scoredb.ScoringField{
			FieldKey:     f.Key,
			Label:        f.Label,
			InputKind:    string(f.InputKind),
			Required:     f.Required,
			DisplayOrder: f.DisplayOrder,
			Metadata:     f.Metadata,
		}
	}
	if err := s.repo.CreateTemplate(ctx, nil, template, rows); err != nil {
		return sharedtypes.TemplateID{}, err
	}
	return sharedtypes.TemplateID(template.ID), nil
}

// GetTemplateFields returns a template's fields in display order.
func (s *ScoreService) GetTemplateFields(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error) {
	fields, err := s.repo.GetFields(ctx, nil, templateID)
	if err != nil {
		return nil, err
	}
	return toDomainFields(fields), nil
}

// GetScoreSheet returns the stored score and attempts for the exact tuple, or
// nil when nothing has been recorded.
func (s *ScoreService) GetScoreSheet(ctx context.Context, key scoredb.ScoreKey) (*ScoreSheet, error) {
	score, err := s.repo.FindScore(ctx, nil, key)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return nil, nil
	}
	attempts, err := s.repo.GetAttempts(ctx, nil, []sharedtypes.ScoreID{sharedtypes.ScoreID(score.ID)})
	if err != nil {
		return nil, err
	}
	return &ScoreSheet{Score: *score, Attempts: attempts}, nil
}
