package scoreservice

import (
	"context"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// Service is the score module's application interface.
type Service interface {
	// SubmitScore upserts the score identified by the command's tuple, fanning
	// out to every roster member for team submissions, and replaces the
	// attempt set atomically.
	SubmitScore(ctx context.Context, cmd SubmitScoreCommand) (ScoreOperationResult, error)

	// GetScoreSheet returns the stored score and attempts for a tuple, or a
	// nil sheet when nothing has been recorded yet.
	GetScoreSheet(ctx context.Context, key scoredb.ScoreKey) (*ScoreSheet, error)

	// CreateTemplate authors a scoring template with its ordered fields.
	CreateTemplate(ctx context.Context, modalityID sharedtypes.ModalityID, name string, fields []scoredomain.ScoringField) (sharedtypes.TemplateID, error)

	// GetTemplateFields returns a template's fields in display order.
	GetTemplateFields(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error)

	// SetParticipation toggles an athlete's inclusion in ranking runs.
	SetParticipation(ctx context.Context, cmd ParticipationCommand) error
}

var _ Service = (*ScoreService)(nil)
