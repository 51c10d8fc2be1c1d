// Package leaderboardadapters bridges the leaderboard module onto the score
// module's repository.
package leaderboardadapters

import (
	"context"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	leaderboardservice "github.com/placar-app/placar-backend/app/modules/leaderboard/application"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ScoreStoreAdapter implements leaderboardservice.ScoreStore over the score
// repository.
type ScoreStoreAdapter struct {
	repo scoredb.Repository
}

func NewScoreStoreAdapter(repo scoredb.Repository) *ScoreStoreAdapter {
	return &ScoreStoreAdapter{repo: repo}
}

var _ leaderboardservice.ScoreStore = (*ScoreStoreAdapter)(nil)

func (a *ScoreStoreAdapter) ScoresForScope(ctx context.Context, scope sharedtypes.ScoreScope) ([]leaderboardservice.ScoreRow, error) {
	scores, err := a.repo.GetScoresForScope(ctx, nil, scope)
	if err != nil {
		return nil, err
	}
	rows := make([]leaderboardservice.ScoreRow, len(scores))
	for i, s := range scores {
		rows[i] = leaderboardservice.ScoreRow{
			ScoreID:    sharedtypes.ScoreID(s.ID),
			AthleteID:  sharedtypes.AthleteID(s.AthleteID),
			MainValue:  s.MainValue,
			Form:       s.FormData,
			RecordedAt: s.RecordedAt,
		}
	}
	return rows, nil
}

func (a *ScoreStoreAdapter) FieldsForTemplate(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error) {
	fields, err := a.repo.GetFields(ctx, nil, templateID)
	if err != nil {
		return nil, err
	}
	out := make([]scoredomain.ScoringField, len(fields))
	for i, f := range fields {
		out[i] = scoredomain.ScoringField{
			TemplateID:   sharedtypes.TemplateID(f.TemplateID),
			Key:          f.FieldKey,
			Label:        f.Label,
			InputKind:    scoredomain.InputKind(f.InputKind),
			Required:     f.Required,
			DisplayOrder: f.DisplayOrder,
			Metadata:     f.Metadata,
		}
	}
	return out, nil
}

func (a *ScoreStoreAdapter) ParticipationMap(ctx context.Context, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, heatID *sharedtypes.HeatID) (map[sharedtypes.AthleteID]bool, error) {
	participations, err := a.repo.GetParticipations(ctx, nil, eventID, modalityID, heatID)
	if err != nil {
		return nil, err
	}
	flags := make(map[sharedtypes.AthleteID]bool, len(participations))
	for _, p := range participations {
		flags[sharedtypes.AthleteID(p.AthleteID)] = p.Participating
	}
	return flags, nil
}

func (a *ScoreStoreAdapter) WriteRank(ctx context.Context, scoreID sharedtypes.ScoreID, fieldKey string, rank int, formatted string) error {
	return a.repo.UpsertAttempt(ctx, nil, scoreID, fieldKey, float64(rank), formatted)
}

func (a *ScoreStoreAdapter) AttemptsForScores(ctx context.Context, scoreIDs []sharedtypes.ScoreID) ([]leaderboardservice.AttemptRow, error) {
	attempts, err := a.repo.GetAttempts(ctx, nil, scoreIDs)
	if err != nil {
		return nil, err
	}
	rows := make([]leaderboardservice.AttemptRow, len(attempts))
	for i, att := range attempts {
		rows[i] = leaderboardservice.AttemptRow{
			ScoreID:        sharedtypes.ScoreID(att.ScoreID),
			FieldKey:       att.FieldKey,
			Value:          att.Value,
			FormattedValue: att.FormattedValue,
		}
	}
	return rows, nil
}
