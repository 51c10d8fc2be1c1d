package scoredb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ScoreKey is the exact tuple that identifies at most one live score.
// A nil HeatID matches only rows with no heat.
type ScoreKey struct {
	AthleteID  sharedtypes.AthleteID
	ModalityID sharedtypes.ModalityID
	EventID    sharedtypes.EventID
	JudgeID    sharedtypes.JudgeID
	TemplateID sharedtypes.TemplateID
	HeatID     *sharedtypes.HeatID
}

// Repository is the score module's persistence contract. Methods take a
// bun.IDB so callers can pass a transaction; nil falls back to the root DB.
type Repository interface {
	CreateTemplate(ctx context.Context, db bun.IDB, template *ScoringTemplate, fields []ScoringField) error
	GetTemplate(ctx context.Context, db bun.IDB, templateID sharedtypes.TemplateID) (*ScoringTemplate, error)
	GetFields(ctx context.Context, db bun.IDB, templateID sharedtypes.TemplateID) ([]ScoringField, error)

	FindScore(ctx context.Context, db bun.IDB, key ScoreKey) (*Score, error)
	InsertScore(ctx context.Context, db bun.IDB, score *Score) error
	UpdateScore(ctx context.Context, db bun.IDB, score *Score, expectedVersion int64) error
	GetScoreByID(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID) (*Score, error)
	GetScoresForScope(ctx context.Context, db bun.IDB, scope sharedtypes.ScoreScope) ([]Score, error)
	FindTeamScores(ctx context.Context, db bun.IDB, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, teamID sharedtypes.TeamID, heatID *sharedtypes.HeatID) ([]Score, error)

	ReplaceAttempts(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, attempts []Attempt) error
	GetAttempts(ctx context.Context, db bun.IDB, scoreIDs []sharedtypes.ScoreID) ([]Attempt, error)
	UpsertAttempt(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, fieldKey string, value float64, formatted string) error

	SetParticipation(ctx context.Context, db bun.IDB, p *Participation) error
	GetParticipations(ctx context.Context, db bun.IDB, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, heatID *sharedtypes.HeatID) ([]Participation, error)
}

var _ Repository = (*ScoreDBImpl)(nil)

func newID() uuid.UUID { return uuid.New() }
