package scoreservice

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	"github.com/placar-app/placar-backend/app/modules/score/domain/scorevalue"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// fakeRepo implements scoredb.Repository with overridable functions so each
// test wires only what it needs.
type fakeRepo struct {
	CreateTemplateFunc  func(ctx context.Context, db bun.IDB, template *scoredb.ScoringTemplate, fields []scoredb.ScoringField) error
	GetTemplateFunc     func(ctx context.Context, db bun.IDB, templateID sharedtypes.TemplateID) (*scoredb.ScoringTemplate, error)
	GetFieldsFunc       func(ctx context.Context, db bun.IDB, templateID sharedtypes.TemplateID) ([]scoredb.ScoringField, error)
	FindScoreFunc       func(ctx context.Context, db bun.IDB, key scoredb.ScoreKey) (*scoredb.Score, error)
	InsertScoreFunc     func(ctx context.Context, db bun.IDB, score *scoredb.Score) error
	UpdateScoreFunc     func(ctx context.Context, db bun.IDB, score *scoredb.Score, expectedVersion int64) error
	GetScoreByIDFunc    func(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID) (*scoredb.Score, error)
	ScoresForScopeFunc  func(ctx context.Context, db bun.IDB, scope sharedtypes.ScoreScope) ([]scoredb.Score, error)
	FindTeamScoresFunc  func(ctx context.Context, db bun.IDB, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, teamID sharedtypes.TeamID, heatID *sharedtypes.HeatID) ([]scoredb.Score, error)
	ReplaceAttemptsFunc func(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, attempts []scoredb.Attempt) error
	GetAttemptsFunc     func(ctx context.Context, db bun.IDB, scoreIDs []sharedtypes.ScoreID) ([]scoredb.Attempt, error)
	UpsertAttemptFunc   func(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, fieldKey string, value float64, formatted string) error
	SetParticipationFunc  func(ctx context.Context, db bun.IDB, p *scoredb.Participation) error
	GetParticipationsFunc func(ctx context.Context, db bun.IDB, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, heatID *sharedtypes.HeatID) ([]scoredb.Participation, error)
}

func (f *fakeRepo) CreateTemplate(ctx context.Context, db bun.IDB, template *scoredb.ScoringTemplate, fields []scoredb.ScoringField) error {
	return f.CreateTemplateFunc(ctx, db, template, fields)
}
func (f *fakeRepo) GetTemplate(ctx context.Context, db bun.IDB, templateID sharedtypes.TemplateID) (*scoredb.ScoringTemplate, error) {
	return f.GetTemplateFunc(ctx, db, templateID)
}
func (f *fakeRepo) GetFields(ctx context.Context, db bun.IDB, templateID sharedtypes.TemplateID) ([]scoredb.ScoringField, error) {
	return f.GetFieldsFunc(ctx, db, templateID)
}
func (f *fakeRepo) FindScore(ctx context.Context, db bun.IDB, key scoredb.ScoreKey) (*scoredb.Score, error) {
	return f.FindScoreFunc(ctx, db, key)
}
func (f *fakeRepo) InsertScore(ctx context.Context, db bun.IDB, score *scoredb.Score) error {
	return f.InsertScoreFunc(ctx, db, score)
}
func (f *fakeRepo) UpdateScore(ctx context.Context, db bun.IDB, score *scoredb.Score, expectedVersion int64) error {
	return f.UpdateScoreFunc(ctx, db, score, expectedVersion)
}
func (f *fakeRepo) GetScoreByID(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID) (*scoredb.Score, error) {
	return f.GetScoreByIDFunc(ctx, db, scoreID)
}
func (f *fakeRepo) GetScoresForScope(ctx context.Context, db bun.IDB, scope sharedtypes.ScoreScope) ([]scoredb.Score, error) {
	return f.ScoresForScopeFunc(ctx, db, scope)
}
func (f *fakeRepo) FindTeamScores(ctx context.Context, db bun.IDB, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, teamID sharedtypes.TeamID, heatID *sharedtypes.HeatID) ([]scoredb.Score, error) {
	return f.FindTeamScoresFunc(ctx, db, eventID, modalityID, teamID, heatID)
}
func (f *fakeRepo) ReplaceAttempts(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, attempts []scoredb.Attempt) error {
	return f.ReplaceAttemptsFunc(ctx, db, scoreID, attempts)
}
func (f *fakeRepo) GetAttempts(ctx context.Context, db bun.IDB, scoreIDs []sharedtypes.ScoreID) ([]scoredb.Attempt, error) {
	return f.GetAttemptsFunc(ctx, db, scoreIDs)
}
func (f *fakeRepo) UpsertAttempt(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, fieldKey string, value float64, formatted string) error {
	return f.UpsertAttemptFunc(ctx, db, scoreID, fieldKey, value, formatted)
}
func (f *fakeRepo) SetParticipation(ctx context.Context, db bun.IDB, p *scoredb.Participation) error {
	return f.SetParticipationFunc(ctx, db, p)
}
func (f *fakeRepo) GetParticipations(ctx context.Context, db bun.IDB, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, heatID *sharedtypes.HeatID) ([]scoredb.Participation, error) {
	return f.GetParticipationsFunc(ctx, db, eventID, modalityID, heatID)
}

type fakeRoster struct {
	members []sharedtypes.AthleteID
	err     error
}

func (f *fakeRoster) TeamMemberIDs(ctx context.Context, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, teamID sharedtypes.TeamID) ([]sharedtypes.AthleteID, error) {
	return f.members, f.err
}

type fakeBus struct {
	topics []string
}

func (f *fakeBus) Publish(topic string, messages ...*message.Message) error {
	f.topics = append(f.topics, topic)
	return nil
}
func (f *fakeBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return nil, nil
}
func (f *fakeBus) Close() error { return nil }

func newTestService(repo scoredb.Repository, roster TeamRoster, bus eventbus.EventBus) *ScoreService {
	return NewScoreService(
		repo,
		roster,
		bus,
		slog.New(slog.DiscardHandler),
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
}

func timeFields(templateID sharedtypes.TemplateID) []scoredb.ScoringField {
	return []scoredb.ScoringField{
		{
			ID:           uuid.New(),
			TemplateID:   uuid.UUID(templateID),
			FieldKey:     "time",
			Label:        "Time",
			InputKind:    "number",
			Required:     true,
			DisplayOrder: 1,
			Metadata:     scoredomain.FieldMetadata{Format: scorevalue.FormatTime, SortOrder: scoredomain.SortAscending},
		},
	}
}

func TestScoreService_SubmitScore_Insert(t *testing.T) {
	ctx := context.Background()

	templateID := sharedtypes.TemplateID(uuid.New())
	athleteID := sharedtypes.AthleteID(uuid.New())

	var inserted *scoredb.Score
	var replacedFor sharedtypes.ScoreID
	repo := &fakeRepo{
		GetFieldsFunc: func(ctx context.Context, db bun.IDB, id sharedtypes.TemplateID) ([]scoredb.ScoringField, error) {
			return timeFields(id), nil
		},
		FindScoreFunc: func(ctx context.Context, db bun.IDB, key scoredb.ScoreKey) (*scoredb.Score, error) {
			return nil, nil
		},
		InsertScoreFunc: func(ctx context.Context, db bun.IDB, score *scoredb.Score) error {
			score.ID = uuid.New()
			inserted = score
			return nil
		},
		ReplaceAttemptsFunc: func(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, attempts []scoredb.Attempt) error {
			replacedFor = scoreID
			require.Len(t, attempts, 1)
			assert.Equal(t, "time", attempts[0].FieldKey)
			assert.Equal(t, float64(65250), attempts[0].Value)
			assert.Equal(t, "01:05.250", attempts[0].FormattedValue)
			return nil
		},
	}
	bus := &fakeBus{}
	svc := newTestService(repo, nil, bus)

	result, err := svc.SubmitScore(ctx, SubmitScoreCommand{
		EventID:    sharedtypes.EventID(uuid.New()),
		ModalityID: sharedtypes.ModalityID(uuid.New()),
		TemplateID: templateID,
		JudgeID:    sharedtypes.JudgeID(uuid.New()),
		AthleteID:  &athleteID,
		Form:       map[string]string{"time": "01:05.250"},
	})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	require.NotNil(t, inserted)
	assert.Equal(t, int64(1), inserted.Version)
	assert.Equal(t, float64(65250), inserted.MainValue)
	assert.Equal(t, sharedtypes.ScoreID(inserted.ID), replacedFor)
	assert.Equal(t, float64(65250), result.Success.MainValue)
	assert.Equal(t, []sharedtypes.AthleteID{athleteID}, result.Success.AthleteIDs)
	assert.Len(t, bus.topics, 1)
}

func TestScoreService_SubmitScore_ValidationFailures(t *testing.T) {
	ctx := context.Background()
	athleteID := sharedtypes.AthleteID(uuid.New())
	teamID := sharedtypes.TeamID(uuid.New())

	repo := &fakeRepo{
		GetFieldsFunc: func(ctx context.Context, db bun.IDB, id sharedtypes.TemplateID) ([]scoredb.ScoringField, error) {
			return timeFields(id), nil
		},
	}
	svc := newTestService(repo, nil, nil)

	t.Run("both athlete and team", func(t *testing.T) {
		result, err := svc.SubmitScore(ctx, SubmitScoreCommand{
			AthleteID: &athleteID,
			TeamID:    &teamID,
			Form:      map[string]string{"time": "12"},
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Contains(t, result.Failure.Reason, "exactly one")
	})

	t.Run("neither athlete nor team", func(t *testing.T) {
		result, err := svc.SubmitScore(ctx, SubmitScoreCommand{
			Form: map[string]string{"time": "12"},
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
	})

	t.Run("missing required field", func(t *testing.T) {
		result, err := svc.SubmitScore(ctx, SubmitScoreCommand{
			AthleteID: &athleteID,
			Form:      map[string]string{},
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Contains(t, result.Failure.Reason, "missing required fields: time")
	})

	t.Run("unparseable main value", func(t *testing.T) {
		result, err := svc.SubmitScore(ctx, SubmitScoreCommand{
			AthleteID: &athleteID,
			Form:      map[string]string{"time": "12345678"},
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
	})
}

func TestScoreService_SubmitScore_VersionConflict(t *testing.T) {
	ctx := context.Background()
	athleteID := sharedtypes.AthleteID(uuid.New())
	stale := int64(1)

	existing := &scoredb.Score{ID: uuid.New(), Version: 2}
	repo := &fakeRepo{
		GetFieldsFunc: func(ctx context.Context, db bun.IDB, id sharedtypes.TemplateID) ([]scoredb.ScoringField, error) {
			return timeFields(id), nil
		},
		FindScoreFunc: func(ctx context.Context, db bun.IDB, key scoredb.ScoreKey) (*scoredb.Score, error) {
			return existing, nil
		},
		UpdateScoreFunc: func(ctx context.Context, db bun.IDB, score *scoredb.Score, expectedVersion int64) error {
			assert.Equal(t, stale, expectedVersion)
			return scoredb.ErrVersionConflict
		},
	}
	svc := newTestService(repo, nil, nil)

	_, err := svc.SubmitScore(ctx, SubmitScoreCommand{
		AthleteID:       &athleteID,
		Form:            map[string]string{"time": "12"},
		ExpectedVersion: &stale,
	})
	require.ErrorIs(t, err, scoredb.ErrVersionConflict)
}

func TestScoreService_SubmitScore_TeamFanOut(t *testing.T) {
	ctx := context.Background()
	teamID := sharedtypes.TeamID(uuid.New())
	members := []sharedtypes.AthleteID{
		sharedtypes.AthleteID(uuid.New()),
		sharedtypes.AthleteID(uuid.New()),
		sharedtypes.AthleteID(uuid.New()),
	}

	var inserted []*scoredb.Score
	var attemptsFor []sharedtypes.ScoreID
	repo := &fakeRepo{
		GetFieldsFunc: func(ctx context.Context, db bun.IDB, id sharedtypes.TemplateID) ([]scoredb.ScoringField, error) {
			return timeFields(id), nil
		},
		FindTeamScoresFunc: func(ctx context.Context, db bun.IDB, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, tID sharedtypes.TeamID, heatID *sharedtypes.HeatID) ([]scoredb.Score, error) {
			return nil, nil
		},
		InsertScoreFunc: func(ctx context.Context, db bun.IDB, score *scoredb.Score) error {
			score.ID = uuid.New()
			inserted = append(inserted, score)
			return nil
		},
		ReplaceAttemptsFunc: func(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, attempts []scoredb.Attempt) error {
			attemptsFor = append(attemptsFor, scoreID)
			return nil
		},
	}
	svc := newTestService(repo, &fakeRoster{members: members}, nil)

	result, err := svc.SubmitScore(ctx, SubmitScoreCommand{
		TeamID: &teamID,
		Form:   map[string]string{"time": "00:45.100"},
	})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	require.Len(t, inserted, 3)
	for i, score := range inserted {
		assert.Equal(t, uuid.UUID(members[i]), score.AthleteID)
		assert.Equal(t, float64(45100), score.MainValue)
		require.NotNil(t, score.TeamID)
		assert.Equal(t, uuid.UUID(teamID), *score.TeamID)
	}
	assert.Len(t, attemptsFor, 3)
	assert.Equal(t, members, result.Success.AthleteIDs)
}

func TestScoreService_SubmitScore_EmptyTeam(t *testing.T) {
	ctx := context.Background()
	teamID := sharedtypes.TeamID(uuid.New())

	repo := &fakeRepo{
		GetFieldsFunc: func(ctx context.Context, db bun.IDB, id sharedtypes.TemplateID) ([]scoredb.ScoringField, error) {
			return timeFields(id), nil
		},
	}
	svc := newTestService(repo, &fakeRoster{}, nil)

	result, err := svc.SubmitScore(ctx, SubmitScoreCommand{
		TeamID: &teamID,
		Form:   map[string]string{"time": "12"},
	})
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Equal(t, ErrTeamEmpty.Error(), result.Failure.Reason)
}
