package leaderboardservice

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	"github.com/placar-app/placar-backend/internal/observability"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// fakeStore implements ScoreStore with overridable functions.
type fakeStore struct {
	ScoresForScopeFunc    func(ctx context.Context, scope sharedtypes.ScoreScope) ([]ScoreRow, error)
	FieldsForTemplateFunc func(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error)
	ParticipationMapFunc  func(ctx context.Context, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, heatID *sharedtypes.HeatID) (map[sharedtypes.AthleteID]bool, error)
	WriteRankFunc         func(ctx context.Context, scoreID sharedtypes.ScoreID, fieldKey string, rank int, formatted string) error
	AttemptsForScoresFunc func(ctx context.Context, scoreIDs []sharedtypes.ScoreID) ([]AttemptRow, error)
}

func (f *fakeStore) ScoresForScope(ctx context.Context, scope sharedtypes.ScoreScope) ([]ScoreRow, error) {
	return f.ScoresForScopeFunc(ctx, scope)
}
func (f *fakeStore) FieldsForTemplate(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error) {
	return f.FieldsForTemplateFunc(ctx, templateID)
}
func (f *fakeStore) ParticipationMap(ctx context.Context, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, heatID *sharedtypes.HeatID) (map[sharedtypes.AthleteID]bool, error) {
	if f.ParticipationMapFunc == nil {
		return map[sharedtypes.AthleteID]bool{}, nil
	}
	return f.ParticipationMapFunc(ctx, eventID, modalityID, heatID)
}
func (f *fakeStore) WriteRank(ctx context.Context, scoreID sharedtypes.ScoreID, fieldKey string, rank int, formatted string) error {
	if f.WriteRankFunc == nil {
		return nil
	}
	return f.WriteRankFunc(ctx, scoreID, fieldKey, rank, formatted)
}
func (f *fakeStore) AttemptsForScores(ctx context.Context, scoreIDs []sharedtypes.ScoreID) ([]AttemptRow, error) {
	return f.AttemptsForScoresFunc(ctx, scoreIDs)
}

func newTestService(store ScoreStore) *LeaderboardService {
	return NewLeaderboardService(
		store,
		nil,
		slog.New(slog.DiscardHandler),
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
	)
}

func placementFields(order scoredomain.SortOrder) []scoredomain.ScoringField {
	return []scoredomain.ScoringField{
		{
			Key:          "points",
			InputKind:    scoredomain.InputNumber,
			Required:     true,
			DisplayOrder: 1,
		},
		{
			Key:          "placement",
			InputKind:    scoredomain.InputCalculated,
			DisplayOrder: 2,
			Metadata: scoredomain.FieldMetadata{
				CalculationType: scoredomain.CalcHeatPlacement,
				ReferenceField:  "points",
				SortOrder:       order,
			},
		},
	}
}

func scoreRow(value float64) ScoreRow {
	return ScoreRow{
		ScoreID:   sharedtypes.ScoreID(uuid.New()),
		AthleteID: sharedtypes.AthleteID(uuid.New()),
		MainValue: value,
		Form:      map[string]string{"points": "set"},
	}
}

func TestCalculateRanks_StandardCompetitionTies(t *testing.T) {
	tests := []struct {
		name      string
		order     scoredomain.SortOrder
		values    []float64
		wantRanks []int
		wantOrder []float64
	}{
		{
			name:      "descending with tie at the top",
			order:     scoredomain.SortDescending,
			values:    []float64{10, 8, 10},
			wantRanks: []int{1, 1, 3},
			wantOrder: []float64{10, 10, 8},
		},
		{
			name:      "ascending with tie at the top",
			order:     scoredomain.SortAscending,
			values:    []float64{12.5, 9.0, 12.5},
			wantRanks: []int{1, 2, 2},
			wantOrder: []float64{9.0, 12.5, 12.5},
		},
		{
			name:      "triple tie skips two positions",
			order:     scoredomain.SortDescending,
			values:    []float64{7, 7, 7, 5},
			wantRanks: []int{1, 1, 1, 4},
			wantOrder: []float64{7, 7, 7, 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]ScoreRow, len(tt.values))
			for i, v := range tt.values {
				rows[i] = scoreRow(v)
			}

			written := map[sharedtypes.ScoreID]int{}
			store := &fakeStore{
				FieldsForTemplateFunc: func(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error) {
					return placementFields(tt.order), nil
				},
				ScoresForScopeFunc: func(ctx context.Context, scope sharedtypes.ScoreScope) ([]ScoreRow, error) {
					return rows, nil
				},
				WriteRankFunc: func(ctx context.Context, scoreID sharedtypes.ScoreID, fieldKey string, rank int, formatted string) error {
					assert.Equal(t, "placement", fieldKey)
					written[scoreID] = rank
					return nil
				},
			}
			svc := newTestService(store)

			entries, err := svc.CalculateRanks(context.Background(), RankCommand{
				Scope:    sharedtypes.ScoreScope{ModalityID: sharedtypes.ModalityID(uuid.New())},
				FieldKey: "placement",
			})
			require.NoError(t, err)
			require.Len(t, entries, len(tt.values))

			for i, entry := range entries {
				assert.Equal(t, tt.wantRanks[i], entry.Rank, "rank at position %d", i)
				assert.Equal(t, tt.wantOrder[i], entry.Value, "value at position %d", i)
				assert.Equal(t, entry.Rank, written[entry.ScoreID])
			}
		})
	}
}

func TestCalculateRanks_ParticipationDefaultsToTrue(t *testing.T) {
	rows := []ScoreRow{scoreRow(10), scoreRow(8), scoreRow(6)}
	excluded := rows[2].AthleteID

	store := &fakeStore{
		FieldsForTemplateFunc: func(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error) {
			return placementFields(scoredomain.SortDescending), nil
		},
		ScoresForScopeFunc: func(ctx context.Context, scope sharedtypes.ScoreScope) ([]ScoreRow, error) {
			return rows, nil
		},
		ParticipationMapFunc: func(ctx context.Context, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, heatID *sharedtypes.HeatID) (map[sharedtypes.AthleteID]bool, error) {
			// Only the excluded athlete has a stored flag; the rest
			// default to participating.
			return map[sharedtypes.AthleteID]bool{excluded: false}, nil
		},
	}
	svc := newTestService(store)

	entries, err := svc.CalculateRanks(context.Background(), RankCommand{FieldKey: "placement"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.NotEqual(t, excluded, entry.AthleteID)
	}
}

func TestCalculateRanks_InsufficientData(t *testing.T) {
	t.Run("fewer than two eligible", func(t *testing.T) {
		store := &fakeStore{
			FieldsForTemplateFunc: func(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error) {
				return placementFields(scoredomain.SortDescending), nil
			},
			ScoresForScopeFunc: func(ctx context.Context, scope sharedtypes.ScoreScope) ([]ScoreRow, error) {
				return []ScoreRow{scoreRow(10)}, nil
			},
		}
		svc := newTestService(store)

		_, err := svc.CalculateRanks(context.Background(), RankCommand{FieldKey: "placement"})
		var insufficientErr *InsufficientDataError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, 1, insufficientErr.EligibleCount)
		assert.Empty(t, insufficientErr.IncompleteAthletes)
	})

	t.Run("incomplete required fields block the run", func(t *testing.T) {
		complete := scoreRow(10)
		incomplete := ScoreRow{
			ScoreID:   sharedtypes.ScoreID(uuid.New()),
			AthleteID: sharedtypes.AthleteID(uuid.New()),
			MainValue: 8,
			Form:      map[string]string{},
		}
		store := &fakeStore{
			FieldsForTemplateFunc: func(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error) {
				return placementFields(scoredomain.SortDescending), nil
			},
			ScoresForScopeFunc: func(ctx context.Context, scope sharedtypes.ScoreScope) ([]ScoreRow, error) {
				return []ScoreRow{complete, incomplete}, nil
			},
		}
		svc := newTestService(store)

		_, err := svc.CalculateRanks(context.Background(), RankCommand{FieldKey: "placement"})
		var insufficientErr *InsufficientDataError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, []sharedtypes.AthleteID{incomplete.AthleteID}, insufficientErr.IncompleteAthletes)
	})
}

func TestCalculateRanks_FieldValidation(t *testing.T) {
	store := &fakeStore{
		FieldsForTemplateFunc: func(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error) {
			return placementFields(scoredomain.SortDescending), nil
		},
	}
	svc := newTestService(store)

	t.Run("unknown field", func(t *testing.T) {
		_, err := svc.CalculateRanks(context.Background(), RankCommand{FieldKey: "nope"})
		require.Error(t, err)
	})

	t.Run("field is not calculated", func(t *testing.T) {
		_, err := svc.CalculateRanks(context.Background(), RankCommand{FieldKey: "points"})
		var notCalc *ErrFieldNotCalculated
		require.ErrorAs(t, err, &notCalc)
		assert.Equal(t, "points", notCalc.FieldKey)
	})
}
