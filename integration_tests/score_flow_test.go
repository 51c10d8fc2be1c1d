package integrationtests

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaderboardservice "github.com/placar-app/placar-backend/app/modules/leaderboard/application"
	leaderboardadapters "github.com/placar-app/placar-backend/app/modules/leaderboard/infrastructure/adapters"
	scoreservice "github.com/placar-app/placar-backend/app/modules/score/application"
	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	"github.com/placar-app/placar-backend/app/modules/score/domain/scorevalue"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

func sprintTemplate() []scoredomain.ScoringField {
	return []scoredomain.ScoringField{
		{
			Key:          "time",
			Label:        "Tempo",
			InputKind:    scoredomain.InputNumber,
			Required:     true,
			DisplayOrder: 1,
			Metadata: scoredomain.FieldMetadata{
				Format:    scorevalue.FormatTime,
				SortOrder: scoredomain.SortAscending,
			},
		},
		{
			Key:          "heat_rank",
			Label:        "Colocacao",
			InputKind:    scoredomain.InputCalculated,
			DisplayOrder: 2,
			Metadata: scoredomain.FieldMetadata{
				CalculationType: scoredomain.CalcHeatPlacement,
				ReferenceField:  "time",
			},
		},
	}
}

// TestScoreFlow drives a full judging cycle against a real database: author a
// template, record three athletes' times, rank them, and read the standings
// back.
func TestScoreFlow(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	repo := &scoredb.ScoreDBImpl{DB: db}
	svc := scoreservice.NewScoreService(repo, nil, nil, testLogger, testMetrics, testTracer, db)

	eventID := sharedtypes.EventID(uuid.New())
	modalityID := sharedtypes.ModalityID(uuid.New())
	judgeID := sharedtypes.JudgeID(uuid.New())

	templateID, err := svc.CreateTemplate(ctx, modalityID, "Sprint Timing", sprintTemplate())
	require.NoError(t, err)

	fields, err := svc.GetTemplateFields(ctx, templateID)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "time", fields[0].Key)

	athletes := []sharedtypes.AthleteID{
		sharedtypes.AthleteID(uuid.New()),
		sharedtypes.AthleteID(uuid.New()),
		sharedtypes.AthleteID(uuid.New()),
	}
	times := []string{"01:05.250", "01:03.100", "01:05.250"}

	submit := func(athlete sharedtypes.AthleteID, raw string, expectedVersion *int64) (scoreservice.ScoreOperationResult, error) {
		return svc.SubmitScore(ctx, scoreservice.SubmitScoreCommand{
			EventID:         eventID,
			ModalityID:      modalityID,
			TemplateID:      templateID,
			JudgeID:         judgeID,
			AthleteID:       &athlete,
			Form:            map[string]string{"time": raw},
			ExpectedVersion: expectedVersion,
		})
	}

	scoreIDs := make(map[sharedtypes.AthleteID]sharedtypes.ScoreID)
	for i, athlete := range athletes {
		result, err := submit(athlete, times[i], nil)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		require.Len(t, result.Success.ScoreIDs, 1)
		scoreIDs[athlete] = result.Success.ScoreIDs[0]
	}

	t.Run("resubmission bumps the version", func(t *testing.T) {
		v1 := int64(1)
		result, err := submit(athletes[0], "01:04.900", &v1)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, float64(64900), result.Success.MainValue)

		// The same expected version a second time is stale now.
		_, err = submit(athletes[0], "01:04.000", &v1)
		require.ErrorIs(t, err, scoredb.ErrVersionConflict)
	})

	scope := sharedtypes.ScoreScope{
		EventID:    eventID,
		ModalityID: modalityID,
		TemplateID: templateID,
	}
	store := leaderboardadapters.NewScoreStoreAdapter(repo)
	lb := leaderboardservice.NewLeaderboardService(store, nil, testLogger, testMetrics, testTracer)

	t.Run("ranking writes placements back", func(t *testing.T) {
		entries, err := lb.CalculateRanks(ctx, leaderboardservice.RankCommand{
			Scope:    scope,
			FieldKey: "heat_rank",
		})
		require.NoError(t, err)

		// Ascending on time: 01:03.100 first, 01:04.900 second, 01:05.250 third.
		want := []leaderboardservice.RankedEntry{
			{AthleteID: athletes[1], ScoreID: scoreIDs[athletes[1]], Rank: 1, Value: 63100},
			{AthleteID: athletes[0], ScoreID: scoreIDs[athletes[0]], Rank: 2, Value: 64900},
			{AthleteID: athletes[2], ScoreID: scoreIDs[athletes[2]], Rank: 3, Value: 65250},
		}
		if diff := cmp.Diff(want, entries); diff != "" {
			t.Errorf("ranked entries mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("standings order by stored rank", func(t *testing.T) {
		rows, err := lb.Standings(ctx, scope, "heat_rank")
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, athletes[1], rows[0].AthleteID)
		require.NotNil(t, rows[0].Rank)
		assert.Equal(t, 1, *rows[0].Rank)
		assert.Equal(t, "01:03.100", rows[0].Attempts["time"])
		assert.Equal(t, athletes[2], rows[2].AthleteID)
	})

	t.Run("non-participant drops out of the next run", func(t *testing.T) {
		require.NoError(t, svc.SetParticipation(ctx, scoreservice.ParticipationCommand{
			EventID:       eventID,
			ModalityID:    modalityID,
			AthleteID:     athletes[2],
			Participating: false,
		}))

		entries, err := lb.CalculateRanks(ctx, leaderboardservice.RankCommand{
			Scope:    scope,
			FieldKey: "heat_rank",
		})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, athletes[1], entries[0].AthleteID)
		assert.Equal(t, athletes[0], entries[1].AthleteID)
	})
}
