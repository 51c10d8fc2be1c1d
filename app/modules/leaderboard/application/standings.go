package leaderboardservice

import (
	"context"
	"sort"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// StandingRow is one line of a standings view.
type StandingRow struct {
	AthleteID sharedtypes.AthleteID
	ScoreID   sharedtypes.ScoreID
	MainValue float64
	Rank      *int
	Attempts  map[string]string // field key -> formatted value
}

// Standings returns the scope's scores with their stored attempts, ordered by
// stored rank when a ranking has run, otherwise by main value per rankField's
// sort order. Athletes without a stored rank sort after ranked ones.
func (s *LeaderboardService) Standings(ctx context.Context, scope sharedtypes.ScoreScope, rankField string) ([]StandingRow, error) {
	return withTelemetry(s, ctx, "Standings", scope.ModalityID, func(ctx context.Context) ([]StandingRow, error) {
		scores, err := s.store.ScoresForScope(ctx, scope)
		if err != nil {
			return nil, err
		}
		if len(scores) == 0 {
			return nil, nil
		}

		ids := make([]sharedtypes.ScoreID, len(scores))
		for i, row := range scores {
			ids[i] = row.ScoreID
		}
		attempts, err := s.store.AttemptsForScores(ctx, ids)
		if err != nil {
			return nil, err
		}
		byScore := make(map[sharedtypes.ScoreID][]AttemptRow)
		for _, a := range attempts {
			byScore[a.ScoreID] = append(byScore[a.ScoreID], a)
		}

		order := scoredomain.SortAscending
		if fields, err := s.store.FieldsForTemplate(ctx, scope.TemplateID); err == nil {
			for _, f := range fields {
				if f.Key == rankField {
					if f.Metadata.SortOrder != "" {
						order = f.Metadata.SortOrder
					}
					break
				}
			}
		}

		rows := make([]StandingRow, len(scores))
		for i, score := range scores {
			row := StandingRow{
				AthleteID: score.AthleteID,
				ScoreID:   score.ScoreID,
				MainValue: score.MainValue,
				Attempts:  make(map[string]string),
			}
			for _, a := range byScore[score.ScoreID] {
				row.Attempts[a.FieldKey] = a.FormattedValue
				if a.FieldKey == rankField {
					r := int(a.Value)
					row.Rank = &r
				}
			}
			rows[i] = row
		}

		sort.SliceStable(rows, func(i, j int) bool {
			ri, rj := rows[i].Rank, rows[j].Rank
			switch {
			case ri != nil && rj != nil:
				return *ri < *rj
			case ri != nil:
				return true
			case rj != nil:
				return false
			}
			if order == scoredomain.SortDescending {
				return rows[i].MainValue > rows[j].MainValue
			}
			return rows[i].MainValue < rows[j].MainValue
		})
		return rows, nil
	})
}
