package leaderboardservice

import (
	"context"
	"fmt"
	"sort"
	"time"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	leaderboardevents "github.com/placar-app/placar-backend/app/modules/leaderboard/domain/events"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// RankCommand identifies one ranking run.
type RankCommand struct {
	Scope    sharedtypes.ScoreScope
	FieldKey string
}

// RankedEntry is one athlete's computed placement.
type RankedEntry struct {
	AthleteID sharedtypes.AthleteID
	ScoreID   sharedtypes.ScoreID
	Rank      int
	Value     float64
}

// CalculateRanks sorts the scope's scores by main value, assigns standard
// competition ranks (ties share a rank, the next rank skips the tie size), and
// writes each rank back as an attempt on the calculated field.
//
// Preconditions are enforced here, not in the caller: at least two eligible
// participants, all of them with complete required fields. Violations return
// *InsufficientDataError.
func (s *LeaderboardService) CalculateRanks(ctx context.Context, cmd RankCommand) ([]RankedEntry, error) {
	return withTelemetry(s, ctx, "CalculateRanks", cmd.Scope.ModalityID, func(ctx context.Context) ([]RankedEntry, error) {
		fields, err := s.store.FieldsForTemplate(ctx, cmd.Scope.TemplateID)
		if err != nil {
			return nil, err
		}

		var target *scoredomain.ScoringField
		for i := range fields {
			if fields[i].Key == cmd.FieldKey {
				target = &fields[i]
				break
			}
		}
		if target == nil {
			return nil, fmt.Errorf("field %q not found in template %s", cmd.FieldKey, cmd.Scope.TemplateID)
		}
		if !target.Calculated() {
			return nil, &ErrFieldNotCalculated{FieldKey: cmd.FieldKey}
		}

		scores, err := s.store.ScoresForScope(ctx, cmd.Scope)
		if err != nil {
			return nil, err
		}
		participation, err := s.store.ParticipationMap(ctx, cmd.Scope.EventID, cmd.Scope.ModalityID, cmd.Scope.HeatID)
		if err != nil {
			return nil, err
		}

		eligible := make([]ScoreRow, 0, len(scores))
		var incomplete []sharedtypes.AthleteID
		for _, row := range scores {
			if flag, ok := participation[row.AthleteID]; ok && !flag {
				continue
			}
			if missing := scoredomain.MissingRequired(row.Form, fields); len(missing) > 0 {
				incomplete = append(incomplete, row.AthleteID)
				continue
			}
			eligible = append(eligible, row)
		}

		if len(incomplete) > 0 {
			return nil, &InsufficientDataError{EligibleCount: len(eligible), IncompleteAthletes: incomplete}
		}
		if len(eligible) < 2 {
			return nil, &InsufficientDataError{EligibleCount: len(eligible)}
		}

		entries := rank(eligible, target.Metadata.SortOrder)

		for _, entry := range entries {
			formatted := fmt.Sprintf("%dº", entry.Rank)
			if err := s.store.WriteRank(ctx, entry.ScoreID, cmd.FieldKey, entry.Rank, formatted); err != nil {
				return nil, err
			}
		}

		payload := leaderboardevents.RankedPayloadV1{
			EventID:    cmd.Scope.EventID,
			ModalityID: cmd.Scope.ModalityID,
			TemplateID: cmd.Scope.TemplateID,
			HeatID:     cmd.Scope.HeatID,
			FieldKey:   cmd.FieldKey,
			Entries:    toEventEntries(entries),
			RankedAt:   time.Now().UTC(),
		}
		s.publish(ctx, leaderboardevents.RankedV1, payload)

		s.logger.InfoContext(ctx, "Ranking calculated",
			attr.ExtractCorrelationID(ctx),
			attr.String("field_key", cmd.FieldKey),
			attr.Int("ranked", len(entries)),
		)
		return entries, nil
	})
}

// rank assigns standard competition ranking over the rows: equal values share
// the preceding rank, and the rank after a tie of size k skips k-1 positions.
func rank(rows []ScoreRow, order scoredomain.SortOrder) []RankedEntry {
	sorted := make([]ScoreRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == scoredomain.SortDescending {
			return sorted[i].MainValue > sorted[j].MainValue
		}
		return sorted[i].MainValue < sorted[j].MainValue
	})

	entries := make([]RankedEntry, len(sorted))
	for i, row := range sorted {
		currentRank := i + 1
		if i > 0 && row.MainValue == sorted[i-1].MainValue {
			currentRank = entries[i-1].Rank
		}
		entries[i] = RankedEntry{
			AthleteID: row.AthleteID,
			ScoreID:   row.ScoreID,
			Rank:      currentRank,
			Value:     row.MainValue,
		}
	}
	return entries
}

func toEventEntries(entries []RankedEntry) []leaderboardevents.RankedEntryV1 {
	out := make([]leaderboardevents.RankedEntryV1, len(entries))
	for i, e := range entries {
		out[i] = leaderboardevents.RankedEntryV1{
			AthleteID: e.AthleteID,
			ScoreID:   e.ScoreID,
			Rank:      e.Rank,
			Value:     e.Value,
		}
	}
	return out
}
