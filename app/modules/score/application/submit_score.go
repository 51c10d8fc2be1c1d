package scoreservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	scoreevents "github.com/placar-app/placar-backend/app/modules/score/domain/events"
	"github.com/placar-app/placar-backend/app/modules/score/domain/scorevalue"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/results"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ErrTeamEmpty reports a team submission whose roster resolved to no athletes.
var ErrTeamEmpty = errors.New("team has no enrolled athletes for this modality")

// SubmitScoreCommand carries one judge submission. Exactly one of AthleteID
// and TeamID must be set.
type SubmitScoreCommand struct {
	EventID    sharedtypes.EventID
	ModalityID sharedtypes.ModalityID
	TemplateID sharedtypes.TemplateID
	JudgeID    sharedtypes.JudgeID
	AthleteID  *sharedtypes.AthleteID
	TeamID     *sharedtypes.TeamID
	HeatID     *sharedtypes.HeatID
	Lane       *int
	Notes      string
	Form       map[string]string

	// ExpectedVersion guards individual updates against concurrent judges.
	// Nil skips the check, which is only safe for first-time writes.
	ExpectedVersion *int64
}

func (cmd SubmitScoreCommand) failure(reason string) ScoreOperationResult {
	return results.Failure[scoreevents.ScoreUpdatedPayloadV1](scoreevents.ScoreUpdateFailedPayloadV1{
		EventID:    cmd.EventID,
		ModalityID: cmd.ModalityID,
		Reason:     reason,
	})
}

// SubmitScore upserts the score row(s) for the command's tuple and replaces
// the attempt set, all inside one transaction. Team submissions fan the same
// value out to every roster member.
func (s *ScoreService) SubmitScore(ctx context.Context, cmd SubmitScoreCommand) (ScoreOperationResult, error) {
	return s.serviceWrapper(ctx, "SubmitScore", cmd.ModalityID, func(ctx context.Context) (ScoreOperationResult, error) {
		if (cmd.AthleteID == nil) == (cmd.TeamID == nil) {
			return cmd.failure("exactly one of athlete or team must be identified"), nil
		}

		fields, err := s.repo.GetFields(ctx, nil, cmd.TemplateID)
		if err != nil {
			return ScoreOperationResult{}, err
		}
		if len(fields) == 0 {
			return cmd.failure("scoring template has no fields"), nil
		}
		domainFields := toDomainFields(fields)

		if missing := scoredomain.MissingRequired(cmd.Form, domainFields); len(missing) > 0 {
			return cmd.failure("missing required fields: " + strings.Join(missing, ", ")), nil
		}

		mainValue, err := scoredomain.ComputeMainValue(cmd.Form, domainFields)
		if err != nil {
			var parseErr *scorevalue.ParseError
			if errors.As(err, &parseErr) || errors.Is(err, scoredomain.ErrNoScorableValue) {
				return cmd.failure(err.Error()), nil
			}
			return ScoreOperationResult{}, err
		}

		attempts := buildAttempts(cmd.Form, domainFields)

		var members []sharedtypes.AthleteID
		if cmd.TeamID != nil {
			members, err = s.roster.TeamMemberIDs(ctx, cmd.EventID, cmd.ModalityID, *cmd.TeamID)
			if err != nil {
				return ScoreOperationResult{}, err
			}
			if len(members) == 0 {
				return cmd.failure(ErrTeamEmpty.Error()), nil
			}
		}

		var (
			scoreIDs   []sharedtypes.ScoreID
			athleteIDs []sharedtypes.AthleteID
			recordedAt = time.Now().UTC()
		)
		txErr := s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
			if cmd.TeamID != nil {
				scoreIDs, athleteIDs, err = s.writeTeamScores(ctx, db, cmd, members, mainValue, attempts, recordedAt)
				return err
			}
			scoreIDs, athleteIDs, err = s.writeIndividualScore(ctx, db, cmd, mainValue, attempts, recordedAt)
			return err
		})
		if txErr != nil {
			return ScoreOperationResult{}, txErr
		}

		payload := scoreevents.ScoreUpdatedPayloadV1{
			ScoreIDs:   scoreIDs,
			EventID:    cmd.EventID,
			ModalityID: cmd.ModalityID,
			TemplateID: cmd.TemplateID,
			JudgeID:    cmd.JudgeID,
			HeatID:     cmd.HeatID,
			TeamID:     cmd.TeamID,
			AthleteIDs: athleteIDs,
			MainValue:  mainValue,
			RecordedAt: recordedAt,
		}
		s.publish(ctx, scoreevents.ScoreUpdatedV1, payload)

		s.logger.InfoContext(ctx, "Score submitted",
			attr.ExtractCorrelationID(ctx),
			attr.Int("score_rows", len(scoreIDs)),
			attr.Float64("main_value", mainValue),
		)
		return results.Success[scoreevents.ScoreUpdatedPayloadV1, scoreevents.ScoreUpdateFailedPayloadV1](payload), nil
	})
}

// writeIndividualScore performs the read-before-write upsert for one athlete.
func (s *ScoreService) writeIndividualScore(
	ctx context.Context,
	db bun.IDB,
	cmd SubmitScoreCommand,
	mainValue float64,
	attempts []scoredb.Attempt,
	recordedAt time.Time,
) ([]sharedtypes.ScoreID, []sharedtypes.AthleteID, error) {
	key := scoredb.ScoreKey{
		AthleteID:  *cmd.AthleteID,
		ModalityID: cmd.ModalityID,
		EventID:    cmd.EventID,
		JudgeID:    cmd.JudgeID,
		TemplateID: cmd.TemplateID,
		HeatID:     cmd.HeatID,
	}

	existing, err := s.repo.FindScore(ctx, db, key)
	if err != nil {
		return nil, nil, err
	}

	var scoreID sharedtypes.ScoreID
	if existing != nil {
		expected := existing.Version
		if cmd.ExpectedVersion != nil {
			expected = *cmd.ExpectedVersion
		}
		existing.MainValue = mainValue
		existing.Notes = cmd.Notes
		existing.Lane = cmd.Lane
		existing.FormData = cmd.Form
		existing.UpdatedAt = recordedAt
		if err := s.repo.UpdateScore(ctx, db, existing, expected); err != nil {
			return nil, nil, err
		}
		scoreID = sharedtypes.ScoreID(existing.ID)
	} else {
		score := newScoreRow(cmd, *cmd.AthleteID, mainValue, recordedAt)
		if err := s.repo.InsertScore(ctx, db, score); err != nil {
			return nil, nil, err
		}
		scoreID = sharedtypes.ScoreID(score.ID)
	}

	if err := s.repo.ReplaceAttempts(ctx, db, scoreID, cloneAttempts(attempts)); err != nil {
		return nil, nil, err
	}
	return []sharedtypes.ScoreID{scoreID}, []sharedtypes.AthleteID{*cmd.AthleteID}, nil
}

// writeTeamScores fans the same value out to every roster member. Existing
// rows are updated in place; otherwise one row per member is inserted. The
// caller wraps this in a single transaction.
func (s *ScoreService) writeTeamScores(
	ctx context.Context,
	db bun.IDB,
	cmd SubmitScoreCommand,
	members []sharedtypes.AthleteID,
	mainValue float64,
	attempts []scoredb.Attempt,
	recordedAt time.Time,
) ([]sharedtypes.ScoreID, []sharedtypes.AthleteID, error) {
	existing, err := s.repo.FindTeamScores(ctx, db, cmd.EventID, cmd.ModalityID, *cmd.TeamID, cmd.HeatID)
	if err != nil {
		return nil, nil, err
	}

	var scoreIDs []sharedtypes.ScoreID
	if len(existing) > 0 {
		for i := range existing {
			row := &existing[i]
			row.MainValue = mainValue
			row.Notes = cmd.Notes
			row.Lane = cmd.Lane
			row.FormData = cmd.Form
			row.UpdatedAt = recordedAt
			if err := s.repo.UpdateScore(ctx, db, row, row.Version); err != nil {
				return nil, nil, fmt.Errorf("team fan-out update for athlete %s: %w", row.AthleteID, err)
			}
			scoreIDs = append(scoreIDs, sharedtypes.ScoreID(row.ID))
		}
	} else {
		for _, member := range members {
			score := newScoreRow(cmd, member, mainValue, recordedAt)
			if err := s.repo.InsertScore(ctx, db, score); err != nil {
				return nil, nil, fmt.Errorf("team fan-out insert for athlete %s: %w", member, err)
			}
			scoreIDs = append(scoreIDs, sharedtypes.ScoreID(score.ID))
		}
	}

	for _, id := range scoreIDs {
		if err := s.repo.ReplaceAttempts(ctx, db, id, cloneAttempts(attempts)); err != nil {
			return nil, nil, err
		}
	}
	return scoreIDs, members, nil
}

func newScoreRow(cmd SubmitScoreCommand, athleteID sharedtypes.AthleteID, mainValue float64, recordedAt time.Time) *scoredb.Score {
	var heatID, teamID *uuid.UUID
	if cmd.HeatID != nil {
		id := uuid.UUID(*cmd.HeatID)
		heatID = &id
	}
	if cmd.TeamID != nil {
		id := uuid.UUID(*cmd.TeamID)
		teamID = &id
	}
	return &scoredb.Score{
		AthleteID:  uuid.UUID(athleteID),
		ModalityID: uuid.UUID(cmd.ModalityID),
		EventID:    uuid.UUID(cmd.EventID),
		JudgeID:    uuid.UUID(cmd.JudgeID),
		TemplateID: uuid.UUID(cmd.TemplateID),
		HeatID:     heatID,
		TeamID:     teamID,
		MainValue:  mainValue,
		Notes:      cmd.Notes,
		Lane:       cmd.Lane,
		FormData:   cmd.Form,
		Version:    1,
		RecordedAt: recordedAt,
		UpdatedAt:  recordedAt,
	}
}

// buildAttempts converts non-empty submitted fields into attempt rows.
// Calculated fields are skipped; ranking runs own those. Values that do not
// parse keep the raw string as their formatted value with a zero canonical
// value (text fields have no numeric reading).
func buildAttempts(form map[string]string, fields []scoredomain.ScoringField) []scoredb.Attempt {
	var attempts []scoredb.Attempt
	for _, f := range scoredomain.OrderFields(fields) {
		if f.Calculated() {
			continue
		}
		raw, ok := form[f.Key]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		attempt := scoredb.Attempt{FieldKey: f.Key, FormattedValue: raw}
		if value, err := scorevalue.Parse(raw, f.Metadata.Format); err == nil {
			attempt.Value = value
			attempt.FormattedValue = scorevalue.FormatValue(value, f.Metadata.Format)
		}
		attempts = append(attempts, attempt)
	}
	return attempts
}

func cloneAttempts(attempts []scoredb.Attempt) []scoredb.Attempt {
	cloned := make([]scoredb.Attempt, len(attempts))
	copy(cloned, attempts)
	for i := range cloned {
		cloned[i].ID = uuid.Nil
	}
	return cloned
}

func toDomainFields(fields []scoredb.ScoringField) []scoredomain.ScoringField {
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
	return out
}
