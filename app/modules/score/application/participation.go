package scoreservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	scoreevents "github.com/placar-app/placar-backend/app/modules/score/domain/events"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ParticipationCommand toggles an athlete's inclusion in ranking runs.
// An athlete with no stored row counts as participating, so rows mostly exist
// to record the negative.
type ParticipationCommand struct {
	AthleteID     sharedtypes.AthleteID
	ModalityID    sharedtypes.ModalityID
	EventID       sharedtypes.EventID
	HeatID        *sharedtypes.HeatID
	Participating bool
}

// SetParticipation upserts the participation flag and announces the change.
func (s *ScoreService) SetParticipation(ctx context.Context, cmd ParticipationCommand) error {
	var heatID *uuid.UUID
	if cmd.HeatID != nil {
		id := uuid.UUID(*cmd.HeatID)
		heatID = &id
	}
	p := &scoredb.Participation{
		AthleteID:     uuid.UUID(cmd.AthleteID),
		ModalityID:    uuid.UUID(cmd.ModalityID),
		EventID:       uuid.UUID(cmd.EventID),
		HeatID:        heatID,
		Participating: cmd.Participating,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.repo.SetParticipation(ctx, nil, p); err != nil {
		return err
	}

	s.publish(ctx, scoreevents.ParticipationChangedV1, scoreevents.ParticipationChangedPayloadV1{
		AthleteID:     cmd.AthleteID,
		EventID:       cmd.EventID,
		ModalityID:    cmd.ModalityID,
		HeatID:        cmd.HeatID,
		Participating: cmd.Participating,
	})

	s.logger.InfoContext(ctx, "Participation updated",
		attr.ExtractCorrelationID(ctx),
		attr.String("athlete_id", cmd.AthleteID.String()),
		attr.Bool("participating", cmd.Participating),
	)
	return nil
}
