package eventservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	eventdb "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories"
)

// CreateModalityCommand carries a new modality's attributes.
type CreateModalityCommand struct {
	EventID  uuid.UUID
	Name     string
	TeamSize int
}

// CreateModality adds a discipline to an event.
func (s *EventService) CreateModality(ctx context.Context, cmd CreateModalityCommand) (*eventdb.Modality, error) {
	return withTelemetry(s, ctx, "CreateModality", func(ctx context.Context) (*eventdb.Modality, error) {
		if strings.TrimSpace(cmd.Name) == "" || cmd.EventID == uuid.Nil {
			return nil, ErrInvalidInput
		}
		if _, err := s.repo.GetEvent(ctx, cmd.EventID); err != nil {
			return nil, err
		}

		modality := &eventdb.Modality{
			EventID:  cmd.EventID,
			Name:     strings.TrimSpace(cmd.Name),
			TeamSize: cmd.TeamSize,
		}
		if err := s.repo.CreateModality(ctx, modality); err != nil {
			return nil, err
		}
		return modality, nil
	})
}

// ListModalities returns an event's disciplines.
func (s *EventService) ListModalities(ctx context.Context, eventID uuid.UUID) ([]eventdb.Modality, error) {
	return withTelemetry(s, ctx, "ListModalities", func(ctx context.Context) ([]eventdb.Modality, error) {
		return s.repo.ListModalities(ctx, eventID)
	})
}

// AssignTemplate links a scoring template to a modality.
func (s *EventService) AssignTemplate(ctx context.Context, modalityID, templateID uuid.UUID) error {
	_, err := withTelemetry(s, ctx, "AssignTemplate", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.SetModalityTemplate(ctx, modalityID, templateID)
	})
	return err
}

// CreateHeatCommand schedules a numbered run. Schedule accepts natural
// language; Number 0 auto-assigns the next number.
type CreateHeatCommand struct {
	ModalityID uuid.UUID
	Number     int
	Schedule   string
}

// CreateHeat adds a heat to a modality.
func (s *EventService) CreateHeat(ctx context.Context, cmd CreateHeatCommand) (*eventdb.Heat, error) {
	return withTelemetry(s, ctx, "CreateHeat", func(ctx context.Context) (*eventdb.Heat, error) {
		if cmd.ModalityID == uuid.Nil {
			return nil, ErrInvalidInput
		}
		if _, err := s.repo.GetModality(ctx, cmd.ModalityID); err != nil {
			return nil, err
		}

		heat := &eventdb.Heat{
			ModalityID: cmd.ModalityID,
			Number:     cmd.Number,
		}
		if heat.Number == 0 {
			next, err := s.repo.NextHeatNumber(ctx, cmd.ModalityID)
			if err != nil {
				return nil, err
			}
			heat.Number = next
		}
		if cmd.Schedule != "" {
			t, err := s.schedule.Parse(cmd.Schedule)
			if err != nil {
				return nil, err
			}
			heat.ScheduledAt = &t
		}

		if err := s.repo.CreateHeat(ctx, heat); err != nil {
			return nil, err
		}
		return heat, nil
	})
}

// ListHeats returns a modality's heats in number order.
func (s *EventService) ListHeats(ctx context.Context, modalityID uuid.UUID) ([]eventdb.Heat, error) {
	return withTelemetry(s, ctx, "ListHeats", func(ctx context.Context) ([]eventdb.Heat, error) {
		return s.repo.ListHeats(ctx, modalityID)
	})
}
