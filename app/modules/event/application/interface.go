package eventservice

import (
	"context"

	"github.com/google/uuid"

	eventdb "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories"
)

// Service is the event module's application interface.
type Service interface {
	CreateEvent(ctx context.Context, cmd CreateEventCommand) (*eventdb.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*eventdb.Event, error)
	ListEvents(ctx context.Context, branchID *uuid.UUID) ([]eventdb.Event, error)
	TransitionEvent(ctx context.Context, id uuid.UUID, target eventdb.EventStatus) error

	CreateModality(ctx context.Context, cmd CreateModalityCommand) (*eventdb.Modality, error)
	ListModalities(ctx context.Context, eventID uuid.UUID) ([]eventdb.Modality, error)
	AssignTemplate(ctx context.Context, modalityID, templateID uuid.UUID) error

	CreateHeat(ctx context.Context, cmd CreateHeatCommand) (*eventdb.Heat, error)
	ListHeats(ctx context.Context, modalityID uuid.UUID) ([]eventdb.Heat, error)
}

var _ Service = (*EventService)(nil)
