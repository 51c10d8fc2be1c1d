package eventdb

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the event module's persistence interface.
type Repository interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context, branchID *uuid.UUID) ([]Event, error)
	UpdateEventStatus(ctx context.Context, id uuid.UUID, status EventStatus) error

	CreateModality(ctx context.Context, modality *Modality) error
	GetModality(ctx context.Context, id uuid.UUID) (*Modality, error)
	ListModalities(ctx context.Context, eventID uuid.UUID) ([]Modality, error)
	SetModalityTemplate(ctx context.Context, modalityID, templateID uuid.UUID) error

	CreateHeat(ctx context.Context, heat *Heat) error
	ListHeats(ctx context.Context, modalityID uuid.UUID) ([]Heat, error)
	NextHeatNumber(ctx context.Context, modalityID uuid.UUID) (int, error)
}

var _ Repository = (*EventDBImpl)(nil)
