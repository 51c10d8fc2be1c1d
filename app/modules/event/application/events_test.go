package eventservice

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	eventdb "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/observability"
)

// fakeEventRepo implements eventdb.Repository with overridable functions.
type fakeEventRepo struct {
	CreateEventFunc         func(ctx context.Context, event *eventdb.Event) error
	GetEventFunc            func(ctx context.Context, id uuid.UUID) (*eventdb.Event, error)
	GetEventBySlugFunc      func(ctx context.Context, slug string) (*eventdb.Event, error)
	ListEventsFunc          func(ctx context.Context, branchID *uuid.UUID) ([]eventdb.Event, error)
	UpdateEventStatusFunc   func(ctx context.Context, id uuid.UUID, status eventdb.EventStatus) error
	CreateModalityFunc      func(ctx context.Context, modality *eventdb.Modality) error
	GetModalityFunc         func(ctx context.Context, id uuid.UUID) (*eventdb.Modality, error)
	ListModalitiesFunc      func(ctx context.Context, eventID uuid.UUID) ([]eventdb.Modality, error)
	SetModalityTemplateFunc func(ctx context.Context, modalityID, templateID uuid.UUID) error
	CreateHeatFunc          func(ctx context.Context, heat *eventdb.Heat) error
	ListHeatsFunc           func(ctx context.Context, modalityID uuid.UUID) ([]eventdb.Heat, error)
	NextHeatNumberFunc      func(ctx context.Context, modalityID uuid.UUID) (int, error)
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, event *eventdb.Event) error {
	return f.CreateEventFunc(ctx, event)
}
func (f *fakeEventRepo) GetEvent(ctx context.Context, id uuid.UUID) (*eventdb.Event, error) {
	return f.GetEventFunc(ctx, id)
}
func (f *fakeEventRepo) GetEventBySlug(ctx context.Context, slug string) (*eventdb.Event, error) {
	return f.GetEventBySlugFunc(ctx, slug)
}
func (f *fakeEventRepo) ListEvents(ctx context.Context, branchID *uuid.UUID) ([]eventdb.Event, error) {
	return f.ListEventsFunc(ctx, branchID)
}
func (f *fakeEventRepo) UpdateEventStatus(ctx context.Context, id uuid.UUID, status eventdb.EventStatus) error {
	return f.UpdateEventStatusFunc(ctx, id, status)
}
func (f *fakeEventRepo) CreateModality(ctx context.Context, modality *eventdb.Modality) error {
	return f.CreateModalityFunc(ctx, modality)
}
func (f *fakeEventRepo) GetModality(ctx context.Context, id uuid.UUID) (*eventdb.Modality, error) {
	return f.GetModalityFunc(ctx, id)
}
func (f *fakeEventRepo) ListModalities(ctx context.Context, eventID uuid.UUID) ([]eventdb.Modality, error) {
	return f.ListModalitiesFunc(ctx, eventID)
}
func (f *fakeEventRepo) SetModalityTemplate(ctx context.Context, modalityID, templateID uuid.UUID) error {
	return f.SetModalityTemplateFunc(ctx, modalityID, templateID)
}
func (f *fakeEventRepo) CreateHeat(ctx context.Context, heat *eventdb.Heat) error {
	return f.CreateHeatFunc(ctx, heat)
}
func (f *fakeEventRepo) ListHeats(ctx context.Context, modalityID uuid.UUID) ([]eventdb.Heat, error) {
	return f.ListHeatsFunc(ctx, modalityID)
}
func (f *fakeEventRepo) NextHeatNumber(ctx context.Context, modalityID uuid.UUID) (int, error) {
	return f.NextHeatNumberFunc(ctx, modalityID)
}

func newTestEventService(repo eventdb.Repository) *EventService {
	parser := NewScheduleParser(fixedClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)})
	return NewEventService(
		repo,
		parser,
		nil,
		slog.New(slog.DiscardHandler),
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
	)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces become hyphens", in: "Campeonato Estadual 2026", want: "campeonato-estadual-2026"},
		{name: "punctuation collapses", in: "100m -- Sprint!!", want: "100m-sprint"},
		{name: "leading and trailing junk trimmed", in: "  *** Final ***  ", want: "final"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	var created *eventdb.Event
	repo := &fakeEventRepo{
		CreateEventFunc: func(ctx context.Context, event *eventdb.Event) error {
			event.ID = uuid.New()
			created = event
			return nil
		},
	}
	svc := newTestEventService(repo)

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), CreateEventCommand{Name: "   "})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("schedule text resolves to timestamps", func(t *testing.T) {
		event, err := svc.CreateEvent(context.Background(), CreateEventCommand{
			Name:     "Campeonato Estadual",
			StartsAt: "15/09/2026",
			EndsAt:   "2026-09-17 18:00",
		})
		require.NoError(t, err)
		assert.Equal(t, "campeonato-estadual", event.Slug)
		assert.Equal(t, eventdb.EventDraft, event.Status)
		require.NotNil(t, created.StartsAt)
		assert.Equal(t, 15, created.StartsAt.Day())
		require.NotNil(t, created.EndsAt)
		assert.Equal(t, 18, created.EndsAt.Hour())
	})

	t.Run("unparseable schedule fails", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), CreateEventCommand{
			Name:     "Copa",
			StartsAt: "whenever",
		})
		require.Error(t, err)
	})
}

func TestEventService_TransitionEvent(t *testing.T) {
	tests := []struct {
		name    string
		current eventdb.EventStatus
		target  eventdb.EventStatus
		wantErr error
	}{
		{name: "draft to published", current: eventdb.EventDraft, target: eventdb.EventPublished},
		{name: "published to closed", current: eventdb.EventPublished, target: eventdb.EventClosed},
		{name: "draft to closed skips a stage", current: eventdb.EventDraft, target: eventdb.EventClosed, wantErr: ErrInvalidTransition},
		{name: "closed is terminal", current: eventdb.EventClosed, target: eventdb.EventPublished, wantErr: ErrInvalidTransition},
		{name: "no reverse moves", current: eventdb.EventPublished, target: eventdb.EventDraft, wantErr: ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventID := uuid.New()
			var updated *eventdb.EventStatus
			repo := &fakeEventRepo{
				GetEventFunc: func(ctx context.Context, id uuid.UUID) (*eventdb.Event, error) {
					return &eventdb.Event{ID: id, Status: tt.current}, nil
				},
				UpdateEventStatusFunc: func(ctx context.Context, id uuid.UUID, status eventdb.EventStatus) error {
					updated = &status
					return nil
				},
			}
			svc := newTestEventService(repo)

			err := svc.TransitionEvent(context.Background(), eventID, tt.target)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, updated)
			assert.Equal(t, tt.target, *updated)
		})
	}
}

func TestEventService_CreateHeat_AutoNumber(t *testing.T) {
	modalityID := uuid.New()
	repo := &fakeEventRepo{
		GetModalityFunc: func(ctx context.Context, id uuid.UUID) (*eventdb.Modality, error) {
			return &eventdb.Modality{ID: id}, nil
		},
		NextHeatNumberFunc: func(ctx context.Context, id uuid.UUID) (int, error) {
			return 4, nil
		},
		CreateHeatFunc: func(ctx context.Context, heat *eventdb.Heat) error {
			heat.ID = uuid.New()
			return nil
		},
	}
	svc := newTestEventService(repo)

	t.Run("zero number auto-assigns", func(t *testing.T) {
		heat, err := svc.CreateHeat(context.Background(), CreateHeatCommand{ModalityID: modalityID})
		require.NoError(t, err)
		assert.Equal(t, 4, heat.Number)
	})

	t.Run("explicit number sticks", func(t *testing.T) {
		heat, err := svc.CreateHeat(context.Background(), CreateHeatCommand{ModalityID: modalityID, Number: 7})
		require.NoError(t, err)
		assert.Equal(t, 7, heat.Number)
	})

	t.Run("schedule text parses", func(t *testing.T) {
		heat, err := svc.CreateHeat(context.Background(), CreateHeatCommand{
			ModalityID: modalityID,
			Number:     1,
			Schedule:   "15/09/2026 10:00",
		})
		require.NoError(t, err)
		require.NotNil(t, heat.ScheduledAt)
		assert.Equal(t, 10, heat.ScheduledAt.Hour())
	})
}
