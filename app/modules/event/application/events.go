package eventservice

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	eventevents "github.com/placar-app/placar-backend/app/modules/event/domain/events"
	eventdb "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid event status transition")
)

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses non-alphanumerics into hyphens.
func Slugify(name string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// CreateEventCommand carries a new event's attributes. StartsAt and EndsAt
// accept natural-language schedule text.
type CreateEventCommand struct {
	Name     string
	BranchID *uuid.UUID
	StartsAt string
	EndsAt   string
}

// CreateEvent creates a draft event, parsing schedule text when provided.
func (s *EventService) CreateEvent(ctx context.Context, cmd CreateEventCommand) (*eventdb.Event, error) {
	return withTelemetry(s, ctx, "CreateEvent", func(ctx context.Context) (*eventdb.Event, error) {
		if strings.TrimSpace(cmd.Name) == "" {
			return nil, ErrInvalidInput
		}

		event := &eventdb.Event{
			Name:     strings.TrimSpace(cmd.Name),
			Slug:     Slugify(cmd.Name),
			BranchID: cmd.BranchID,
			Status:   eventdb.EventDraft,
		}
		if cmd.StartsAt != "" {
			t, err := s.schedule.Parse(cmd.StartsAt)
			if err != nil {
				return nil, err
			}
			event.StartsAt = &t
		}
		if cmd.EndsAt != "" {
			t, err := s.schedule.Parse(cmd.EndsAt)
			if err != nil {
				return nil, err
			}
			event.EndsAt = &t
		}

		if err := s.repo.CreateEvent(ctx, event); err != nil {
			return nil, err
		}
		return event, nil
	})
}

// GetEvent returns an event by ID.
func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*eventdb.Event, error) {
	return withTelemetry(s, ctx, "GetEvent", func(ctx context.Context) (*eventdb.Event, error) {
		return s.repo.GetEvent(ctx, id)
	})
}

// ListEvents returns events, optionally scoped to a branch.
func (s *EventService) ListEvents(ctx context.Context, branchID *uuid.UUID) ([]eventdb.Event, error) {
	return withTelemetry(s, ctx, "ListEvents", func(ctx context.Context) ([]eventdb.Event, error) {
		return s.repo.ListEvents(ctx, branchID)
	})
}

// validTransitions is the forward-only event lifecycle.
var validTransitions = map[eventdb.EventStatus]eventdb.EventStatus{
	eventdb.EventDraft:     eventdb.EventPublished,
	eventdb.EventPublished: eventdb.EventClosed,
}

// TransitionEvent advances an event to the requested status. Only draft →
// published → closed moves are allowed.
func (s *EventService) TransitionEvent(ctx context.Context, id uuid.UUID, target eventdb.EventStatus) error {
	_, err := withTelemetry(s, ctx, "TransitionEvent", func(ctx context.Context) (struct{}, error) {
		event, err := s.repo.GetEvent(ctx, id)
		if err != nil {
			return struct{}{}, err
		}
		if validTransitions[event.Status] != target {
			return struct{}{}, ErrInvalidTransition
		}
		if err := s.repo.UpdateEventStatus(ctx, id, target); err != nil {
			return struct{}{}, err
		}

		switch target {
		case eventdb.EventPublished:
			s.publish(ctx, eventevents.EventPublishedV1, eventevents.EventPublishedPayloadV1{
				EventID:  sharedtypes.EventID(event.ID),
				Name:     event.Name,
				Slug:     event.Slug,
				StartsAt: event.StartsAt,
			})
		case eventdb.EventClosed:
			s.publish(ctx, eventevents.EventClosedV1, eventevents.EventClosedPayloadV1{
				EventID: sharedtypes.EventID(event.ID),
				Slug:    event.Slug,
			})
		}
		return struct{}{}, nil
	})
	return err
}
