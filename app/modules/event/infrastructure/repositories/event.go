package eventdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// EventDBImpl is the bun-backed event repository.
type EventDBImpl struct {
	DB *bun.DB
}

func (db *EventDBImpl) CreateEvent(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = EventDraft
	}
	if _, err := db.DB.NewInsert().Model(event).Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (db *EventDBImpl) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	event := &Event{}
	err := db.DB.NewSelect().Model(event).Where("e.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (db *EventDBImpl) GetEventBySlug(ctx context.Context, slug string) (*Event, error) {
	event := &Event{}
	err := db.DB.NewSelect().Model(event).Where("e.slug = ?", slug).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event by slug: %w", err)
	}
	return event, nil
}

func (db *EventDBImpl) ListEvents(ctx context.Context, branchID *uuid.UUID) ([]Event, error) {
	var events []Event
	q := db.DB.NewSelect().Model(&events).OrderExpr("e.created_at DESC")
	if branchID != nil {
		q = q.Where("e.branch_id = ?", *branchID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (db *EventDBImpl) UpdateEventStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	result, err := db.DB.NewUpdate().
		Model((*Event)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (db *EventDBImpl) CreateModality(ctx context.Context, modality *Modality) error {
	if modality.ID == uuid.Nil {
		modality.ID = uuid.New()
	}
	if modality.TeamSize < 1 {
		modality.TeamSize = 1
	}
	if _, err := db.DB.NewInsert().Model(modality).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create modality: %w", err)
	}
	return nil
}

func (db *EventDBImpl) GetModality(ctx context.Context, id uuid.UUID) (*Modality, error) {
	modality := &Modality{}
	err := db.DB.NewSelect().Model(modality).Where("m.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrModalityNotFound
		}
		return nil, fmt.Errorf("failed to get modality: %w", err)
	}
	return modality, nil
}

func (db *EventDBImpl) ListModalities(ctx context.Context, eventID uuid.UUID) ([]Modality, error) {
	var modalities []Modality
	err := db.DB.NewSelect().Model(&modalities).
		Where("m.event_id = ?", eventID).
		OrderExpr("m.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list modalities: %w", err)
	}
	return modalities, nil
}

func (db *EventDBImpl) SetModalityTemplate(ctx context.Context, modalityID, templateID uuid.UUID) error {
	result, err := db.DB.NewUpdate().
		Model((*Modality)(nil)).
		Set("template_id = ?", templateID).
		Where("id = ?", modalityID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set modality template: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrModalityNotFound
	}
	return nil
}

func (db *EventDBImpl) CreateHeat(ctx context.Context, heat *Heat) error {
	if heat.ID == uuid.Nil {
		heat.ID = uuid.New()
	}
	if _, err := db.DB.NewInsert().Model(heat).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create heat: %w", err)
	}
	return nil
}

func (db *EventDBImpl) ListHeats(ctx context.Context, modalityID uuid.UUID) ([]Heat, error) {
	var heats []Heat
	err := db.DB.NewSelect().Model(&heats).
		Where("h.modality_id = ?", modalityID).
		OrderExpr("h.number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list heats: %w", err)
	}
	return heats, nil
}

// NextHeatNumber returns one past the highest heat number for a modality.
func (db *EventDBImpl) NextHeatNumber(ctx context.Context, modalityID uuid.UUID) (int, error) {
	var max sql.NullInt64
	err := db.DB.NewSelect().
		Model((*Heat)(nil)).
		ColumnExpr("max(h.number)").
		Where("h.modality_id = ?", modalityID).
		Scan(ctx, &max)
	if err != nil {
		return 0, fmt.Errorf("failed to get next heat number: %w", err)
	}
	return int(max.Int64) + 1, nil
}
