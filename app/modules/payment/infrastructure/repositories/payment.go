// Package paymentdb persists registration fees and their settlement.
package paymentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrFeeConfigNotFound = errors.New("fee config not found")
	ErrFeeStatusNotFound = errors.New("fee status not found")
)

// Repository is the payment module's persistence interface.
type Repository interface {
	UpsertFeeConfig(ctx context.Context, cfg *FeeConfig) error
	GetFeeConfig(ctx context.Context, eventID uuid.UUID) (*FeeConfig, error)
	UpsertFeeStatus(ctx context.Context, status *FeeStatus) error
	MarkPaid(ctx context.Context, registrationID uuid.UUID, at time.Time) error
	ListFeeStatuses(ctx context.Context, eventID uuid.UUID) ([]FeeStatus, error)
}

// PaymentDBImpl is the bun-backed payment repository.
type PaymentDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*PaymentDBImpl)(nil)

func (db *PaymentDBImpl) UpsertFeeConfig(ctx context.Context, cfg *FeeConfig) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	if cfg.Currency == "" {
		cfg.Currency = "BRL"
	}
	_, err := db.DB.NewInsert().Model(cfg).
		On("CONFLICT (event_id) DO UPDATE").
		Set("amount_cents = EXCLUDED.amount_cents").
		Set("currency = EXCLUDED.currency").
		Set("due_at = EXCLUDED.due_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert fee config: %w", err)
	}
	return nil
}

func (db *PaymentDBImpl) GetFeeConfig(ctx context.Context, eventID uuid.UUID) (*FeeConfig, error) {
	cfg := &FeeConfig{}
	err := db.DB.NewSelect().Model(cfg).Where("fc.event_id = ?", eventID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeeConfigNotFound
		}
		return nil, fmt.Errorf("failed to get fee config: %w", err)
	}
	return cfg, nil
}

func (db *PaymentDBImpl) UpsertFeeStatus(ctx context.Context, status *FeeStatus) error {
	if status.ID == uuid.Nil {
		status.ID = uuid.New()
	}
	_, err := db.DB.NewInsert().Model(status).
		On("CONFLICT (registration_id) DO UPDATE").
		Set("paid = EXCLUDED.paid").
		Set("paid_at = EXCLUDED.paid_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert fee status: %w", err)
	}
	return nil
}

func (db *PaymentDBImpl) MarkPaid(ctx context.Context, registrationID uuid.UUID, at time.Time) error {
	result, err := db.DB.NewUpdate().
		Model((*FeeStatus)(nil)).
		Set("paid = TRUE").
		Set("paid_at = ?", at).
		Where("registration_id = ?", registrationID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark fee paid: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrFeeStatusNotFound
	}
	return nil
}

func (db *PaymentDBImpl) ListFeeStatuses(ctx context.Context, eventID uuid.UUID) ([]FeeStatus, error) {
	var statuses []FeeStatus
	err := db.DB.NewSelect().Model(&statuses).
		Where("fs.event_id = ?", eventID).
		OrderExpr("fs.paid ASC, fs.registration_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee statuses: %w", err)
	}
	return statuses, nil
}
