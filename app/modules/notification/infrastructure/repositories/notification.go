// Package notificationdb persists queued notifications.
package notificationdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Repository is the notification module's persistence interface.
type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error)
}

// NotificationDBImpl is the bun-backed notification repository.
type NotificationDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*NotificationDBImpl)(nil)

func (db *NotificationDBImpl) Insert(ctx context.Context, n *Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if _, err := db.DB.NewInsert().Model(n).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (db *NotificationDBImpl) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := db.DB.NewUpdate().
		Model((*Notification)(nil)).
		Set("sent_at = ?", at).
		Where("id = ?", id).
		Where("sent_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (db *NotificationDBImpl) ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notifications []Notification
	err := db.DB.NewSelect().Model(&notifications).
		Where("n.recipient_id = ?", recipientID).
		OrderExpr("n.created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
