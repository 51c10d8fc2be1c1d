package notificationdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Kind labels what a notification is about.
type Kind string

const (
	KindScoreUpdated  Kind = "score.updated"
	KindRanked        Kind = "leaderboard.ranked"
	KindEventReminder Kind = "event.reminder"
)

// Notification is one queued message for a recipient. SentAt is set by the
// dispatch worker.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID          uuid.UUID      `bun:"id,pk,type:uuid"`
	RecipientID uuid.UUID      `bun:"recipient_id,type:uuid,notnull"`
	Kind        Kind           `bun:"kind,notnull"`
	Payload     map[string]any `bun:"payload,type:jsonb"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	SentAt      *time.Time     `bun:"sent_at,nullzero"`
}
