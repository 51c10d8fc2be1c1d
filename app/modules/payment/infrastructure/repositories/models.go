package paymentdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FeeConfig is an event's registration fee.
type FeeConfig struct {
	bun.BaseModel `bun:"table:fee_configs,alias:fc"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid"`
	EventID     uuid.UUID  `bun:"event_id,type:uuid,notnull,unique"`
	AmountCents int64      `bun:"amount_cents,notnull"`
	Currency    string     `bun:"currency,notnull,default:'BRL'"`
	DueAt       *time.Time `bun:"due_at,nullzero"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// FeeStatus tracks whether one registration's fee is settled. EventID and
// AthleteID are denormalized so listings don't reach into other modules.
type FeeStatus struct {
	bun.BaseModel `bun:"table:fee_statuses,alias:fs"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid"`
	RegistrationID uuid.UUID  `bun:"registration_id,type:uuid,notnull,unique"`
	EventID        uuid.UUID  `bun:"event_id,type:uuid,notnull"`
	AthleteID      uuid.UUID  `bun:"athlete_id,type:uuid,notnull"`
	Paid           bool       `bun:"paid,notnull,default:false"`
	PaidAt         *time.Time `bun:"paid_at,nullzero"`
}
