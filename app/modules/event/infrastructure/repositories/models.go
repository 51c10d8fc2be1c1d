package eventdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EventStatus is an event's lifecycle stage.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventClosed    EventStatus = "closed"
)

// Event is a competition with a schedule and a set of modalities.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID        uuid.UUID   `bun:"id,pk,type:uuid"`
	Name      string      `bun:"name,notnull"`
	Slug      string      `bun:"slug,notnull,unique"`
	BranchID  *uuid.UUID  `bun:"branch_id,type:uuid,nullzero"`
	StartsAt  *time.Time  `bun:"starts_at,nullzero"`
	EndsAt    *time.Time  `bun:"ends_at,nullzero"`
	Status    EventStatus `bun:"status,notnull,default:'draft'"`
	CreatedAt time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Modality is one competition discipline within an event. TeamSize 1 means
// individual competition.
type Modality struct {
	bun.BaseModel `bun:"table:modalities,alias:m"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid"`
	EventID    uuid.UUID  `bun:"event_id,type:uuid,notnull"`
	Name       string     `bun:"name,notnull"`
	TeamSize   int        `bun:"team_size,notnull,default:1"`
	TemplateID *uuid.UUID `bun:"template_id,type:uuid,nullzero"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Heat is a numbered run (bateria) of a modality.
type Heat struct {
	bun.BaseModel `bun:"table:heats,alias:h"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid"`
	ModalityID  uuid.UUID  `bun:"modality_id,type:uuid,notnull"`
	Number      int        `bun:"number,notnull"`
	ScheduledAt *time.Time `bun:"scheduled_at,nullzero"`
}
