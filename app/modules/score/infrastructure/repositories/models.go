package scoredb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
)

// ScoringTemplate is the named, ordered set of fields used to score a modality.
type ScoringTemplate struct {
	bun.BaseModel `bun:"table:scoring_templates,alias:st"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	ModalityID uuid.UUID `bun:"modality_id,notnull,type:uuid"`
	Name       string    `bun:"name,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ScoringField is one configurable field of a template.
type ScoringField struct {
	bun.BaseModel `bun:"table:scoring_fields,alias:sf"`

	ID           uuid.UUID                `bun:"id,pk,type:uuid"`
	TemplateID   uuid.UUID                `bun:"template_id,notnull,type:uuid"`
	FieldKey     string                   `bun:"field_key,notnull"`
	Label        string                   `bun:"label,notnull"`
	InputKind    string                   `bun:"input_kind,notnull"`
	Required     bool                     `bun:"required,notnull"`
	DisplayOrder int                      `bun:"display_order,notnull"`
	Metadata     scoredomain.FieldMetadata `bun:"metadata,type:jsonb"`
}

// Score is one recorded result for an athlete. Team submissions fan out to one
// row per member sharing the same main value and form snapshot.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID         uuid.UUID         `bun:"id,pk,type:uuid"`
	AthleteID  uuid.UUID         `bun:"athlete_id,notnull,type:uuid"`
	ModalityID uuid.UUID         `bun:"modality_id,notnull,type:uuid"`
	EventID    uuid.UUID         `bun:"event_id,notnull,type:uuid"`
	JudgeID    uuid.UUID         `bun:"judge_id,notnull,type:uuid"`
	TemplateID uuid.UUID         `bun:"template_id,notnull,type:uuid"`
	HeatID     *uuid.UUID        `bun:"heat_id,type:uuid"`
	TeamID     *uuid.UUID        `bun:"team_id,type:uuid"`
	MainValue  float64           `bun:"main_value,notnull"`
	Notes      string            `bun:"notes"`
	Lane       *int              `bun:"lane"`
	FormData   map[string]string `bun:"form_data,type:jsonb"`
	Version    int64             `bun:"version,notnull,default:1"`
	RecordedAt time.Time         `bun:"recorded_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time         `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Attempt is one raw per-field value attached to a score. The whole set is
// replaced on every score write.
type Attempt struct {
	bun.BaseModel `bun:"table:attempts,alias:a"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	ScoreID        uuid.UUID `bun:"score_id,notnull,type:uuid"`
	FieldKey       string    `bun:"field_key,notnull"`
	Value          float64   `bun:"value,notnull"`
	FormattedValue string    `bun:"formatted_value,notnull"`
}

// Participation records the per-athlete inclusion flag. An absent row means
// participating.
type Participation struct {
	bun.BaseModel `bun:"table:participations,alias:p"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid"`
	AthleteID     uuid.UUID  `bun:"athlete_id,notnull,type:uuid"`
	ModalityID    uuid.UUID  `bun:"modality_id,notnull,type:uuid"`
	EventID       uuid.UUID  `bun:"event_id,notnull,type:uuid"`
	HeatID        *uuid.UUID `bun:"heat_id,type:uuid"`
	Participating bool       `bun:"participating,notnull"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
