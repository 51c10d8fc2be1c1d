// Package scoreevents defines the versioned topics and payloads published by
// the score module.
package scoreevents

import (
	"time"

	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

const (
	ScoreUpdatedV1         = "score.updated.v1"
	ScoreUpdateFailedV1    = "score.update.failed.v1"
	ParticipationChangedV1 = "score.participation.changed.v1"
)

// ScoreUpdatedPayloadV1 announces a committed score write. Consumers use it to
// refresh standings and notify interested parties.
type ScoreUpdatedPayloadV1 struct {
	ScoreIDs   []sharedtypes.ScoreID   `json:"score_ids"`
	EventID    sharedtypes.EventID     `json:"event_id"`
	ModalityID sharedtypes.ModalityID  `json:"modality_id"`
	TemplateID sharedtypes.TemplateID  `json:"template_id"`
	JudgeID    sharedtypes.JudgeID     `json:"judge_id"`
	HeatID     *sharedtypes.HeatID     `json:"heat_id,omitempty"`
	TeamID     *sharedtypes.TeamID     `json:"team_id,omitempty"`
	AthleteIDs []sharedtypes.AthleteID `json:"athlete_ids"`
	MainValue  float64                 `json:"main_value"`
	RecordedAt time.Time               `json:"recorded_at"`
}

// ScoreUpdateFailedPayloadV1 reports a handled business failure.
type ScoreUpdateFailedPayloadV1 struct {
	EventID    sharedtypes.EventID    `json:"event_id"`
	ModalityID sharedtypes.ModalityID `json:"modality_id"`
	Reason     string                 `json:"reason"`
}

// ParticipationChangedPayloadV1 announces a participation toggle.
type ParticipationChangedPayloadV1 struct {
	AthleteID     sharedtypes.AthleteID  `json:"athlete_id"`
	EventID       sharedtypes.EventID    `json:"event_id"`
	ModalityID    sharedtypes.ModalityID `json:"modality_id"`
	HeatID        *sharedtypes.HeatID    `json:"heat_id,omitempty"`
	Participating bool                   `json:"participating"`
}
