// Package leaderboardevents defines topics and payloads published by ranking runs.
package leaderboardevents

import (
	"time"

	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

const (
	RankedV1     = "leaderboard.ranked.v1"
	RankFailedV1 = "leaderboard.rank.failed.v1"
)

// RankedEntryV1 is one athlete's computed placement.
type RankedEntryV1 struct {
	AthleteID sharedtypes.AthleteID `json:"athlete_id"`
	ScoreID   sharedtypes.ScoreID   `json:"score_id"`
	Rank      int                   `json:"rank"`
	Value     float64               `json:"value"`
}

// RankedPayloadV1 announces a completed ranking run.
type RankedPayloadV1 struct {
	EventID    sharedtypes.EventID    `json:"event_id"`
	ModalityID sharedtypes.ModalityID `json:"modality_id"`
	TemplateID sharedtypes.TemplateID `json:"template_id"`
	HeatID     *sharedtypes.HeatID    `json:"heat_id,omitempty"`
	FieldKey   string                 `json:"field_key"`
	Entries    []RankedEntryV1        `json:"entries"`
	RankedAt   time.Time              `json:"ranked_at"`
}

// RankFailedPayloadV1 reports a ranking run that could not proceed.
type RankFailedPayloadV1 struct {
	EventID    sharedtypes.EventID    `json:"event_id"`
	ModalityID sharedtypes.ModalityID `json:"modality_id"`
	Reason     string                 `json:"reason"`
}
