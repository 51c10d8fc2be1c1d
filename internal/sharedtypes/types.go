// Package sharedtypes holds the identifier and scope types that cross module
// boundaries. Modules keep their own domain types; only IDs live here.
package sharedtypes

import "github.com/google/uuid"

type (
	EventID    uuid.UUID
	ModalityID uuid.UUID
	HeatID     uuid.UUID
	TemplateID uuid.UUID
	AthleteID  uuid.UUID
	JudgeID    uuid.UUID
	TeamID     uuid.UUID
	UserID     uuid.UUID
	BranchID   uuid.UUID
	ScoreID    uuid.UUID
)

func (id EventID) String() string    { return uuid.UUID(id).String() }
func (id ModalityID) String() string { return uuid.UUID(id).String() }
func (id HeatID) String() string     { return uuid.UUID(id).String() }
func (id TemplateID) String() string { return uuid.UUID(id).String() }
func (id AthleteID) String() string  { return uuid.UUID(id).String() }
func (id JudgeID) String() string    { return uuid.UUID(id).String() }
func (id TeamID) String() string     { return uuid.UUID(id).String() }
func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id BranchID) String() string   { return uuid.UUID(id).String() }
func (id ScoreID) String() string    { return uuid.UUID(id).String() }

// ScoreScope identifies the set of scores a ranking run operates on.
// HeatID is nil for final (cross-heat) rankings.
type ScoreScope struct {
	EventID    EventID
	ModalityID ModalityID
	TemplateID TemplateID
	HeatID     *HeatID
}
