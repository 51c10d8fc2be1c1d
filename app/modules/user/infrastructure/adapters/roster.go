// Package useradapters bridges the user module's data into other modules'
// interfaces.
package useradapters

import (
	"context"

	"github.com/google/uuid"

	scoreservice "github.com/placar-app/placar-backend/app/modules/score/application"
	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// RosterAdapter implements the score module's TeamRoster over registrations.
type RosterAdapter struct {
	repo userdb.Repository
}

func NewRosterAdapter(repo userdb.Repository) *RosterAdapter {
	return &RosterAdapter{repo: repo}
}

var _ scoreservice.TeamRoster = (*RosterAdapter)(nil)

func (a *RosterAdapter) TeamMemberIDs(ctx context.Context, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, teamID sharedtypes.TeamID) ([]sharedtypes.AthleteID, error) {
	ids, err := a.repo.TeamRosterAthleteIDs(ctx, uuid.UUID(eventID), uuid.UUID(modalityID), uuid.UUID(teamID))
	if err != nil {
		return nil, err
	}
	members := make([]sharedtypes.AthleteID, len(ids))
	for i, id := range ids {
		members[i] = sharedtypes.AthleteID(id)
	}
	return members, nil
}
