package useradapters

import (
	"context"

	"github.com/google/uuid"

	notificationqueue "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/queue"
	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
)

// RecipientAdapter feeds event reminder fan-outs from registrations.
type RecipientAdapter struct {
	repo userdb.Repository
}

func NewRecipientAdapter(repo userdb.Repository) *RecipientAdapter {
	return &RecipientAdapter{repo: repo}
}

var _ notificationqueue.RecipientSource = (*RecipientAdapter)(nil)

func (a *RecipientAdapter) EventRecipientIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	return a.repo.RegisteredAthleteIDs(ctx, eventID)
}
