package userservice

import (
	"context"

	"github.com/google/uuid"

	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
)

// Service is the user module's application interface.
type Service interface {
	CreateUser(ctx context.Context, cmd CreateUserCommand) (*userdb.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*userdb.User, error)
	ListUsersWithAuthStatus(ctx context.Context, branchID *uuid.UUID) ([]userdb.UserWithAuthStatus, error)
	DesignateRepresentative(ctx context.Context, userID uuid.UUID) error

	CreateBranch(ctx context.Context, name, region string) (*userdb.Branch, error)
	GetBranch(ctx context.Context, id uuid.UUID) (*userdb.Branch, error)
	ListBranches(ctx context.Context) ([]userdb.Branch, error)

	CreateAthlete(ctx context.Context, cmd CreateAthleteCommand) (*userdb.Athlete, error)
	GetAthlete(ctx context.Context, id uuid.UUID) (*userdb.Athlete, error)
	ListAthletesByBranch(ctx context.Context, branchID uuid.UUID) ([]userdb.Athlete, error)

	RegisterAthlete(ctx context.Context, cmd RegisterAthleteCommand) (*userdb.Registration, error)
	ConfirmRegistration(ctx context.Context, id uuid.UUID) error
	CancelRegistration(ctx context.Context, id uuid.UUID) error
	TeamRoster(ctx context.Context, eventID, modalityID, teamID uuid.UUID) ([]uuid.UUID, error)
}

var _ Service = (*UserService)(nil)
