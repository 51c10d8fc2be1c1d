package userdb

import (
	"context"

	"github.com/google/uuid"
)

// UserWithAuthStatus pairs a user with whether they can sign in yet.
type UserWithAuthStatus struct {
	User
	HasAuth bool `bun:"has_auth"`
}

// Repository is the user module's persistence interface.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role Role) error
	ListUsersWithAuthStatus(ctx context.Context, branchID *uuid.UUID) ([]UserWithAuthStatus, error)

	CreateBranch(ctx context.Context, branch *Branch) error
	GetBranch(ctx context.Context, id uuid.UUID) (*Branch, error)
	ListBranches(ctx context.Context) ([]Branch, error)

	CreateAthlete(ctx context.Context, athlete *Athlete) error
	GetAthlete(ctx context.Context, id uuid.UUID) (*Athlete, error)
	ListAthletesByBranch(ctx context.Context, branchID uuid.UUID) ([]Athlete, error)

	CreateRegistration(ctx context.Context, reg *Registration) error
	FindRegistration(ctx context.Context, athleteID, modalityID, eventID uuid.UUID) (*Registration, error)
	UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status RegistrationStatus) error
	TeamRosterAthleteIDs(ctx context.Context, eventID, modalityID, teamID uuid.UUID) ([]uuid.UUID, error)
	RegisteredAthleteIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

var _ Repository = (*UserDBImpl)(nil)
