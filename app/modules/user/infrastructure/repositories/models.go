package userdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is a user's access level.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleJudge          Role = "judge"
	RoleRepresentative Role = "representative"
	RoleAthlete        Role = "athlete"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleJudge, RoleRepresentative, RoleAthlete:
		return true
	}
	return false
}

// RegistrationStatus tracks an athlete's enrollment in a modality.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// User is an account that can sign in.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid"`
	Name         string     `bun:"name,notnull"`
	Email        string     `bun:"email,notnull,unique"`
	PasswordHash string     `bun:"password_hash"`
	Role         Role       `bun:"role,notnull"`
	BranchID     *uuid.UUID `bun:"branch_id,type:uuid,nullzero"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Branch is a regional unit (filial) that users and athletes belong to.
type Branch struct {
	bun.BaseModel `bun:"table:branches,alias:b"`

	ID     uuid.UUID `bun:"id,pk,type:uuid"`
	Name   string    `bun:"name,notnull,unique"`
	Region string    `bun:"region"`
}

// Athlete is a competitor profile, optionally linked to a sign-in account.
type Athlete struct {
	bun.BaseModel `bun:"table:athletes,alias:a"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID    *uuid.UUID `bun:"user_id,type:uuid,nullzero"`
	BranchID  uuid.UUID  `bun:"branch_id,type:uuid,notnull"`
	Name      string     `bun:"name,notnull"`
	BirthDate *time.Time `bun:"birth_date,nullzero"`
	Gender    string     `bun:"gender"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Registration enrolls an athlete in a modality of an event. Team rosters are
// derived from registrations sharing (event, modality, team).
type Registration struct {
	bun.BaseModel `bun:"table:registrations,alias:reg"`

	ID         uuid.UUID          `bun:"id,pk,type:uuid"`
	AthleteID  uuid.UUID          `bun:"athlete_id,type:uuid,notnull"`
	ModalityID uuid.UUID          `bun:"modality_id,type:uuid,notnull"`
	EventID    uuid.UUID          `bun:"event_id,type:uuid,notnull"`
	TeamID     *uuid.UUID         `bun:"team_id,type:uuid,nullzero"`
	Status     RegistrationStatus `bun:"status,notnull,default:'pending'"`
	CreatedAt  time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
