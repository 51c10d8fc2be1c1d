package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// UserDBImpl is the bun-backed user repository.
type UserDBImpl struct {
	DB *bun.DB
}

func (db *UserDBImpl) CreateUser(ctx context.Context, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if !user.Role.IsValid() {
		return fmt.Errorf("invalid user role: %s", user.Role)
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	_, err := db.DB.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (db *UserDBImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user := &User{}
	err := db.DB.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (db *UserDBImpl) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := db.DB.NewSelect().Model(user).
		Where("lower(u.email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (db *UserDBImpl) UpdateUserRole(ctx context.Context, id uuid.UUID, role Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid user role: %s", role)
	}

	result, err := db.DB.NewUpdate().
		Model((*User)(nil)).
		Set("role = ?", role).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsersWithAuthStatus returns users, optionally scoped to a branch, with a
// flag for whether the account has completed sign-in setup.
func (db *UserDBImpl) ListUsersWithAuthStatus(ctx context.Context, branchID *uuid.UUID) ([]UserWithAuthStatus, error) {
	var rows []UserWithAuthStatus
	q := db.DB.NewSelect().
		Model((*User)(nil)).
		ColumnExpr("u.*").
		ColumnExpr("(u.password_hash IS NOT NULL AND u.password_hash <> '') AS has_auth").
		OrderExpr("u.name ASC")
	if branchID != nil {
		q = q.Where("u.branch_id = ?", *branchID)
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return rows, nil
}

func (db *UserDBImpl) CreateBranch(ctx context.Context, branch *Branch) error {
	if branch.ID == uuid.Nil {
		branch.ID = uuid.New()
	}
	if _, err := db.DB.NewInsert().Model(branch).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (db *UserDBImpl) GetBranch(ctx context.Context, id uuid.UUID) (*Branch, error) {
	branch := &Branch{}
	err := db.DB.NewSelect().Model(branch).Where("b.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return branch, nil
}

func (db *UserDBImpl) ListBranches(ctx context.Context) ([]Branch, error) {
	var branches []Branch
	err := db.DB.NewSelect().Model(&branches).OrderExpr("name ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

func (db *UserDBImpl) CreateAthlete(ctx context.Context, athlete *Athlete) error {
	if athlete.ID == uuid.Nil {
		athlete.ID = uuid.New()
	}
	if _, err := db.DB.NewInsert().Model(athlete).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create athlete: %w", err)
	}
	return nil
}

func (db *UserDBImpl) GetAthlete(ctx context.Context, id uuid.UUID) (*Athlete, error) {
	athlete := &Athlete{}
	err := db.DB.NewSelect().Model(athlete).Where("a.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAthleteNotFound
		}
		return nil, fmt.Errorf("failed to get athlete: %w", err)
	}
	return athlete, nil
}

func (db *UserDBImpl) ListAthletesByBranch(ctx context.Context, branchID uuid.UUID) ([]Athlete, error) {
	var athletes []Athlete
	err := db.DB.NewSelect().Model(&athletes).
		Where("a.branch_id = ?", branchID).
		OrderExpr("a.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	return athletes, nil
}

func (db *UserDBImpl) CreateRegistration(ctx context.Context, reg *Registration) error {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	if reg.Status == "" {
		reg.Status = RegistrationPending
	}
	if _, err := db.DB.NewInsert().Model(reg).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (db *UserDBImpl) FindRegistration(ctx context.Context, athleteID, modalityID, eventID uuid.UUID) (*Registration, error) {
	reg := &Registration{}
	err := db.DB.NewSelect().Model(reg).
		Where("reg.athlete_id = ?", athleteID).
		Where("reg.modality_id = ?", modalityID).
		Where("reg.event_id = ?", eventID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return reg, nil
}

func (db *UserDBImpl) UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status RegistrationStatus) error {
	result, err := db.DB.NewUpdate().
		Model((*Registration)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// TeamRosterAthleteIDs derives a team's roster from non-cancelled registrations
// sharing the (event, modality, team) triple.
func (db *UserDBImpl) TeamRosterAthleteIDs(ctx context.Context, eventID, modalityID, teamID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.DB.NewSelect().
		Model((*Registration)(nil)).
		Column("reg.athlete_id").
		Where("reg.event_id = ?", eventID).
		Where("reg.modality_id = ?", modalityID).
		Where("reg.team_id = ?", teamID).
		Where("reg.status <> ?", RegistrationCancelled).
		OrderExpr("reg.created_at ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team roster: %w", err)
	}
	return ids, nil
}

// RegisteredAthleteIDs returns the distinct athletes with a non-cancelled
// registration in any of the event's modalities.
func (db *UserDBImpl) RegisteredAthleteIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.DB.NewSelect().
		Model((*Registration)(nil)).
		ColumnExpr("DISTINCT reg.athlete_id").
		Where("reg.event_id = ?", eventID).
		Where("reg.status <> ?", RegistrationCancelled).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered athletes: %w", err)
	}
	return ids, nil
}
