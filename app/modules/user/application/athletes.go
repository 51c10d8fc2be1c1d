package userservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
)

// ErrAlreadyRegistered reports a duplicate modality registration.
var ErrAlreadyRegistered = errors.New("athlete already registered for this modality")

// CreateAthleteCommand carries a new competitor profile.
type CreateAthleteCommand struct {
	Name      string
	BranchID  uuid.UUID
	UserID    *uuid.UUID
	BirthDate *time.Time
	Gender    string
}

// CreateAthlete registers a competitor profile under a branch.
func (s *UserService) CreateAthlete(ctx context.Context, cmd CreateAthleteCommand) (*userdb.Athlete, error) {
	return withTelemetry(s, ctx, "CreateAthlete", func(ctx context.Context) (*userdb.Athlete, error) {
		if strings.TrimSpace(cmd.Name) == "" || cmd.BranchID == uuid.Nil {
			return nil, ErrInvalidInput
		}
		athlete := &userdb.Athlete{
			Name:      strings.TrimSpace(cmd.Name),
			BranchID:  cmd.BranchID,
			UserID:    cmd.UserID,
			BirthDate: cmd.BirthDate,
			Gender:    cmd.Gender,
		}
		if err := s.repo.CreateAthlete(ctx, athlete); err != nil {
			return nil, err
		}
		return athlete, nil
	})
}

// GetAthlete returns a competitor profile by ID.
func (s *UserService) GetAthlete(ctx context.Context, id uuid.UUID) (*userdb.Athlete, error) {
	return withTelemetry(s, ctx, "GetAthlete", func(ctx context.Context) (*userdb.Athlete, error) {
		return s.repo.GetAthlete(ctx, id)
	})
}

// ListAthletesByBranch returns a branch's competitor profiles.
func (s *UserService) ListAthletesByBranch(ctx context.Context, branchID uuid.UUID) ([]userdb.Athlete, error) {
	return withTelemetry(s, ctx, "ListAthletesByBranch", func(ctx context.Context) ([]userdb.Athlete, error) {
		return s.repo.ListAthletesByBranch(ctx, branchID)
	})
}

// RegisterAthleteCommand enrolls an athlete in a modality, optionally as part
// of a team.
type RegisterAthleteCommand struct {
	AthleteID  uuid.UUID
	ModalityID uuid.UUID
	EventID    uuid.UUID
	TeamID     *uuid.UUID
}

// RegisterAthlete enrolls an athlete in a modality of an event.
func (s *UserService) RegisterAthlete(ctx context.Context, cmd RegisterAthleteCommand) (*userdb.Registration, error) {
	return withTelemetry(s, ctx, "RegisterAthlete", func(ctx context.Context) (*userdb.Registration, error) {
		if _, err := s.repo.GetAthlete(ctx, cmd.AthleteID); err != nil {
			return nil, err
		}
		existing, err := s.repo.FindRegistration(ctx, cmd.AthleteID, cmd.ModalityID, cmd.EventID)
		if err != nil && !errors.Is(err, userdb.ErrRegistrationNotFound) {
			return nil, err
		}
		if existing != nil {
			if existing.Status != userdb.RegistrationCancelled {
				return nil, ErrAlreadyRegistered
			}
			// Re-registering after a withdrawal reuses the row so the
			// uniqueness index holds.
			if err := s.repo.UpdateRegistrationStatus(ctx, existing.ID, userdb.RegistrationPending); err != nil {
				return nil, err
			}
			existing.Status = userdb.RegistrationPending
			return existing, nil
		}

		reg := &userdb.Registration{
			AthleteID:  cmd.AthleteID,
			ModalityID: cmd.ModalityID,
			EventID:    cmd.EventID,
			TeamID:     cmd.TeamID,
			Status:     userdb.RegistrationPending,
		}
		if err := s.repo.CreateRegistration(ctx, reg); err != nil {
			return nil, err
		}
		return reg, nil
	})
}

// ConfirmRegistration moves a registration to confirmed.
func (s *UserService) ConfirmRegistration(ctx context.Context, id uuid.UUID) error {
	_, err := withTelemetry(s, ctx, "ConfirmRegistration", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.UpdateRegistrationStatus(ctx, id, userdb.RegistrationConfirmed)
	})
	return err
}

// CancelRegistration withdraws an athlete from a modality.
func (s *UserService) CancelRegistration(ctx context.Context, id uuid.UUID) error {
	_, err := withTelemetry(s, ctx, "CancelRegistration", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.UpdateRegistrationStatus(ctx, id, userdb.RegistrationCancelled)
	})
	return err
}

// TeamRoster returns the athlete IDs registered to a team for a modality.
func (s *UserService) TeamRoster(ctx context.Context, eventID, modalityID, teamID uuid.UUID) ([]uuid.UUID, error) {
	return withTelemetry(s, ctx, "TeamRoster", func(ctx context.Context) ([]uuid.UUID, error) {
		return s.repo.TeamRosterAthleteIDs(ctx, eventID, modalityID, teamID)
	})
}
