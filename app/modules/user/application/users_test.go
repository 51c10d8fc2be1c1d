package userservice

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/crypto/bcrypt"

	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/observability"
)

// fakeUserRepo implements userdb.Repository with overridable functions.
type fakeUserRepo struct {
	CreateUserFunc               func(ctx context.Context, user *userdb.User) error
	GetUserByIDFunc              func(ctx context.Context, id uuid.UUID) (*userdb.User, error)
	GetUserByEmailFunc           func(ctx context.Context, email string) (*userdb.User, error)
	UpdateUserRoleFunc           func(ctx context.Context, id uuid.UUID, role userdb.Role) error
	ListUsersWithAuthStatusFunc  func(ctx context.Context, branchID *uuid.UUID) ([]userdb.UserWithAuthStatus, error)
	CreateBranchFunc             func(ctx context.Context, branch *userdb.Branch) error
	GetBranchFunc                func(ctx context.Context, id uuid.UUID) (*userdb.Branch, error)
	ListBranchesFunc             func(ctx context.Context) ([]userdb.Branch, error)
	CreateAthleteFunc            func(ctx context.Context, athlete *userdb.Athlete) error
	GetAthleteFunc               func(ctx context.Context, id uuid.UUID) (*userdb.Athlete, error)
	ListAthletesByBranchFunc     func(ctx context.Context, branchID uuid.UUID) ([]userdb.Athlete, error)
	CreateRegistrationFunc       func(ctx context.Context, reg *userdb.Registration) error
	FindRegistrationFunc         func(ctx context.Context, athleteID, modalityID, eventID uuid.UUID) (*userdb.Registration, error)
	UpdateRegistrationStatusFunc func(ctx context.Context, id uuid.UUID, status userdb.RegistrationStatus) error
	TeamRosterAthleteIDsFunc     func(ctx context.Context, eventID, modalityID, teamID uuid.UUID) ([]uuid.UUID, error)
	RegisteredAthleteIDsFunc     func(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *userdb.User) error {
	return f.CreateUserFunc(ctx, user)
}
func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*userdb.User, error) {
	return f.GetUserByIDFunc(ctx, id)
}
func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*userdb.User, error) {
	return f.GetUserByEmailFunc(ctx, email)
}
func (f *fakeUserRepo) UpdateUserRole(ctx context.Context, id uuid.UUID, role userdb.Role) error {
	return f.UpdateUserRoleFunc(ctx, id, role)
}
func (f *fakeUserRepo) ListUsersWithAuthStatus(ctx context.Context, branchID *uuid.UUID) ([]userdb.UserWithAuthStatus, error) {
	return f.ListUsersWithAuthStatusFunc(ctx, branchID)
}
func (f *fakeUserRepo) CreateBranch(ctx context.Context, branch *userdb.Branch) error {
	return f.CreateBranchFunc(ctx, branch)
}
func (f *fakeUserRepo) GetBranch(ctx context.Context, id uuid.UUID) (*userdb.Branch, error) {
	return f.GetBranchFunc(ctx, id)
}
func (f *fakeUserRepo) ListBranches(ctx context.Context) ([]userdb.Branch, error) {
	return f.ListBranchesFunc(ctx)
}
func (f *fakeUserRepo) CreateAthlete(ctx context.Context, athlete *userdb.Athlete) error {
	return f.CreateAthleteFunc(ctx, athlete)
}
func (f *fakeUserRepo) GetAthlete(ctx context.Context, id uuid.UUID) (*userdb.Athlete, error) {
	return f.GetAthleteFunc(ctx, id)
}
func (f *fakeUserRepo) ListAthletesByBranch(ctx context.Context, branchID uuid.UUID) ([]userdb.Athlete, error) {
	return f.ListAthletesByBranchFunc(ctx, branchID)
}
func (f *fakeUserRepo) CreateRegistration(ctx context.Context, reg *userdb.Registration) error {
	return f.CreateRegistrationFunc(ctx, reg)
}
func (f *fakeUserRepo) FindRegistration(ctx context.Context, athleteID, modalityID, eventID uuid.UUID) (*userdb.Registration, error) {
	return f.FindRegistrationFunc(ctx, athleteID, modalityID, eventID)
}
func (f *fakeUserRepo) UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status userdb.RegistrationStatus) error {
	return f.UpdateRegistrationStatusFunc(ctx, id, status)
}
func (f *fakeUserRepo) TeamRosterAthleteIDs(ctx context.Context, eventID, modalityID, teamID uuid.UUID) ([]uuid.UUID, error) {
	return f.TeamRosterAthleteIDsFunc(ctx, eventID, modalityID, teamID)
}
func (f *fakeUserRepo) RegisteredAthleteIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	return f.RegisteredAthleteIDsFunc(ctx, eventID)
}

func newTestUserService(repo userdb.Repository) *UserService {
	return NewUserService(
		repo,
		nil,
		slog.New(slog.DiscardHandler),
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
	)
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("password is hashed", func(t *testing.T) {
		var created *userdb.User
		repo := &fakeUserRepo{
			CreateUserFunc: func(ctx context.Context, user *userdb.User) error {
				user.ID = uuid.New()
				created = user
				return nil
			},
		}
		svc := newTestUserService(repo)

		user, err := svc.CreateUser(ctx, CreateUserCommand{
			Name:     "Judge Person",
			Email:    "judge@placar.dev",
			Password: "correct-horse",
			Role:     userdb.RoleJudge,
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, "correct-horse", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
	})

	t.Run("no password means no sign-in yet", func(t *testing.T) {
		repo := &fakeUserRepo{
			CreateUserFunc: func(ctx context.Context, user *userdb.User) error { return nil },
		}
		svc := newTestUserService(repo)

		user, err := svc.CreateUser(ctx, CreateUserCommand{
			Name:  "Athlete Person",
			Email: "athlete@placar.dev",
			Role:  userdb.RoleAthlete,
		})
		require.NoError(t, err)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("short password rejected", func(t *testing.T) {
		svc := newTestUserService(&fakeUserRepo{})
		_, err := svc.CreateUser(ctx, CreateUserCommand{
			Name:     "X",
			Email:    "x@placar.dev",
			Password: "short",
		})
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("blank fields rejected", func(t *testing.T) {
		svc := newTestUserService(&fakeUserRepo{})
		_, err := svc.CreateUser(ctx, CreateUserCommand{Name: " ", Email: "x@placar.dev"})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUserService_DesignateRepresentative(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	userID := uuid.New()

	t.Run("promotes branch member", func(t *testing.T) {
		var promoted userdb.Role
		repo := &fakeUserRepo{
			GetUserByIDFunc: func(ctx context.Context, id uuid.UUID) (*userdb.User, error) {
				return &userdb.User{ID: id, BranchID: &branchID, Role: userdb.RoleAthlete}, nil
			},
			UpdateUserRoleFunc: func(ctx context.Context, id uuid.UUID, role userdb.Role) error {
				promoted = role
				return nil
			},
		}
		svc := newTestUserService(repo)

		require.NoError(t, svc.DesignateRepresentative(ctx, userID))
		assert.Equal(t, userdb.RoleRepresentative, promoted)
	})

	t.Run("rejects user without branch", func(t *testing.T) {
		repo := &fakeUserRepo{
			GetUserByIDFunc: func(ctx context.Context, id uuid.UUID) (*userdb.User, error) {
				return &userdb.User{ID: id}, nil
			},
		}
		svc := newTestUserService(repo)

		require.Error(t, svc.DesignateRepresentative(ctx, userID))
	})
}

func TestUserService_RegisterAthlete(t *testing.T) {
	ctx := context.Background()
	athleteID := uuid.New()
	modalityID := uuid.New()
	eventID := uuid.New()

	athleteExists := func(ctx context.Context, id uuid.UUID) (*userdb.Athlete, error) {
		return &userdb.Athlete{ID: id}, nil
	}

	t.Run("fresh registration starts pending", func(t *testing.T) {
		var created *userdb.Registration
		repo := &fakeUserRepo{
			GetAthleteFunc: athleteExists,
			FindRegistrationFunc: func(ctx context.Context, aID, mID, eID uuid.UUID) (*userdb.Registration, error) {
				return nil, userdb.ErrRegistrationNotFound
			},
			CreateRegistrationFunc: func(ctx context.Context, reg *userdb.Registration) error {
				reg.ID = uuid.New()
				created = reg
				return nil
			},
		}
		svc := newTestUserService(repo)

		reg, err := svc.RegisterAthlete(ctx, RegisterAthleteCommand{
			AthleteID: athleteID, ModalityID: modalityID, EventID: eventID,
		})
		require.NoError(t, err)
		assert.Equal(t, userdb.RegistrationPending, reg.Status)
		assert.Equal(t, created, reg)
	})

	t.Run("duplicate active registration rejected", func(t *testing.T) {
		repo := &fakeUserRepo{
			GetAthleteFunc: athleteExists,
			FindRegistrationFunc: func(ctx context.Context, aID, mID, eID uuid.UUID) (*userdb.Registration, error) {
				return &userdb.Registration{ID: uuid.New(), Status: userdb.RegistrationConfirmed}, nil
			},
		}
		svc := newTestUserService(repo)

		_, err := svc.RegisterAthlete(ctx, RegisterAthleteCommand{
			AthleteID: athleteID, ModalityID: modalityID, EventID: eventID,
		})
		require.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("cancelled registration is reused", func(t *testing.T) {
		cancelled := &userdb.Registration{ID: uuid.New(), Status: userdb.RegistrationCancelled}
		var updatedTo userdb.RegistrationStatus
		repo := &fakeUserRepo{
			GetAthleteFunc: athleteExists,
			FindRegistrationFunc: func(ctx context.Context, aID, mID, eID uuid.UUID) (*userdb.Registration, error) {
				return cancelled, nil
			},
			UpdateRegistrationStatusFunc: func(ctx context.Context, id uuid.UUID, status userdb.RegistrationStatus) error {
				assert.Equal(t, cancelled.ID, id)
				updatedTo = status
				return nil
			},
		}
		svc := newTestUserService(repo)

		reg, err := svc.RegisterAthlete(ctx, RegisterAthleteCommand{
			AthleteID: athleteID, ModalityID: modalityID, EventID: eventID,
		})
		require.NoError(t, err)
		assert.Equal(t, cancelled.ID, reg.ID)
		assert.Equal(t, userdb.RegistrationPending, updatedTo)
		assert.Equal(t, userdb.RegistrationPending, reg.Status)
	})
}
