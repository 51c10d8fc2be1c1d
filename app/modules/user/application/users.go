package userservice

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// CreateUserCommand carries a new account's attributes. Password is optional:
// accounts created by a representative start without sign-in access and show
// up as has_auth=false until the person sets one.
type CreateUserCommand struct {
	Name     string
	Email    string
	Password string
	Role     userdb.Role
	BranchID *uuid.UUID
}

// CreateUser registers an account, hashing the password when one is supplied.
func (s *UserService) CreateUser(ctx context.Context, cmd CreateUserCommand) (*userdb.User, error) {
	return withTelemetry(s, ctx, "CreateUser", func(ctx context.Context) (*userdb.User, error) {
		if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.Email) == "" {
			return nil, ErrInvalidInput
		}

		user := &userdb.User{
			Name:     strings.TrimSpace(cmd.Name),
			Email:    cmd.Email,
			Role:     cmd.Role,
			BranchID: cmd.BranchID,
		}
		if cmd.Password != "" {
			if len(cmd.Password) < 8 {
				return nil, ErrWeakPassword
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			user.PasswordHash = string(hash)
		}

		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
}

// GetUser returns a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*userdb.User, error) {
	return withTelemetry(s, ctx, "GetUser", func(ctx context.Context) (*userdb.User, error) {
		return s.repo.GetUserByID(ctx, id)
	})
}

// ListUsersWithAuthStatus returns users, optionally scoped to a branch, with a
// flag for whether each account can sign in yet.
func (s *UserService) ListUsersWithAuthStatus(ctx context.Context, branchID *uuid.UUID) ([]userdb.UserWithAuthStatus, error) {
	return withTelemetry(s, ctx, "ListUsersWithAuthStatus", func(ctx context.Context) ([]userdb.UserWithAuthStatus, error) {
		return s.repo.ListUsersWithAuthStatus(ctx, branchID)
	})
}

// DesignateRepresentative promotes a user to branch representative. The user
// must already belong to a branch.
func (s *UserService) DesignateRepresentative(ctx context.Context, userID uuid.UUID) error {
	_, err := withTelemetry(s, ctx, "DesignateRepresentative", func(ctx context.Context) (struct{}, error) {
		user, err := s.repo.GetUserByID(ctx, userID)
		if err != nil {
			return struct{}{}, err
		}
		if user.BranchID == nil {
			return struct{}{}, errors.New("user has no branch to represent")
		}
		return struct{}{}, s.repo.UpdateUserRole(ctx, userID, userdb.RoleRepresentative)
	})
	return err
}
