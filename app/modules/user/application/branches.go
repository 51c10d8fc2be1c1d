package userservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
)

// CreateBranch registers a branch (filial).
func (s *UserService) CreateBranch(ctx context.Context, name, region string) (*userdb.Branch, error) {
	return withTelemetry(s, ctx, "CreateBranch", func(ctx context.Context) (*userdb.Branch, error) {
		if strings.TrimSpace(name) == "" {
			return nil, ErrInvalidInput
		}
		branch := &userdb.Branch{Name: strings.TrimSpace(name), Region: region}
		if err := s.repo.CreateBranch(ctx, branch); err != nil {
			return nil, err
		}
		return branch, nil
	})
}

// GetBranch returns a branch by ID.
func (s *UserService) GetBranch(ctx context.Context, id uuid.UUID) (*userdb.Branch, error) {
	return withTelemetry(s, ctx, "GetBranch", func(ctx context.Context) (*userdb.Branch, error) {
		return s.repo.GetBranch(ctx, id)
	})
}

// ListBranches returns all branches.
func (s *UserService) ListBranches(ctx context.Context) ([]userdb.Branch, error) {
	return withTelemetry(s, ctx, "ListBranches", func(ctx context.Context) ([]userdb.Branch, error) {
		return s.repo.ListBranches(ctx)
	})
}
