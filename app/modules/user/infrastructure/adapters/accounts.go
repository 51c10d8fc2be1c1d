package useradapters

import (
	"context"
	"errors"

	authservice "github.com/placar-app/placar-backend/app/modules/auth/application"
	authdomain "github.com/placar-app/placar-backend/app/modules/auth/domain"
	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
)

// AccountAdapter implements the auth module's account lookup over users.
type AccountAdapter struct {
	repo userdb.Repository
}

func NewAccountAdapter(repo userdb.Repository) *AccountAdapter {
	return &AccountAdapter{repo: repo}
}

var _ authservice.AccountReader = (*AccountAdapter)(nil)

func (a *AccountAdapter) AccountByEmail(ctx context.Context, email string) (*authservice.Account, error) {
	user, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userdb.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &authservice.Account{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         authdomain.Role(user.Role),
		BranchID:     user.BranchID,
		PasswordHash: user.PasswordHash,
	}, nil
}
