package users

import (
	"context"
	"errors"

	"recruit-backend/internal/shared/apperr"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Me returns the profile of the authenticated account.
func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.New(apperr.KindNotFound, "user not found")
		}
		return User{}, err
	}
	return user, nil
}
