package usecase

import (
	"context"
	"strings"
	"time"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/logger"
)

type authUsecase struct {
	userRepo domain.UserRepository
}

func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

// EnsureUser syncs a verified identity-provider subject into the local users
// table. New accounts start as candidates; roles are never taken from the token.
func (u *authUsecase) EnsureUser(ctx context.Context, id, email string) (*domain.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("Token subject missing")
	}

	existing, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	user := &domain.User{
		ID:        id,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      domain.RoleCandidate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("User provisioned", "user_id", id, "role", user.Role)
	return user, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}
