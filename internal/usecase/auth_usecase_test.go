package usecase_test

import (
	"context"
	"errors"
	"testing"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/internal/usecase"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnsureUser(t *testing.T) {
	t.Run("returns the existing account untouched", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo)
		repo.On("GetByID", mock.Anything, "u1").Return(&domain.User{ID: "u1", Role: domain.RoleAdmin}, nil)

		user, err := uc.EnsureUser(context.Background(), "u1", "x@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("provisions new subjects as candidates", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo)
		repo.On("GetByID", mock.Anything, "u2").Return(nil, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.ID == "u2" && u.Email == "ana@example.com" && u.Role == domain.RoleCandidate
		})).Return(nil)

		user, err := uc.EnsureUser(context.Background(), "u2", " Ana@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCandidate, user.Role)
	})

	t.Run("empty subject is unauthorized", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(new(MockUserRepo))
		_, err := uc.EnsureUser(context.Background(), "", "")
		assertKind(t, err, apperror.KindUnauthorized)
	})

	t.Run("lookup failures propagate", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo)
		repo.On("GetByID", mock.Anything, "u3").Return(nil, errors.New("db down"))
		_, err := uc.EnsureUser(context.Background(), "u3", "")
		assert.Error(t, err)
	})
}

func TestGetCurrentUserNotFound(t *testing.T) {
	repo := new(MockUserRepo)
	uc := usecase.NewAuthUsecase(repo)
	repo.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

	_, err := uc.GetCurrentUser(context.Background(), "ghost")
	assertKind(t, err, apperror.KindNotFound)
}
