package usecase_test

import (
	"context"
	"testing"
	"time"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/internal/usecase"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, id int64) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

// UpsertWithReadiness and RecomputeReadiness score the returned profile the
// way the postgres repository does inside its transaction.
func (m *MockCandidateRepo) UpsertWithReadiness(ctx context.Context, userID string, req *domain.UpdateProfileRequest, score domain.ReadinessFunc) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return applyScore(args.Get(0).(*domain.CandidateProfile), score), args.Error(1)
}

func (m *MockCandidateRepo) RecomputeReadiness(ctx context.Context, userID string, score domain.ReadinessFunc) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return applyScore(args.Get(0).(*domain.CandidateProfile), score), args.Error(1)
}

func (m *MockCandidateRepo) CompareAndSetStatus(ctx context.Context, change domain.StatusChange) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

func (m *MockCandidateRepo) ListByStatus(ctx context.Context, status domain.ProfileStatus, limit, offset int) ([]domain.CandidateProfile, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.CandidateProfile), args.Get(1).(int64), args.Error(2)
}

func (m *MockCandidateRepo) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Skill), args.Error(1)
}

func applyScore(p *domain.CandidateProfile, score domain.ReadinessFunc) *domain.CandidateProfile {
	r := score(p)
	now := time.Now()
	p.ProfileCompletion = r.Completion
	p.IsProfileReady = r.IsReady
	p.LastValidatedAt = &now
	return p
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

type MockNotificationUsecase struct {
	mock.Mock
}

func (m *MockNotificationUsecase) Notify(ctx context.Context, userID, notifType, title, message string) (*domain.Notification, error) {
	args := m.Called(ctx, userID, notifType, title, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationUsecase) List(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) (*domain.PaginatedResult[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaginatedResult[domain.Notification]), args.Error(1)
}

func (m *MockNotificationUsecase) MarkRead(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditRepo) List(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]domain.AuditEntry, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.AuditEntry), args.Get(1).(int64), args.Error(2)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) FetchActive(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepo) FindBestMatches(ctx context.Context, skillIDs []int, limit int) ([]domain.JobMatch, error) {
	args := m.Called(ctx, skillIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobMatch), args.Error(1)
}

// ctxAs builds a request context for an authenticated caller.
func ctxAs(userID string, role domain.Role) context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, userID)
	return context.WithValue(ctx, domain.KeyUserRole, role)
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, kind), "expected kind %s, got %v", kind, err)
}

func TestCandidateIDOR(t *testing.T) {
	mockRepo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(mockRepo, validation.New())

	t.Run("Should fail when Context UserID does not match Argument UserID", func(t *testing.T) {
		_, err := uc.GetProfile(ctxAs("user1", domain.RoleCandidate), "user2")
		assertKind(t, err, apperror.KindForbidden)
		assert.Contains(t, err.Error(), "only access your own profile")
	})

	t.Run("Should fail safely when Context UserID is nil", func(t *testing.T) {
		_, err := uc.GetProfile(context.Background(), "user1")
		assertKind(t, err, apperror.KindUnauthorized)
		assert.Contains(t, err.Error(), "User not authenticated")
	})

	t.Run("Admin may read any profile", func(t *testing.T) {
		mockRepo.On("GetByUserID", mock.Anything, "user2").Return(&domain.CandidateProfile{ID: 2, UserID: "user2"}, nil).Once()
		p, err := uc.GetProfile(ctxAs("admin1", domain.RoleAdmin), "user2")
		require.NoError(t, err)
		assert.Equal(t, int64(2), p.ID)
	})

	t.Run("Admin may not update another profile", func(t *testing.T) {
		_, _, err := uc.UpdateProfile(ctxAs("admin1", domain.RoleAdmin), "user2", &domain.UpdateProfileRequest{})
		assertKind(t, err, apperror.KindForbidden)
		mockRepo.AssertNotCalled(t, "UpsertWithReadiness", mock.Anything, "user2", mock.Anything)
	})
}

func TestGetProfileNotFound(t *testing.T) {
	mockRepo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(mockRepo, validation.New())
	mockRepo.On("GetByUserID", mock.Anything, "user1").Return(nil, nil)

	_, err := uc.GetProfile(ctxAs("user1", domain.RoleCandidate), "user1")
	assertKind(t, err, apperror.KindProfileNotFound)
}

func TestUpdateProfile(t *testing.T) {
	rate := 50.0
	ctx := ctxAs("user1", domain.RoleCandidate)

	t.Run("normalizes input and returns the persisted readiness", func(t *testing.T) {
		mockRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(mockRepo, validation.New())

		stored := &domain.CandidateProfile{
			ID:           1,
			UserID:       "user1",
			FirstName:    "Ana",
			LastName:     "Lima",
			HourlyRate:   &rate,
			Availability: domain.AvailabilityContract,
			Status:       domain.ProfileStatusSubmitted,
		}
		mockRepo.On("UpsertWithReadiness", mock.Anything, "user1", mock.MatchedBy(func(req *domain.UpdateProfileRequest) bool {
			return req.FirstName == "Ana" && req.Availability == "CONTRACT" && assert.ObjectsAreEqual([]int{1, 2}, req.SkillIDs)
		})).Return(stored, nil)

		profile, readiness, err := uc.UpdateProfile(ctx, "user1", &domain.UpdateProfileRequest{
			FirstName:    "  Ana ",
			LastName:     "Lima",
			HourlyRate:   &rate,
			Availability: " contract ",
			SkillIDs:     []int{1, 2, 2, 1},
		})
		require.NoError(t, err)

		// Full name 10 + rate 15 + availability 10
		assert.Equal(t, 35, readiness.Completion)
		assert.False(t, readiness.IsReady)
		assert.Equal(t, readiness.Completion, profile.ProfileCompletion)
		assert.Equal(t, readiness.IsReady, profile.IsProfileReady)
		require.NotNil(t, readiness.LastValidatedAt)
		assert.Equal(t, domain.ProfileStatusSubmitted, profile.Status, "field updates must not touch status")
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects invalid input before touching storage", func(t *testing.T) {
		mockRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(mockRepo, validation.New())

		_, _, err := uc.UpdateProfile(ctx, "user1", &domain.UpdateProfileRequest{Availability: "SOMETIMES"})
		assertKind(t, err, apperror.KindValidation)
		mockRepo.AssertNotCalled(t, "UpsertWithReadiness", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates persistence failures", func(t *testing.T) {
		mockRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(mockRepo, validation.New())
		mockRepo.On("UpsertWithReadiness", mock.Anything, "user1", mock.Anything).
			Return(nil, apperror.PersistenceFailure("candidate.upsert", assert.AnError))

		_, _, err := uc.UpdateProfile(ctx, "user1", &domain.UpdateProfileRequest{})
		assertKind(t, err, apperror.KindPersistenceFailure)
	})
}

func TestComputeReadiness(t *testing.T) {
	ctx := ctxAs("user1", domain.RoleCandidate)

	t.Run("missing profile yields the empty result without error", func(t *testing.T) {
		mockRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(mockRepo, validation.New())
		mockRepo.On("RecomputeReadiness", mock.Anything, "user1").Return(nil, nil)

		res, err := uc.ComputeReadiness(ctx, "user1")
		require.NoError(t, err)
		assert.Equal(t, 0, res.Completion)
		assert.False(t, res.IsReady)
		assert.Len(t, res.MissingFields, 7)
		assert.Nil(t, res.LastValidatedAt)
	})

	t.Run("persisting run stamps last validated", func(t *testing.T) {
		mockRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(mockRepo, validation.New())
		mockRepo.On("RecomputeReadiness", mock.Anything, "user1").Return(fullProfile(), nil)

		res, err := uc.ComputeReadiness(ctx, "user1")
		require.NoError(t, err)
		assert.Equal(t, 100, res.Completion)
		assert.True(t, res.IsReady)
		assert.NotNil(t, res.LastValidatedAt)
	})
}

func TestCheckReadinessDoesNotPersist(t *testing.T) {
	mockRepo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(mockRepo, validation.New())
	mockRepo.On("GetByUserID", mock.Anything, "user1").Return(fullProfile(), nil)

	res, err := uc.CheckReadiness(ctxAs("user1", domain.RoleCandidate), "user1")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Completion)
	mockRepo.AssertNotCalled(t, "RecomputeReadiness", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpsertWithReadiness", mock.Anything, mock.Anything, mock.Anything)
}

func TestListSkillsNeverNil(t *testing.T) {
	mockRepo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(mockRepo, validation.New())
	mockRepo.On("ListSkills", mock.Anything).Return(nil, nil)

	skills, err := uc.ListSkills(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, skills)
	assert.Empty(t, skills)
}
