package usecase_test

import (
	"context"
	"testing"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/internal/usecase"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBestMatches_Gate(t *testing.T) {
	t.Run("no profile returns an explanation", func(t *testing.T) {
		jobRepo, candRepo := new(MockJobRepo), new(MockCandidateRepo)
		uc := usecase.NewJobUsecase(jobRepo, candRepo, validation.New())
		candRepo.On("GetByUserID", mock.Anything, "user1").Return(nil, nil)

		res, err := uc.BestMatches(context.Background(), "user1", 10)
		require.NoError(t, err)
		assert.False(t, res.Ready)
		assert.NotEmpty(t, res.Message)
		assert.Len(t, res.MissingFields, 7)
		assert.NotNil(t, res.Matches)
		assert.Empty(t, res.Matches)
		jobRepo.AssertNotCalled(t, "FindBestMatches", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not ready skips the match query", func(t *testing.T) {
		jobRepo, candRepo := new(MockJobRepo), new(MockCandidateRepo)
		uc := usecase.NewJobUsecase(jobRepo, candRepo, validation.New())
		p := fullProfile()
		p.Skills = nil
		p.ProfileCompletion = 80
		p.IsProfileReady = false // stored flag is authoritative
		candRepo.On("GetByUserID", mock.Anything, "user1").Return(p, nil)

		res, err := uc.BestMatches(context.Background(), "user1", 10)
		require.NoError(t, err)
		assert.False(t, res.Ready)
		assert.Contains(t, res.Message, "80%")
		assert.Equal(t, []string{"Skills (min 3)"}, res.MissingFields)
		assert.Empty(t, res.Matches)
		jobRepo.AssertNotCalled(t, "FindBestMatches", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ready profile is matched on its skills", func(t *testing.T) {
		jobRepo, candRepo := new(MockJobRepo), new(MockCandidateRepo)
		uc := usecase.NewJobUsecase(jobRepo, candRepo, validation.New())
		p := fullProfile()
		p.ProfileCompletion = 100
		p.IsProfileReady = true
		candRepo.On("GetByUserID", mock.Anything, "user1").Return(p, nil)
		jobRepo.On("FindBestMatches", mock.Anything, []int{1, 2, 3}, 10).
			Return([]domain.JobMatch{{Job: domain.Job{ID: 3, Title: "Go Engineer"}, MatchedSkills: 2, RequiredSkills: 2, MatchScore: 1}}, nil)

		res, err := uc.BestMatches(context.Background(), "user1", 0)
		require.NoError(t, err)
		assert.True(t, res.Ready)
		require.Len(t, res.Matches, 1)
		assert.Equal(t, int64(3), res.Matches[0].ID)
		jobRepo.AssertExpectations(t)
	})
}

func TestCreateJob(t *testing.T) {
	t.Run("candidates cannot post", func(t *testing.T) {
		jobRepo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(jobRepo, new(MockCandidateRepo), validation.New())
		err := uc.CreateJob(context.Background(), candidate, &domain.Job{Title: "Go Engineer"})
		assertKind(t, err, apperror.KindForbidden)
	})

	t.Run("rate range is validated", func(t *testing.T) {
		jobRepo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(jobRepo, new(MockCandidateRepo), validation.New())
		err := uc.CreateJob(context.Background(), domain.Actor{ID: "emp1", Role: domain.RoleEmployer},
			&domain.Job{Title: "Go Engineer", HourlyRateMin: 80, HourlyRateMax: 40})
		assertKind(t, err, apperror.KindValidation)
		jobRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("employer posts an active job", func(t *testing.T) {
		jobRepo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(jobRepo, new(MockCandidateRepo), validation.New())
		jobRepo.On("Create", mock.Anything, mock.MatchedBy(func(j *domain.Job) bool {
			return j.EmployerID == "emp1" && j.Status == domain.JobStatusActive && len(j.SkillIDs) == 2
		})).Return(nil)

		err := uc.CreateJob(context.Background(), domain.Actor{ID: "emp1", Role: domain.RoleEmployer},
			&domain.Job{Title: " Go Engineer ", HourlyRateMin: 40, HourlyRateMax: 80, SkillIDs: []int{4, 5, 4}})
		require.NoError(t, err)
		jobRepo.AssertExpectations(t)
	})
}

func TestListJobsClampsPaging(t *testing.T) {
	jobRepo := new(MockJobRepo)
	uc := usecase.NewJobUsecase(jobRepo, new(MockCandidateRepo), validation.New())
	jobRepo.On("FetchActive", mock.Anything, 10, 0).Return([]domain.Job{{ID: 1}}, int64(21), nil)

	res, err := uc.ListJobs(context.Background(), 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 10, res.PageSize)
	assert.Equal(t, 3, res.TotalPages)
}
