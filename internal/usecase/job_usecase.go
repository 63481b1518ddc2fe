package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const (
	defaultBestMatchLimit = 10
	maxBestMatchLimit     = 50
)

type jobUsecase struct {
	jobRepo       domain.JobRepository
	candidateRepo domain.CandidateRepository
	validate      *validator.Validate
}

func NewJobUsecase(jobRepo domain.JobRepository, candidateRepo domain.CandidateRepository, validate *validator.Validate) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		validate:      validate,
	}
}

func (u *jobUsecase) CreateJob(ctx context.Context, actor domain.Actor, job *domain.Job) error {
	if !actor.Role.CanPostJobs() {
		return apperror.Forbidden("Only employers can post jobs")
	}

	job.Title = strings.TrimSpace(job.Title)
	job.Location = strings.TrimSpace(job.Location)
	job.SkillIDs = dedupeInts(job.SkillIDs)
	if err := u.validate.Struct(job); err != nil {
		messages := validation.FormatValidationErrors(err)
		return apperror.BadRequest(strings.Join(messages, "; ")).WithDetail("fields", messages)
	}

	job.EmployerID = actor.ID
	job.Status = domain.JobStatusActive
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt

	return u.jobRepo.Create(ctx, job)
}

func (u *jobUsecase) ListJobs(ctx context.Context, page, pageSize int) (*domain.PaginatedResult[domain.Job], error) {
	page, pageSize = domain.NormalizePage(page, pageSize, 10, 100)
	jobs, total, err := u.jobRepo.FetchActive(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(jobs, total, page, pageSize), nil
}

// BestMatches runs the skill match only for ready profiles. Otherwise it
// returns an empty list with an explanation, never an error.
func (u *jobUsecase) BestMatches(ctx context.Context, userID string, limit int) (*domain.BestMatchResult, error) {
	if limit < 1 || limit > maxBestMatchLimit {
		limit = defaultBestMatchLimit
	}

	profile, err := u.candidateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &domain.BestMatchResult{
			Ready:         false,
			Message:       "Create your candidate profile to see best-match jobs",
			MissingFields: EmptyReadiness().MissingFields,
			Matches:       []domain.JobMatch{},
		}, nil
	}

	if !profile.IsProfileReady {
		return &domain.BestMatchResult{
			Ready: false,
			Message: fmt.Sprintf("Your profile is %d%% complete. Reach %d%% to unlock best-match jobs",
				profile.ProfileCompletion, ReadinessThreshold),
			Completion:    profile.ProfileCompletion,
			MissingFields: ScoreProfile(profile).MissingFields,
			Matches:       []domain.JobMatch{},
		}, nil
	}

	skillIDs := make([]int, 0, len(profile.Skills))
	for _, s := range profile.Skills {
		skillIDs = append(skillIDs, s.ID)
	}

	matches, err := u.jobRepo.FindBestMatches(ctx, skillIDs, limit)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []domain.JobMatch{}
	}

	message := fmt.Sprintf("Found %d matching jobs", len(matches))
	if len(matches) == 0 {
		message = "No active jobs match your skills yet"
	}
	return &domain.BestMatchResult{
		Ready:      true,
		Message:    message,
		Completion: profile.ProfileCompletion,
		Matches:    matches,
	}, nil
}
