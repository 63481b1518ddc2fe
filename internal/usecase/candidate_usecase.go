package usecase

import (
	"context"
	"strings"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/logger"
	"talent-marketplace-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type candidateUsecase struct {
	repo     domain.CandidateRepository
	validate *validator.Validate
}

func NewCandidateUsecase(repo domain.CandidateRepository, validate *validator.Validate) domain.CandidateUsecase {
	return &candidateUsecase{
		repo:     repo,
		validate: validate,
	}
}

func (u *candidateUsecase) GetProfile(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	if err := requireSelfOrAdmin(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.ProfileNotFound(userID)
	}
	return profile, nil
}

// UpdateProfile writes the editable fields and recomputes readiness in the
// same transaction, so readers never see new fields with a stale score.
func (u *candidateUsecase) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.CandidateProfile, *domain.ReadinessResult, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	// IDOR: only the owner edits, whatever userID the caller passed.
	if actor.ID != userID {
		return nil, nil, apperror.Forbidden("You can only update your own profile")
	}

	normalizeProfileRequest(req)
	if err := u.validate.Struct(req); err != nil {
		messages := validation.FormatValidationErrors(err)
		return nil, nil, apperror.BadRequest(strings.Join(messages, "; ")).WithDetail("fields", messages)
	}

	var result domain.ReadinessResult
	score := func(p *domain.CandidateProfile) domain.ReadinessResult {
		result = ScoreProfile(p)
		return result
	}

	profile, err := u.repo.UpsertWithReadiness(ctx, userID, req, score)
	if err != nil {
		return nil, nil, err
	}
	result.LastValidatedAt = profile.LastValidatedAt

	logger.Log.Debug("Profile updated", "user_id", userID, "completion", result.Completion, "ready", result.IsReady)
	return profile, &result, nil
}

func (u *candidateUsecase) ComputeReadiness(ctx context.Context, userID string) (*domain.ReadinessResult, error) {
	if err := requireSelfOrAdmin(ctx, userID); err != nil {
		return nil, err
	}

	var result domain.ReadinessResult
	score := func(p *domain.CandidateProfile) domain.ReadinessResult {
		result = ScoreProfile(p)
		return result
	}

	profile, err := u.repo.RecomputeReadiness(ctx, userID, score)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		empty := EmptyReadiness()
		return &empty, nil
	}
	result.LastValidatedAt = profile.LastValidatedAt
	return &result, nil
}

func (u *candidateUsecase) CheckReadiness(ctx context.Context, userID string) (*domain.ReadinessResult, error) {
	if err := requireSelfOrAdmin(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := ScoreProfile(profile)
	if profile != nil {
		result.LastValidatedAt = profile.LastValidatedAt
	}
	return &result, nil
}

func (u *candidateUsecase) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	skills, err := u.repo.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []domain.Skill{}
	}
	return skills, nil
}

func normalizeProfileRequest(req *domain.UpdateProfileRequest) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Headline = strings.TrimSpace(req.Headline)
	req.Bio = strings.TrimSpace(req.Bio)
	req.PortfolioURL = strings.TrimSpace(req.PortfolioURL)
	req.Availability = strings.ToUpper(strings.TrimSpace(req.Availability))
	req.SkillIDs = dedupeInts(req.SkillIDs)
}

func dedupeInts(in []int) []int {
	if len(in) == 0 {
		return in
	}
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
