package domain

import (
	"context"
	"time"
)

// Availability constants
type Availability string

const (
	AvailabilityFullTime    Availability = "FULL_TIME"
	AvailabilityPartTime    Availability = "PART_TIME"
	AvailabilityContract    Availability = "CONTRACT"
	AvailabilityUnavailable Availability = "UNAVAILABLE"
)

// ValidAvailabilities for validation
var ValidAvailabilities = []Availability{
	AvailabilityFullTime, AvailabilityPartTime, AvailabilityContract, AvailabilityUnavailable,
}

type Skill struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category *string `json:"category,omitempty"`
}

type CandidateProfile struct {
	ID           int64        `json:"id"`
	UserID       string       `json:"user_id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Headline     string       `json:"headline"`
	Bio          string       `json:"bio"`
	HourlyRate   *float64     `json:"hourly_rate"`
	PortfolioURL string       `json:"portfolio_url"`
	Availability Availability `json:"availability"`
	Skills       []Skill      `json:"skills"`

	// Derived by the readiness engine; always written together.
	ProfileCompletion int        `json:"profile_completion"`
	IsProfileReady    bool       `json:"is_profile_ready"`
	LastValidatedAt   *time.Time `json:"last_validated_at,omitempty"`

	// Review workflow; only changed through ProfileWorkflowUsecase.
	Status          ProfileStatus `json:"status"`
	RevisionNotes   *string       `json:"revision_notes,omitempty"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	SubmittedAt     *time.Time    `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	ReviewedBy      *string       `json:"reviewed_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileRequest carries the candidate-editable fields. Status and the
// readiness triple are deliberately absent.
type UpdateProfileRequest struct {
	FirstName    string   `json:"first_name" validate:"max=80,valid_name"`
	LastName     string   `json:"last_name" validate:"max=80,valid_name"`
	Headline     string   `json:"headline" validate:"max=160,no_emoji"`
	Bio          string   `json:"bio" validate:"max=5000"`
	HourlyRate   *float64 `json:"hourly_rate" validate:"omitempty,gt=0,lte=10000"`
	PortfolioURL string   `json:"portfolio_url" validate:"omitempty,url,max=500"`
	Availability string   `json:"availability" validate:"omitempty,availability"`
	SkillIDs     []int    `json:"skill_ids" validate:"max=50,dive,gt=0"`
}

// ReadinessResult is the output of the readiness engine.
type ReadinessResult struct {
	Completion      int                `json:"completion"`
	IsReady         bool               `json:"is_ready"`
	MissingFields   []string           `json:"missing_fields"`
	ScoreBreakdown  map[string]float64 `json:"score_breakdown"`
	LastValidatedAt *time.Time         `json:"last_validated_at,omitempty"`
}

// ReadinessFunc scores a profile snapshot. Repositories call it inside the
// transaction that persists the result.
type ReadinessFunc func(p *CandidateProfile) ReadinessResult

// StatusChange is a compare-and-swap request for a profile's review state.
type StatusChange struct {
	ProfileID       int64
	From            ProfileStatus
	To              ProfileStatus
	RevisionNotes   *string
	RejectionReason *string
	MarkSubmitted   bool
	ReviewedBy      *string
}

type CandidateRepository interface {
	// GetByUserID and GetByID return (nil, nil) when no profile exists.
	GetByUserID(ctx context.Context, userID string) (*CandidateProfile, error)
	GetByID(ctx context.Context, id int64) (*CandidateProfile, error)

	// UpsertWithReadiness writes the editable fields, replaces skill links
	// and persists score(profile) in one transaction.
	UpsertWithReadiness(ctx context.Context, userID string, req *UpdateProfileRequest, score ReadinessFunc) (*CandidateProfile, error)
	// RecomputeReadiness locks the profile row, scores it and persists the
	// result. Returns (nil, nil) when no profile exists.
	RecomputeReadiness(ctx context.Context, userID string, score ReadinessFunc) (*CandidateProfile, error)

	// CompareAndSetStatus applies change only if the stored status equals
	// change.From. Returns (nil, nil) when no row matched.
	CompareAndSetStatus(ctx context.Context, change StatusChange) (*CandidateProfile, error)

	ListByStatus(ctx context.Context, status ProfileStatus, limit, offset int) ([]CandidateProfile, int64, error)
	ListSkills(ctx context.Context) ([]Skill, error)
}

type CandidateUsecase interface {
	GetProfile(ctx context.Context, userID string) (*CandidateProfile, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*CandidateProfile, *ReadinessResult, error)
	// ComputeReadiness recomputes and persists; a missing profile yields the
	// empty result without error.
	ComputeReadiness(ctx context.Context, userID string) (*ReadinessResult, error)
	// CheckReadiness scores the stored profile without persisting.
	CheckReadiness(ctx context.Context, userID string) (*ReadinessResult, error)
	ListSkills(ctx context.Context) ([]Skill, error)
}
