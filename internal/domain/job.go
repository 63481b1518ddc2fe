package domain

import (
	"context"
	"time"
)

const (
	JobStatusActive = "ACTIVE"
	JobStatusClosed = "CLOSED"
)

type Job struct {
	ID            int64     `json:"id"`
	EmployerID    string    `json:"employer_id"`
	Title         string    `json:"title" validate:"required,min=3,max=150"`
	Description   string    `json:"description" validate:"max=10000"`
	HourlyRateMin float64   `json:"hourly_rate_min" validate:"gte=0"`
	HourlyRateMax float64   `json:"hourly_rate_max" validate:"gte=0,gtefield=HourlyRateMin"`
	Location      string    `json:"location" validate:"max=120"`
	Status        string    `json:"status"`
	Skills        []Skill   `json:"skills"`
	SkillIDs      []int     `json:"skill_ids,omitempty" validate:"max=30,dive,gt=0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// JobMatch is a job ranked against a candidate's skills.
type JobMatch struct {
	Job
	MatchedSkills  int     `json:"matched_skills"`
	RequiredSkills int     `json:"required_skills"`
	MatchScore     float64 `json:"match_score"`
}

// BestMatchResult is returned with HTTP 200 whether or not the candidate is
// ready; Ready=false carries an explanation instead of matches.
type BestMatchResult struct {
	Ready         bool       `json:"ready"`
	Message       string     `json:"message"`
	Completion    int        `json:"completion"`
	MissingFields []string   `json:"missing_fields,omitempty"`
	Matches       []JobMatch `json:"matches"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	FetchActive(ctx context.Context, limit, offset int) ([]Job, int64, error)
	// FindBestMatches ranks active jobs by overlap with the profile's skills.
	FindBestMatches(ctx context.Context, skillIDs []int, limit int) ([]JobMatch, error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, actor Actor, job *Job) error
	ListJobs(ctx context.Context, page, pageSize int) (*PaginatedResult[Job], error)
	BestMatches(ctx context.Context, userID string, limit int) (*BestMatchResult, error)
}
