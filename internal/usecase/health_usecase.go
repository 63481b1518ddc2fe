package usecase

import (
	"context"
	"time"

	"talent-marketplace-backend/internal/domain"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthUsecase struct {
	db    Pinger
	redis func(ctx context.Context) error
}

// NewHealthUsecase checks the database and, when redisCheck is non-nil, Redis.
// The database is required; Redis only degrades the status since the
// rate limiter and CSRF store fall back to memory.
func NewHealthUsecase(db Pinger, redisCheck func(ctx context.Context) error) domain.HealthUsecase {
	return &healthUsecase{db: db, redis: redisCheck}
}

func (u *healthUsecase) Check(ctx context.Context) *domain.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := &domain.HealthStatus{
		Status:    "healthy",
		Checks:    map[string]string{},
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if u.db == nil {
		status.Checks["database"] = "not configured"
		status.Status = "down"
	} else if err := u.db.Ping(ctx); err != nil {
		status.Checks["database"] = "unreachable"
		status.Status = "down"
	} else {
		status.Checks["database"] = "ok"
	}

	switch {
	case u.redis == nil:
		status.Checks["redis"] = "disabled"
	case u.redis(ctx) != nil:
		status.Checks["redis"] = "unreachable"
		if status.Status == "healthy" {
			status.Status = "degraded"
		}
	default:
		status.Checks["redis"] = "ok"
	}

	return status
}
