package usecase_test

import (
	"context"
	"errors"
	"testing"

	"talent-marketplace-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	down := errors.New("down")
	redisOK := func(context.Context) error { return nil }
	redisDown := func(context.Context) error { return down }

	tests := []struct {
		name   string
		db     usecase.Pinger
		redis  func(context.Context) error
		status string
		checks map[string]string
	}{
		{"all healthy", fakePinger{}, redisOK, "healthy", map[string]string{"database": "ok", "redis": "ok"}},
		{"redis disabled", fakePinger{}, nil, "healthy", map[string]string{"database": "ok", "redis": "disabled"}},
		{"redis down degrades", fakePinger{}, redisDown, "degraded", map[string]string{"database": "ok", "redis": "unreachable"}},
		{"database down", fakePinger{err: down}, redisOK, "down", map[string]string{"database": "unreachable", "redis": "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := usecase.NewHealthUsecase(tt.db, tt.redis).Check(context.Background())
			assert.Equal(t, tt.status, h.Status)
			assert.Equal(t, tt.checks, h.Checks)
			assert.NotEmpty(t, h.CheckedAt)
		})
	}
}
