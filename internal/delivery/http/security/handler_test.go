package security

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talent-marketplace-backend/internal/delivery/http/middleware"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockDashboardUC struct {
	mock.Mock
}

func (m *mockDashboardUC) GetStats(ctx context.Context) (*domain.SecurityDashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SecurityDashboardStats), args.Error(1)
}

func (m *mockDashboardUC) ListEvents(ctx context.Context, filter domain.SecurityEventFilter) (*domain.PaginatedResult[domain.SecurityEventView], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaginatedResult[domain.SecurityEventView]), args.Error(1)
}

func newEngine(uc domain.SecurityDashboardUsecase) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(nil))
	NewSecurityDashboardHandler(uc).RegisterRoutes(r.Group("/admin/security"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetStats(t *testing.T) {
	uc := new(mockDashboardUC)
	uc.On("GetStats", mock.Anything).Return(&domain.SecurityDashboardStats{
		TotalEvents:      4,
		EventsBySeverity: map[string]int64{"HIGH": 3, "WARN": 1},
	}, nil)

	w := get(newEngine(uc), "/admin/security/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data domain.SecurityDashboardStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(4), body.Data.TotalEvents)
	assert.Equal(t, int64(3), body.Data.EventsBySeverity["HIGH"])
}

func TestGetStatsStoreDown(t *testing.T) {
	uc := new(mockDashboardUC)
	uc.On("GetStats", mock.Anything).Return(nil, apperror.PersistenceFailure("security.stats", errors.New("down")))

	w := get(newEngine(uc), "/admin/security/stats")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListEventsBindsFilter(t *testing.T) {
	uc := new(mockDashboardUC)
	since := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	uc.On("ListEvents", mock.Anything, mock.MatchedBy(func(f domain.SecurityEventFilter) bool {
		return f.EventType == "csrf_violation" && f.IP == "10.0." && f.Page == 2 &&
			f.Since != nil && f.Since.Equal(since) && f.Until == nil
	})).Return(domain.NewPaginatedResult([]domain.SecurityEventView{{ID: 9}}, 1, 2, 50), nil)

	w := get(newEngine(uc), "/admin/security/events?event_type=csrf_violation&ip=10.0.&page=2&since=2026-10-01T00:00:00Z")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	uc.AssertExpectations(t)
}

func TestListEventsRejectsBadQuery(t *testing.T) {
	uc := new(mockDashboardUC)

	w := get(newEngine(uc), "/admin/security/events?since=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "ListEvents", mock.Anything, mock.Anything)
}
