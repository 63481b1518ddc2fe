package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/security"
)

const (
	securityStatsWindow   = 7 * 24 * time.Hour
	securityStatsCacheTTL = time.Minute
)

type securityDashboardUsecase struct {
	repo domain.SecurityDashboardRepository
	now  func() time.Time

	statsMu      sync.RWMutex
	statsCache   *domain.SecurityDashboardStats
	statsCacheAt time.Time
}

func NewSecurityDashboardUsecase(repo domain.SecurityDashboardRepository) domain.SecurityDashboardUsecase {
	return &securityDashboardUsecase{repo: repo, now: time.Now}
}

func (u *securityDashboardUsecase) GetStats(ctx context.Context) (*domain.SecurityDashboardStats, error) {
	now := u.now()

	u.statsMu.RLock()
	if u.statsCache != nil && now.Sub(u.statsCacheAt) < securityStatsCacheTTL {
		stats := u.statsCache
		u.statsMu.RUnlock()
		return stats, nil
	}
	u.statsMu.RUnlock()

	stats, err := u.repo.GetStats(ctx, now.Add(-securityStatsWindow))
	if err != nil {
		return nil, err
	}

	u.statsMu.Lock()
	u.statsCache = stats
	u.statsCacheAt = now
	u.statsMu.Unlock()

	return stats, nil
}

func (u *securityDashboardUsecase) ListEvents(ctx context.Context, filter domain.SecurityEventFilter) (*domain.PaginatedResult[domain.SecurityEventView], error) {
	if filter.EventType != "" {
		if _, ok := security.EventSeverityMap[security.EventType(filter.EventType)]; !ok {
			return nil, apperror.BadRequest("Unknown event type").WithDetail("event_type", filter.EventType)
		}
	}
	if filter.Severity != "" {
		filter.Severity = strings.ToUpper(filter.Severity)
		switch security.Severity(filter.Severity) {
		case security.SeverityINFO, security.SeverityMEDIUM, security.SeverityWARN, security.SeverityHIGH:
		default:
			return nil, apperror.BadRequest("Unknown severity").WithDetail("severity", filter.Severity)
		}
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return nil, apperror.BadRequest("until must not be before since")
	}

	page, pageSize := domain.NormalizePage(filter.Page, filter.PageSize, 50, 200)
	events, total, err := u.repo.ListEvents(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(events, total, page, pageSize), nil
}
