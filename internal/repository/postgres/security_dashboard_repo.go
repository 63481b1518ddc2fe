package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Severity is stored inside details by the security logger.
const severityExpr = `COALESCE(details->>'severity', 'UNKNOWN')`

type securityDashboardRepo struct {
	db *pgxpool.Pool
}

// NewSecurityDashboardRepository reads the security_events table written by
// the security logger's persist hook.
func NewSecurityDashboardRepository(db *pgxpool.Pool) domain.SecurityDashboardRepository {
	return &securityDashboardRepo{db: db}
}

// GetStats aggregates events created after since. The 24h counters are
// always relative to now.
func (r *securityDashboardRepo) GetStats(ctx context.Context, since time.Time) (*domain.SecurityDashboardStats, error) {
	stats := &domain.SecurityDashboardStats{
		EventsBySeverity: make(map[string]int64),
		EventsByType:     make(map[string]int64),
		TopIPs:           []domain.IPSummary{},
		GeneratedAt:      time.Now().UTC(),
	}

	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE details->>'severity' = 'HIGH' AND created_at > NOW() - INTERVAL '24 hours'),
			COUNT(*) FILTER (WHERE event_type = 'rate_limit_triggered' AND created_at > NOW() - INTERVAL '24 hours'),
			COUNT(*) FILTER (WHERE event_type = 'csrf_violation' AND created_at > NOW() - INTERVAL '24 hours')
		FROM security_events`,
	).Scan(&stats.TotalEvents, &stats.HighSeverity24h, &stats.RateLimited24h, &stats.CSRFViolations24h)
	if err != nil {
		return nil, apperror.PersistenceFailure("security.stats", err)
	}

	if err := r.countInto(ctx, stats.EventsBySeverity,
		`SELECT `+severityExpr+`, COUNT(*) FROM security_events WHERE created_at >= $1 GROUP BY 1`, since); err != nil {
		return nil, err
	}
	if err := r.countInto(ctx, stats.EventsByType,
		`SELECT event_type, COUNT(*) FROM security_events WHERE created_at >= $1
		 GROUP BY event_type ORDER BY COUNT(*) DESC LIMIT 20`, since); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT ip_address, COUNT(*),
		       COUNT(*) FILTER (WHERE event_type IN ('unauthorized_access', 'forbidden_access', 'csrf_violation', 'rate_limit_triggered')),
		       MAX(created_at)
		FROM security_events
		WHERE ip_address IS NOT NULL AND created_at >= $1
		GROUP BY ip_address
		ORDER BY COUNT(*) DESC
		LIMIT 10`, since)
	if err != nil {
		return nil, apperror.PersistenceFailure("security.stats", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ip domain.IPSummary
		if err := rows.Scan(&ip.IP, &ip.EventCount, &ip.Rejections, &ip.LastSeen); err != nil {
			return nil, apperror.PersistenceFailure("security.stats", err)
		}
		stats.TopIPs = append(stats.TopIPs, ip)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.PersistenceFailure("security.stats", err)
	}

	return stats, nil
}

func (r *securityDashboardRepo) countInto(ctx context.Context, into map[string]int64, query string, args ...interface{}) error {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return apperror.PersistenceFailure("security.stats", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return apperror.PersistenceFailure("security.stats", err)
		}
		into[key] = count
	}
	if err := rows.Err(); err != nil {
		return apperror.PersistenceFailure("security.stats", err)
	}
	return nil
}

// ListEvents returns events newest first.
func (r *securityDashboardRepo) ListEvents(ctx context.Context, filter domain.SecurityEventFilter, limit, offset int) ([]domain.SecurityEventView, int64, error) {
	var conds []string
	var args []interface{}
	add := func(cond string, value interface{}) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.EventType != "" {
		add("event_type = $%d", filter.EventType)
	}
	if filter.Severity != "" {
		add(severityExpr+" = $%d", filter.Severity)
	}
	if filter.IP != "" {
		add("ip_address LIKE $%d", filter.IP+"%")
	}
	if filter.RequestID != "" {
		add("request_id = $%d", filter.RequestID)
	}
	if filter.Since != nil {
		add("created_at >= $%d", *filter.Since)
	}
	if filter.Until != nil {
		add("created_at <= $%d", *filter.Until)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM security_events`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperror.PersistenceFailure("security.list", err)
	}

	query := fmt.Sprintf(`
		SELECT id, created_at, event_type, %s,
		       COALESCE(subject_type, ''), COALESCE(subject_value, ''),
		       COALESCE(ip_address, ''), COALESCE(user_agent, ''),
		       COALESCE(request_id, ''), COALESCE(details, '{}'::jsonb)
		FROM security_events%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, severityExpr, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.PersistenceFailure("security.list", err)
	}
	defer rows.Close()

	events := []domain.SecurityEventView{}
	for rows.Next() {
		var e domain.SecurityEventView
		var details []byte
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.EventType, &e.Severity,
			&e.SubjectType, &e.SubjectValue, &e.IP, &e.UserAgent,
			&e.RequestID, &details,
		); err != nil {
			return nil, 0, apperror.PersistenceFailure("security.list", err)
		}
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, 0, fmt.Errorf("decode security event %d details: %w", e.ID, err)
		}
		delete(e.Details, "severity")
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.PersistenceFailure("security.list", err)
	}
	return events, total, nil
}
