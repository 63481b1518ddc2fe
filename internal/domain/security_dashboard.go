package domain

import (
	"context"
	"time"
)

// SecurityDashboardStats aggregates persisted security events.
type SecurityDashboardStats struct {
	TotalEvents       int64            `json:"totalEvents"`
	EventsBySeverity  map[string]int64 `json:"eventsBySeverity"`
	EventsByType      map[string]int64 `json:"eventsByType"`
	TopIPs            []IPSummary      `json:"topIps"`
	HighSeverity24h   int64            `json:"highSeverity24h"`
	RateLimited24h    int64            `json:"rateLimited24h"`
	CSRFViolations24h int64            `json:"csrfViolations24h"`
	GeneratedAt       time.Time        `json:"generatedAt"`
}

// IPSummary represents aggregated stats for an IP address
type IPSummary struct {
	IP         string    `json:"ip"`
	EventCount int64     `json:"eventCount"`
	Rejections int64     `json:"rejections"`
	LastSeen   time.Time `json:"lastSeen"`
}

// SecurityEventFilter is bound from the query string. Empty fields match
// everything.
type SecurityEventFilter struct {
	EventType string     `form:"event_type"`
	Severity  string     `form:"severity"`
	IP        string     `form:"ip"`
	RequestID string     `form:"request_id"`
	Since     *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until     *time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	Page      int        `form:"page"`
	PageSize  int        `form:"pageSize"`
}

type SecurityEventView struct {
	ID           int64                  `json:"id"`
	Timestamp    time.Time              `json:"timestamp"`
	EventType    string                 `json:"eventType"`
	Severity     string                 `json:"severity"`
	SubjectType  string                 `json:"subjectType,omitempty"`
	SubjectValue string                 `json:"subjectValue,omitempty"`
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"userAgent,omitempty"`
	RequestID    string                 `json:"requestId,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

type SecurityDashboardRepository interface {
	GetStats(ctx context.Context, since time.Time) (*SecurityDashboardStats, error)
	ListEvents(ctx context.Context, filter SecurityEventFilter, limit, offset int) ([]SecurityEventView, int64, error)
}

type SecurityDashboardUsecase interface {
	// GetStats is cached briefly; the dashboard polls it.
	GetStats(ctx context.Context) (*SecurityDashboardStats, error)
	ListEvents(ctx context.Context, filter SecurityEventFilter) (*PaginatedResult[SecurityEventView], error)
}
