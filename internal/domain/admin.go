package domain

import "context"

// AdminProfileDetail is a profile as seen from the review queue.
type AdminProfileDetail struct {
	Profile   *CandidateProfile `json:"profile"`
	Readiness *ReadinessResult  `json:"readiness"`
	Events    []ProfileEvent    `json:"available_events"`
	History   []AuditEntry      `json:"history"`
}

type AdminUsecase interface {
	ListProfiles(ctx context.Context, status ProfileStatus, page, pageSize int) (*PaginatedResult[CandidateProfile], error)
	GetProfile(ctx context.Context, profileID int64) (*AdminProfileDetail, error)
	ListAuditLogs(ctx context.Context, filter AuditFilter) (*PaginatedResult[AuditEntry], error)
	// ExportAuditLogs returns an XLSX workbook and a suggested file name.
	ExportAuditLogs(ctx context.Context, filter AuditFilter) ([]byte, string, error)
}

// HealthStatus reports dependency health for the /health endpoint.
type HealthStatus struct {
	Status    string            `json:"status"` // "healthy", "degraded", "down"
	Checks    map[string]string `json:"checks"`
	CheckedAt string            `json:"checkedAt"`
}

type HealthUsecase interface {
	Check(ctx context.Context) *HealthStatus
}
