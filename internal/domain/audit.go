package domain

import (
	"context"
	"time"
)

const AuditTargetCandidateProfile = "candidate_profile"

// AuditEntry is an immutable record of an administrative action.
type AuditEntry struct {
	ID         int64                  `json:"id"`
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	TargetType string                 `json:"target_type"`
	TargetID   string                 `json:"target_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

type AuditFilter struct {
	ActorID    string `form:"actor_id"`
	Action     string `form:"action"`
	TargetType string `form:"target_type"`
	TargetID   string `form:"target_id"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

type AuditLogRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, filter AuditFilter, limit, offset int) ([]AuditEntry, int64, error)
}
