package security

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// execer is satisfied by *pgxpool.Pool.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SecurityEventRepository handles persistence of security events to database
type SecurityEventRepository struct {
	db execer
}

func NewSecurityEventRepository(db execer) *SecurityEventRepository {
	return &SecurityEventRepository{db: db}
}

// PersistEvent inserts a security event into the database
func (r *SecurityEventRepository) PersistEvent(ctx context.Context, event SecurityEvent) error {
	query := `
		INSERT INTO security_events (
			event_type, service, environment, level,
			subject_type, subject_value, ip_address, user_agent,
			request_id, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11)`

	details := map[string]interface{}{"severity": string(event.Severity)}
	for k, v := range event.Details {
		details[k] = v
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode security event details: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		string(event.Event),
		event.Service,
		event.Environment,
		event.Level,
		nullIfEmpty(event.SubjectType),
		nullIfEmpty(event.SubjectValue),
		nullIfEmpty(event.IP),
		nullIfEmpty(event.UserAgent),
		nullIfEmpty(event.RequestID),
		string(detailsJSON),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to persist security event: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
