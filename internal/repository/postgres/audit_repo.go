package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
)

type auditRepo struct {
	db *pgxpool.Pool
}

// NewAuditLogRepository returns an append-only audit store; there is no
// update or delete.
func NewAuditLogRepository(db *pgxpool.Pool) domain.AuditLogRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	var details []byte
	if len(entry.Details) > 0 {
		var err error
		if details, err = json.Marshal(entry.Details); err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (actor_id, action, target_type, target_id, details)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		RETURNING id, created_at`,
		entry.ActorID, entry.Action, entry.TargetType, entry.TargetID, nullableJSON(details),
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return apperror.PersistenceFailure("audit.append", err)
	}
	return nil
}

// List returns entries newest first. Empty filter fields match everything.
func (r *auditRepo) List(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]domain.AuditEntry, int64, error) {
	var conds []string
	var args []interface{}
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("actor_id", filter.ActorID)
	add("action", filter.Action)
	add("target_type", filter.TargetType)
	add("target_id", filter.TargetID)

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperror.PersistenceFailure("audit.list", err)
	}

	query := fmt.Sprintf(`
		SELECT id, actor_id, action, target_type, target_id, COALESCE(details::text, ''), created_at
		FROM audit_logs %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, apperror.PersistenceFailure("audit.list", err)
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var e domain.AuditEntry
		var details string
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.TargetType, &e.TargetID, &details, &e.CreatedAt); err != nil {
			return nil, 0, apperror.PersistenceFailure("audit.list", err)
		}
		if details != "" {
			if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
				return nil, 0, fmt.Errorf("decode audit details: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.PersistenceFailure("audit.list", err)
	}
	return entries, total, nil
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
