package postgres

import (
	"context"
	"errors"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type notificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) domain.NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (id, user_id, type, title, message, is_read, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperror.NotFound("Recipient does not exist")
		}
		return apperror.PersistenceFailure("notification.create", err)
	}
	return nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, error) {
	filter := `WHERE user_id = $1 AND ($2::boolean = FALSE OR is_read = FALSE)`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications `+filter, userID, unreadOnly).Scan(&total); err != nil {
		return nil, 0, apperror.PersistenceFailure("notification.list", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id::text, user_id, type, title, message, is_read, created_at
		FROM notifications `+filter+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, apperror.PersistenceFailure("notification.list", err)
	}
	defer rows.Close()

	items := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, apperror.PersistenceFailure("notification.list", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.PersistenceFailure("notification.list", err)
	}
	return items, total, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1::uuid AND user_id = $2`, id, userID)
	if err != nil {
		return false, apperror.PersistenceFailure("notification.mark_read", err)
	}
	return tag.RowsAffected() > 0, nil
}
