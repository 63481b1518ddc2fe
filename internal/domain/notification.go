package domain

import (
	"context"
	"time"
)

const (
	NotificationTypeProfileApproved        = "PROFILE_APPROVED"
	NotificationTypeProfileRejected        = "PROFILE_REJECTED"
	NotificationTypeProfileRevisionRequest = "PROFILE_REVISION_REQUESTED"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, int64, error)
	// MarkRead returns false when no notification with id belongs to userID.
	MarkRead(ctx context.Context, id, userID string) (bool, error)
}

type NotificationUsecase interface {
	// Notify stores an in-app notification and, when a mailer is configured,
	// sends an email copy. An email failure is reported but the stored
	// notification is kept.
	Notify(ctx context.Context, userID, notifType, title, message string) (*Notification, error)
	List(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) (*PaginatedResult[Notification], error)
	MarkRead(ctx context.Context, userID, id string) error
}
