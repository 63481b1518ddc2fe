package usecase

import (
	"context"
	"fmt"
	"time"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/email"

	"github.com/google/uuid"
)

// NotificationMailer sends an email copy of a notification. *email.EmailService
// satisfies it.
type NotificationMailer interface {
	SendNotification(to string, data email.NotificationEmailData) error
}

type notificationUsecase struct {
	repo     domain.NotificationRepository
	userRepo domain.UserRepository
	mailer   NotificationMailer
}

// NewNotificationUsecase builds the inbox. mailer may be nil, which disables
// email copies.
func NewNotificationUsecase(repo domain.NotificationRepository, userRepo domain.UserRepository, mailer NotificationMailer) domain.NotificationUsecase {
	return &notificationUsecase{
		repo:     repo,
		userRepo: userRepo,
		mailer:   mailer,
	}
}

func (u *notificationUsecase) Notify(ctx context.Context, userID, notifType, title, message string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := u.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if u.mailer == nil {
		return n, nil
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return n, fmt.Errorf("email copy not sent: %w", err)
	}
	if user == nil || user.Email == "" {
		return n, nil
	}
	if err := u.mailer.SendNotification(user.Email, email.NotificationEmailData{Title: title, Message: message}); err != nil {
		return n, fmt.Errorf("email copy not sent: %w", err)
	}
	return n, nil
}

func (u *notificationUsecase) List(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) (*domain.PaginatedResult[domain.Notification], error) {
	page, pageSize = domain.NormalizePage(page, pageSize, 20, 100)
	items, total, err := u.repo.ListByUser(ctx, userID, unreadOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(items, total, page, pageSize), nil
}

func (u *notificationUsecase) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.BadRequest("Invalid notification ID")
	}
	ok, err := u.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Notification not found")
	}
	return nil
}
