package domain

import (
	"context"
	"time"
)

type User struct {
	ID        string    `json:"id"` // identity-provider UUID
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
}

type AuthUsecase interface {
	// EnsureUser returns the local account for a verified token subject,
	// creating a candidate account on first sight.
	EnsureUser(ctx context.Context, id, email string) (*User, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}
