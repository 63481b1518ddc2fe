package usecase

import (
	"context"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
)

// actorFromContext reads the authenticated caller. It works with both the
// gin context (c.Set string keys) and context.WithValue(CtxKey) contexts.
func actorFromContext(ctx context.Context) (domain.Actor, error) {
	var actor domain.Actor

	if id, ok := ctx.Value(string(domain.KeyUserID)).(string); ok {
		actor.ID = id
	} else if id, ok := ctx.Value(domain.KeyUserID).(string); ok {
		actor.ID = id
	}

	if r, ok := ctx.Value(string(domain.KeyUserRole)).(domain.Role); ok {
		actor.Role = r
	} else if r, ok := ctx.Value(domain.KeyUserRole).(domain.Role); ok {
		actor.Role = r
	}

	if actor.ID == "" {
		return actor, apperror.Unauthorized("User not authenticated")
	}
	return actor, nil
}

// requireSelfOrAdmin allows the owner of userID and reviewers through.
func requireSelfOrAdmin(ctx context.Context, userID string) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if actor.ID != userID && !actor.Role.CanReviewProfiles() {
		return apperror.Forbidden("You can only access your own profile")
	}
	return nil
}

// requireAdmin checks if the current user may review profiles.
func requireAdmin(ctx context.Context) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if !actor.Role.CanReviewProfiles() {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}
