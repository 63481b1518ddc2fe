package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/logger"
)

type profileWorkflowUsecase struct {
	candidateRepo domain.CandidateRepository
	notifUC       domain.NotificationUsecase
	auditRepo     domain.AuditLogRepository
	now           func() time.Time
}

func NewProfileWorkflowUsecase(
	candidateRepo domain.CandidateRepository,
	notifUC domain.NotificationUsecase,
	auditRepo domain.AuditLogRepository,
) domain.ProfileWorkflowUsecase {
	return &profileWorkflowUsecase{
		candidateRepo: candidateRepo,
		notifUC:       notifUC,
		auditRepo:     auditRepo,
		now:           time.Now,
	}
}

func (u *profileWorkflowUsecase) Transition(ctx context.Context, profileID int64, event domain.ProfileEvent, actor domain.Actor, payload domain.TransitionPayload) (*domain.TransitionResult, error) {
	profile, err := u.candidateRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.ProfileNotFound(profileID)
	}
	return u.apply(ctx, profile, event, actor, payload)
}

func (u *profileWorkflowUsecase) Submit(ctx context.Context, actor domain.Actor) (*domain.TransitionResult, error) {
	return u.transitionOwn(ctx, actor, domain.EventSubmit)
}

func (u *profileWorkflowUsecase) Resubmit(ctx context.Context, actor domain.Actor) (*domain.TransitionResult, error) {
	return u.transitionOwn(ctx, actor, domain.EventResubmit)
}

func (u *profileWorkflowUsecase) transitionOwn(ctx context.Context, actor domain.Actor, event domain.ProfileEvent) (*domain.TransitionResult, error) {
	profile, err := u.candidateRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.ProfileNotFound(actor.ID)
	}
	return u.apply(ctx, profile, event, actor, domain.TransitionPayload{})
}

// apply validates event against the snapshot and commits it with a
// compare-and-swap on the snapshot's status.
func (u *profileWorkflowUsecase) apply(ctx context.Context, profile *domain.CandidateProfile, event domain.ProfileEvent, actor domain.Actor, payload domain.TransitionPayload) (*domain.TransitionResult, error) {
	from := profile.Status

	allowed, known := domain.EventActor(event)
	if !known {
		return nil, apperror.InvalidTransition(string(from), string(event), fmt.Sprintf("Unknown event %q", event))
	}
	if err := authorizeTransition(allowed, actor, profile); err != nil {
		return nil, err
	}

	rule, ok := domain.LookupTransition(from, event)
	if !ok {
		return nil, apperror.InvalidTransition(string(from), string(event),
			fmt.Sprintf("Cannot %s a profile in status %s", event, from))
	}

	payload.Reason = strings.TrimSpace(payload.Reason)
	payload.Notes = strings.TrimSpace(payload.Notes)
	switch rule.Requires {
	case "reason":
		if payload.Reason == "" {
			return nil, apperror.InvalidTransition(string(from), string(event), "A rejection reason is required").
				WithDetail("field", "reason")
		}
	case "notes":
		if payload.Notes == "" {
			return nil, apperror.InvalidTransition(string(from), string(event), "Revision notes are required").
				WithDetail("field", "notes")
		}
	}

	change := domain.StatusChange{
		ProfileID:     profile.ID,
		From:          from,
		To:            rule.To,
		MarkSubmitted: rule.To == domain.ProfileStatusSubmitted,
	}
	switch rule.To {
	case domain.ProfileStatusNeedRevision:
		change.RevisionNotes = &payload.Notes
	case domain.ProfileStatusRejected:
		change.RejectionReason = &payload.Reason
	}
	if rule.Actor == domain.RoleAdmin {
		reviewer := actor.ID
		change.ReviewedBy = &reviewer
	}

	updated, err := u.candidateRepo.CompareAndSetStatus(ctx, change)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, u.explainLostSwap(ctx, profile.ID, from)
	}

	result := &domain.TransitionResult{
		Profile: updated,
		Event:   event,
		From:    from,
		To:      rule.To,
		At:      u.now(),
	}
	if rule.Actor == domain.RoleAdmin {
		result.Warnings = u.reviewSideEffects(ctx, updated, rule, actor, payload)
	}

	logger.Log.Info("Profile transitioned",
		"profile_id", profile.ID,
		"event", event,
		"from", from,
		"to", rule.To,
		"actor_id", actor.ID,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

func authorizeTransition(allowed domain.Role, actor domain.Actor, profile *domain.CandidateProfile) error {
	switch allowed {
	case domain.RoleAdmin:
		if !actor.Role.CanReviewProfiles() {
			return apperror.Forbidden("Only admins can review profiles")
		}
	case domain.RoleCandidate:
		if !actor.Role.HasCandidateProfile() {
			return apperror.Forbidden("Only candidates can submit profiles")
		}
		if profile.UserID != actor.ID {
			return apperror.Forbidden("You can only submit your own profile")
		}
	case domain.RoleEmployer:
		return apperror.Forbidden("Employers cannot change profile status")
	}
	return nil
}

// explainLostSwap tells a vanished profile apart from a concurrent writer.
func (u *profileWorkflowUsecase) explainLostSwap(ctx context.Context, profileID int64, expected domain.ProfileStatus) error {
	current, err := u.candidateRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if current == nil {
		return apperror.ProfileNotFound(profileID)
	}
	return apperror.ConcurrentModification(string(expected), string(current.Status))
}

// reviewSideEffects notifies the candidate and appends the audit entry.
// Failures are returned as warnings; the transition stays committed.
func (u *profileWorkflowUsecase) reviewSideEffects(ctx context.Context, profile *domain.CandidateProfile, rule domain.TransitionRule, actor domain.Actor, payload domain.TransitionPayload) []string {
	var warnings []string

	notifType, title, message := reviewNotification(rule.To, payload)
	if _, err := u.notifUC.Notify(ctx, profile.UserID, notifType, title, message); err != nil {
		logger.Log.Warn("Review notification failed", "profile_id", profile.ID, "error", err)
		warnings = append(warnings, fmt.Sprintf("notification: %v", err))
	}

	details := map[string]interface{}{
		"from_status": string(rule.From),
		"to_status":   string(rule.To),
	}
	if payload.Reason != "" {
		details["reason"] = payload.Reason
	}
	if payload.Notes != "" {
		details["notes"] = payload.Notes
	}
	entry := &domain.AuditEntry{
		ActorID:    actor.ID,
		Action:     AuditAction(rule.Event),
		TargetType: domain.AuditTargetCandidateProfile,
		TargetID:   strconv.FormatInt(profile.ID, 10),
		Details:    details,
	}
	if err := u.auditRepo.Append(ctx, entry); err != nil {
		logger.Log.Warn("Audit append failed", "profile_id", profile.ID, "action", entry.Action, "error", err)
		warnings = append(warnings, fmt.Sprintf("audit log: %v", err))
	}

	return warnings
}

// AuditAction names the audit action for a workflow event, e.g.
// "profile.request_revision".
func AuditAction(event domain.ProfileEvent) string {
	return "profile." + strings.ReplaceAll(string(event), "-", "_")
}

func reviewNotification(to domain.ProfileStatus, payload domain.TransitionPayload) (notifType, title, message string) {
	switch to {
	case domain.ProfileStatusApproved:
		return domain.NotificationTypeProfileApproved, "Profile approved", "Your profile has been approved"
	case domain.ProfileStatusRejected:
		return domain.NotificationTypeProfileRejected, "Profile rejected", "Your profile has been rejected: " + payload.Reason
	case domain.ProfileStatusNeedRevision:
		return domain.NotificationTypeProfileRevisionRequest, "Revision requested", "Your profile needs revision: " + payload.Notes
	}
	return "PROFILE_STATUS_CHANGED", "Profile updated", fmt.Sprintf("Your profile status is now %s", to)
}
