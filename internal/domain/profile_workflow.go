package domain

import (
	"context"
	"time"
)

type ProfileStatus string

const (
	ProfileStatusDraft        ProfileStatus = "DRAFT"
	ProfileStatusSubmitted    ProfileStatus = "SUBMITTED"
	ProfileStatusNeedRevision ProfileStatus = "NEED_REVISION"
	ProfileStatusApproved     ProfileStatus = "APPROVED"
	ProfileStatusRejected     ProfileStatus = "REJECTED"
)

// ValidProfileStatuses for query filters
var ValidProfileStatuses = []ProfileStatus{
	ProfileStatusDraft, ProfileStatusSubmitted, ProfileStatusNeedRevision,
	ProfileStatusApproved, ProfileStatusRejected,
}

type ProfileEvent string

const (
	EventSubmit          ProfileEvent = "submit"
	EventApprove         ProfileEvent = "approve"
	EventReject          ProfileEvent = "reject"
	EventRequestRevision ProfileEvent = "request-revision"
	EventResubmit        ProfileEvent = "resubmit"
)

// TransitionRule is one edge of the review workflow.
type TransitionRule struct {
	From  ProfileStatus
	Event ProfileEvent
	To    ProfileStatus
	Actor Role
	// Requires names the payload field that must be non-empty, if any.
	Requires string
}

// APPROVED and REJECTED have no outgoing edges.
var profileTransitions = []TransitionRule{
	{From: ProfileStatusDraft, Event: EventSubmit, To: ProfileStatusSubmitted, Actor: RoleCandidate},
	{From: ProfileStatusSubmitted, Event: EventApprove, To: ProfileStatusApproved, Actor: RoleAdmin},
	{From: ProfileStatusSubmitted, Event: EventReject, To: ProfileStatusRejected, Actor: RoleAdmin, Requires: "reason"},
	{From: ProfileStatusSubmitted, Event: EventRequestRevision, To: ProfileStatusNeedRevision, Actor: RoleAdmin, Requires: "notes"},
	{From: ProfileStatusNeedRevision, Event: EventResubmit, To: ProfileStatusSubmitted, Actor: RoleCandidate},
}

// LookupTransition returns the rule for (from, event), if one exists.
func LookupTransition(from ProfileStatus, event ProfileEvent) (TransitionRule, bool) {
	for _, r := range profileTransitions {
		if r.From == from && r.Event == event {
			return r, true
		}
	}
	return TransitionRule{}, false
}

// EventsFrom lists the events legal in status, in table order.
func EventsFrom(status ProfileStatus) []ProfileEvent {
	var events []ProfileEvent
	for _, r := range profileTransitions {
		if r.From == status {
			events = append(events, r.Event)
		}
	}
	return events
}

// EventActor returns the role allowed to raise e. Every event belongs to
// exactly one role; ok is false for events outside the workflow.
func EventActor(e ProfileEvent) (role Role, ok bool) {
	for _, r := range profileTransitions {
		if r.Event == e {
			return r.Actor, true
		}
	}
	return "", false
}

type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

type TransitionPayload struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

type TransitionRequest struct {
	Event  ProfileEvent `json:"event" binding:"required"`
	Reason string       `json:"reason"`
	Notes  string       `json:"notes"`
}

type TransitionResult struct {
	Profile  *CandidateProfile `json:"profile"`
	Event    ProfileEvent      `json:"event"`
	From     ProfileStatus     `json:"from"`
	To       ProfileStatus     `json:"to"`
	At       time.Time         `json:"at"`
	Warnings []string          `json:"warnings,omitempty"`
}

type ProfileWorkflowUsecase interface {
	Transition(ctx context.Context, profileID int64, event ProfileEvent, actor Actor, payload TransitionPayload) (*TransitionResult, error)
	// Submit and Resubmit act on the actor's own profile.
	Submit(ctx context.Context, actor Actor) (*TransitionResult, error)
	Resubmit(ctx context.Context, actor Actor) (*TransitionResult, error)
}
