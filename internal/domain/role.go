package domain

import "fmt"

// Role is the closed set of account roles. Strings from the identity
// provider or database are parsed once at the boundary with ParseRole.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCandidate, RoleEmployer, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// CanReviewProfiles reports whether the role may act on submitted profiles.
func (r Role) CanReviewProfiles() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleCandidate, RoleEmployer:
		return false
	}
	return false
}

// HasCandidateProfile reports whether the role owns a candidate profile.
func (r Role) HasCandidateProfile() bool {
	switch r {
	case RoleCandidate:
		return true
	case RoleEmployer, RoleAdmin:
		return false
	}
	return false
}

// CanPostJobs reports whether the role may publish job postings.
func (r Role) CanPostJobs() bool {
	switch r {
	case RoleEmployer, RoleAdmin:
		return true
	case RoleCandidate:
		return false
	}
	return false
}
