package usecase

import (
	"math"
	"strings"
	"unicode/utf8"

	"talent-marketplace-backend/internal/domain"
)

// ReadinessThreshold is the minimum completion for the readiness gate.
const ReadinessThreshold = 80

const (
	minHeadlineWords = 5
	fullCreditSkills = 3
	fullCreditBioLen = 100
)

// Criterion keys used in ScoreBreakdown.
const (
	CriterionHeadline     = "headline"
	CriterionSkills       = "skills"
	CriterionBio          = "bio"
	CriterionHourlyRate   = "hourly_rate"
	CriterionPortfolioURL = "portfolio_url"
	CriterionAvailability = "availability"
	CriterionFullName     = "full_name"
)

type readinessCriterion struct {
	key    string
	label  string
	weight float64
	score  func(p *domain.CandidateProfile, weight float64) float64
}

// readinessRubric is ordered; missing fields are reported in this order.
// Weights sum to 100.
var readinessRubric = []readinessCriterion{
	{
		key: CriterionHeadline, label: "Headline (min 5 words)", weight: 15,
		score: func(p *domain.CandidateProfile, w float64) float64 {
			return passFail(len(strings.Fields(p.Headline)) >= minHeadlineWords, w)
		},
	},
	{
		key: CriterionSkills, label: "Skills (min 3)", weight: 20,
		score: func(p *domain.CandidateProfile, w float64) float64 {
			return linear(len(p.Skills), fullCreditSkills, w)
		},
	},
	{
		key: CriterionBio, label: "Experience/Bio (min 100 chars)", weight: 20,
		score: func(p *domain.CandidateProfile, w float64) float64 {
			return linear(utf8.RuneCountInString(strings.TrimSpace(p.Bio)), fullCreditBioLen, w)
		},
	},
	{
		key: CriterionHourlyRate, label: "Hourly rate", weight: 15,
		score: func(p *domain.CandidateProfile, w float64) float64 {
			return passFail(p.HourlyRate != nil && *p.HourlyRate > 0, w)
		},
	},
	{
		key: CriterionPortfolioURL, label: "Portfolio URL", weight: 10,
		score: func(p *domain.CandidateProfile, w float64) float64 {
			return passFail(p.PortfolioURL != "", w)
		},
	},
	{
		key: CriterionAvailability, label: "Availability", weight: 10,
		score: func(p *domain.CandidateProfile, w float64) float64 {
			return passFail(p.Availability != "", w)
		},
	},
	{
		key: CriterionFullName, label: "Full name", weight: 10,
		score: func(p *domain.CandidateProfile, w float64) float64 {
			return passFail(strings.TrimSpace(p.FirstName) != "" && strings.TrimSpace(p.LastName) != "", w)
		},
	},
}

func passFail(ok bool, weight float64) float64 {
	if ok {
		return weight
	}
	return 0
}

// linear gives weight * min(n, full)/full.
func linear(n, full int, weight float64) float64 {
	if n > full {
		n = full
	}
	if n < 0 {
		n = 0
	}
	return float64(n) / float64(full) * weight
}

// ScoreProfile computes the readiness of p. It is a pure function of the
// profile fields; a nil profile yields EmptyReadiness.
func ScoreProfile(p *domain.CandidateProfile) domain.ReadinessResult {
	if p == nil {
		return EmptyReadiness()
	}

	breakdown := make(map[string]float64, len(readinessRubric))
	missing := []string{}
	var total float64

	for _, c := range readinessRubric {
		s := c.score(p, c.weight)
		breakdown[c.key] = s
		total += s
		if s < c.weight {
			missing = append(missing, c.label)
		}
	}

	completion := int(math.Round(total))
	return domain.ReadinessResult{
		Completion:     completion,
		IsReady:        completion >= ReadinessThreshold,
		MissingFields:  missing,
		ScoreBreakdown: breakdown,
	}
}

// EmptyReadiness is the defined result for a user without a profile.
func EmptyReadiness() domain.ReadinessResult {
	breakdown := make(map[string]float64, len(readinessRubric))
	missing := make([]string, 0, len(readinessRubric))
	for _, c := range readinessRubric {
		breakdown[c.key] = 0
		missing = append(missing, c.label)
	}
	return domain.ReadinessResult{
		Completion:     0,
		IsReady:        false,
		MissingFields:  missing,
		ScoreBreakdown: breakdown,
	}
}
