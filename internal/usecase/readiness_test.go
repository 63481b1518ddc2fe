package usecase_test

import (
	"strings"
	"testing"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skills(n int) []domain.Skill {
	out := make([]domain.Skill, n)
	for i := range out {
		out[i] = domain.Skill{ID: i + 1, Name: "skill"}
	}
	return out
}

func fullProfile() *domain.CandidateProfile {
	rate := 50.0
	return &domain.CandidateProfile{
		ID:           1,
		UserID:       "user1",
		FirstName:    "Ana",
		LastName:     "Lima",
		Headline:     "Senior Backend Engineer With Go",
		Bio:          strings.Repeat("b", 120),
		HourlyRate:   &rate,
		PortfolioURL: "https://ana.dev",
		Availability: domain.AvailabilityFullTime,
		Skills:       skills(3),
		Status:       domain.ProfileStatusDraft,
	}
}

func TestScoreProfile_Empty(t *testing.T) {
	res := usecase.ScoreProfile(&domain.CandidateProfile{})

	assert.Equal(t, 0, res.Completion)
	assert.False(t, res.IsReady)
	assert.Equal(t, []string{
		"Headline (min 5 words)",
		"Skills (min 3)",
		"Experience/Bio (min 100 chars)",
		"Hourly rate",
		"Portfolio URL",
		"Availability",
		"Full name",
	}, res.MissingFields)
	assert.Len(t, res.ScoreBreakdown, 7)
}

func TestScoreProfile_NilMatchesEmptyReadiness(t *testing.T) {
	assert.Equal(t, usecase.EmptyReadiness(), usecase.ScoreProfile(nil))
	assert.Equal(t, usecase.EmptyReadiness().MissingFields, usecase.ScoreProfile(&domain.CandidateProfile{}).MissingFields)
}

func TestScoreProfile_Full(t *testing.T) {
	res := usecase.ScoreProfile(fullProfile())

	assert.Equal(t, 100, res.Completion)
	assert.True(t, res.IsReady)
	assert.Empty(t, res.MissingFields)
	assert.InDelta(t, 15, res.ScoreBreakdown[usecase.CriterionHeadline], 1e-9)
	assert.InDelta(t, 20, res.ScoreBreakdown[usecase.CriterionBio], 1e-9)
}

func TestScoreProfile_ShortBio(t *testing.T) {
	p := fullProfile()
	p.Bio = strings.Repeat("b", 40)

	res := usecase.ScoreProfile(p)

	assert.InDelta(t, 8, res.ScoreBreakdown[usecase.CriterionBio], 1e-9)
	assert.Equal(t, 88, res.Completion)
	assert.True(t, res.IsReady)
	assert.Equal(t, []string{"Experience/Bio (min 100 chars)"}, res.MissingFields)
}

func TestScoreProfile_SkillsMonotonic(t *testing.T) {
	p := fullProfile()
	prev := -1.0
	for n := 0; n <= 3; n++ {
		p.Skills = skills(n)
		sub := usecase.ScoreProfile(p).ScoreBreakdown[usecase.CriterionSkills]
		assert.Greater(t, sub, prev, "skills=%d", n)
		prev = sub
	}

	p.Skills = skills(3)
	three := usecase.ScoreProfile(p)
	p.Skills = skills(4)
	four := usecase.ScoreProfile(p)
	assert.Equal(t, three.ScoreBreakdown[usecase.CriterionSkills], four.ScoreBreakdown[usecase.CriterionSkills])
	assert.Equal(t, three.Completion, four.Completion)

	p.Skills = skills(2)
	assert.Contains(t, usecase.ScoreProfile(p).MissingFields, "Skills (min 3)")
}

func TestScoreProfile_ThresholdBoundary(t *testing.T) {
	// Everything but the headline: 20 + bio + 15 + 10 + 10 + 10.
	noHeadline := func(bioLen int) *domain.CandidateProfile {
		p := fullProfile()
		p.Headline = "Go developer"
		p.Bio = strings.Repeat("b", bioLen)
		return p
	}

	tests := []struct {
		name       string
		bioLen     int
		completion int
		ready      bool
	}{
		{"79 is not ready", 70, 79, false},
		{"80 is ready", 75, 80, true},
		{"79.4 rounds down", 72, 79, false},
		{"79.6 rounds up to the gate", 73, 80, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := usecase.ScoreProfile(noHeadline(tt.bioLen))
			assert.Equal(t, tt.completion, res.Completion)
			assert.Equal(t, tt.ready, res.IsReady)
			assert.Equal(t, res.Completion >= usecase.ReadinessThreshold, res.IsReady)
		})
	}
}

func TestScoreProfile_Idempotent(t *testing.T) {
	p := fullProfile()
	p.Skills = skills(1)
	p.Bio = "short"

	first := usecase.ScoreProfile(p)
	second := usecase.ScoreProfile(p)
	require.Equal(t, first, second)
}

func TestScoreProfile_CriteriaEdges(t *testing.T) {
	t.Run("headline words are whitespace separated", func(t *testing.T) {
		p := fullProfile()
		p.Headline = "  Go \t engineer\nwith five words  "
		assert.NotContains(t, usecase.ScoreProfile(p).MissingFields, "Headline (min 5 words)")

		p.Headline = "Go engineer with four"
		assert.Contains(t, usecase.ScoreProfile(p).MissingFields, "Headline (min 5 words)")
	})

	t.Run("bio length counts characters not bytes", func(t *testing.T) {
		p := fullProfile()
		p.Bio = strings.Repeat("é", 100)
		assert.Equal(t, 100, usecase.ScoreProfile(p).Completion)

		p.Bio = strings.Repeat("é", 50)
		assert.InDelta(t, 10, usecase.ScoreProfile(p).ScoreBreakdown[usecase.CriterionBio], 1e-9)
	})

	t.Run("zero hourly rate gets no credit", func(t *testing.T) {
		p := fullProfile()
		zero := 0.0
		p.HourlyRate = &zero
		res := usecase.ScoreProfile(p)
		assert.Equal(t, 85, res.Completion)
		assert.Equal(t, []string{"Hourly rate"}, res.MissingFields)
	})

	t.Run("full name needs both parts", func(t *testing.T) {
		p := fullProfile()
		p.LastName = "   "
		assert.Equal(t, []string{"Full name"}, usecase.ScoreProfile(p).MissingFields)
	})
}
