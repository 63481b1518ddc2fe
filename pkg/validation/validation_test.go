package validation_test

import (
	"testing"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRequestValidation(t *testing.T) {
	v := validation.New()
	rate := 50.0

	t.Run("accepts a complete request", func(t *testing.T) {
		req := domain.UpdateProfileRequest{
			FirstName:    "Ana",
			LastName:     "O'Neil",
			Headline:     "Senior Backend Engineer With Go",
			HourlyRate:   &rate,
			PortfolioURL: "https://example.com/ana",
			Availability: "FULL_TIME",
			SkillIDs:     []int{1, 2, 3},
		}
		assert.NoError(t, v.Struct(req))
	})

	t.Run("accepts an empty request", func(t *testing.T) {
		assert.NoError(t, v.Struct(domain.UpdateProfileRequest{}))
	})

	t.Run("rejects unknown availability", func(t *testing.T) {
		err := v.Struct(domain.UpdateProfileRequest{Availability: "SOMETIMES"})
		require.Error(t, err)
		msgs := validation.FormatValidationErrors(err)
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "Availability")
	})

	t.Run("rejects emoji in headline", func(t *testing.T) {
		err := v.Struct(domain.UpdateProfileRequest{Headline: "Go dev \U0001F680"})
		require.Error(t, err)
		assert.Equal(t, []string{"Headline: must not contain emoji or special symbols"}, validation.FormatValidationErrors(err))
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		zero := 0.0
		err := v.Struct(domain.UpdateProfileRequest{HourlyRate: &zero})
		require.Error(t, err)
		assert.Equal(t, []string{"Hourly rate: must be greater than 0"}, validation.FormatValidationErrors(err))
	})

	t.Run("rejects markup in names", func(t *testing.T) {
		err := v.Struct(domain.UpdateProfileRequest{FirstName: "<script>"})
		require.Error(t, err)
		assert.Contains(t, validation.FormatValidationErrors(err)[0], "First name")
	})
}

func TestFormatValidationErrorsPassesThroughOtherErrors(t *testing.T) {
	msgs := validation.FormatValidationErrors(assert.AnError)
	assert.Equal(t, []string{assert.AnError.Error()}, msgs)
}
