package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// CandidateProfile fields
	"FirstName":    "First name",
	"LastName":     "Last name",
	"Headline":     "Headline",
	"Bio":          "Experience/Bio",
	"HourlyRate":   "Hourly rate",
	"PortfolioURL": "Portfolio URL",
	"Availability": "Availability",
	"SkillIDs":     "Skills",

	// Job fields
	"Title":         "Job title",
	"Description":   "Description",
	"HourlyRateMin": "Minimum hourly rate",
	"HourlyRateMax": "Maximum hourly rate",
	"Location":      "Location",

	// Workflow fields
	"Event":  "Event",
	"Reason": "Rejection reason",
	"Notes":  "Revision notes",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)

	case "min", "gte":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)

	case "max", "lte":
		switch e.Kind().String() {
		case "string":
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		case "slice":
			return fmt.Sprintf("%s: at most %s items", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)

	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))

	case "url":
		return fmt.Sprintf("%s: invalid URL format", label)

	case "valid_name":
		return fmt.Sprintf("%s: only letters, spaces and common punctuation (. ' - /) are allowed", label)

	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)

	case "availability":
		return fmt.Sprintf("%s: must be one of FULL_TIME, PART_TIME, CONTRACT, UNAVAILABLE", label)

	case "gtefield":
		return fmt.Sprintf("%s: must be greater than or equal to %s", label, getFieldLabel(param))

	default:
		return fmt.Sprintf("%s: validation failed (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
