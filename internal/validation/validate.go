// Package validation provides the per-step rules that gate wizard advancement.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
)

// MinSummaryLength is the minimum professional-summary length in runes.
const MinSummaryLength = 50

// emailPattern accepts the usual local@domain.tld shape and nothing with
// whitespace or a missing dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of validating one step. Message carries the first
// failing rule in table order; Fields collects every failing field for
// inline display.
type Result struct {
	Valid   bool
	Message string
	Fields  map[string]string
}

// rule checks one field of the draft and returns the field key and a
// user-facing message when it fails.
type rule func(d draft.Draft) (field, message string, ok bool)

// stepRules maps a data-entry step index to its rules, in evaluation order.
// Steps absent from the map are always valid.
var stepRules = map[int][]rule{
	draft.StepPersonal: {
		requireField("name", "Name is required", func(d draft.Draft) string { return d.Name }),
		requireField("title", "Title is required", func(d draft.Draft) string { return d.Title }),
	},
	draft.StepContact: {
		checkEmail,
		requireField("phone", "Phone is required", func(d draft.Draft) string { return d.Phone }),
		requireField("city", "City is required", func(d draft.Draft) string { return d.City }),
	},
	draft.StepSummary: {
		checkSummary,
	},
	draft.StepExperience: {
		requireField("experience", "Experience is required", func(d draft.Draft) string { return d.Experience }),
	},
	draft.StepEducation: {
		requireField("education", "Education is required", func(d draft.Draft) string { return d.Education }),
	},
	draft.StepSkills: {
		requireField("skills", "Skills are required", func(d draft.Draft) string { return d.Skills }),
	},
}

// Validate runs the rules for the given step against the draft. Steps with
// no rules (including control states outside the data-entry range) always
// validate. The caller owns surfacing Fields next to their inputs.
func Validate(step int, d draft.Draft) Result {
	rules, ok := stepRules[step]
	if !ok {
		return Result{Valid: true}
	}

	result := Result{Valid: true, Fields: map[string]string{}}
	for _, r := range rules {
		field, message, ok := r(d)
		if ok {
			continue
		}
		if _, seen := result.Fields[field]; seen {
			continue
		}
		result.Fields[field] = message
		if result.Valid {
			result.Valid = false
			result.Message = message
		}
	}
	if result.Valid {
		result.Fields = nil
	}
	return result
}

// HasRules reports whether the step carries any validation at all.
func HasRules(step int) bool {
	_, ok := stepRules[step]
	return ok
}

func requireField(field, message string, get func(draft.Draft) string) rule {
	return func(d draft.Draft) (string, string, bool) {
		if strings.TrimSpace(get(d)) == "" {
			return field, message, false
		}
		return field, "", true
	}
}

func checkEmail(d draft.Draft) (string, string, bool) {
	if strings.TrimSpace(d.Email) == "" {
		return "email", "Email is required", false
	}
	if !emailPattern.MatchString(d.Email) {
		return "email", "Invalid email", false
	}
	return "email", "", true
}

func checkSummary(d draft.Draft) (string, string, bool) {
	if strings.TrimSpace(d.Summary) == "" {
		return "summary", "Summary is required", false
	}
	if utf8.RuneCountInString(d.Summary) < MinSummaryLength {
		return "summary", "Summary too short (minimum 50 characters)", false
	}
	return "summary", "", true
}
