package services

import (
	"regexp"

	"github.com/courseforge/backend/internal/apperrors"
)

const minSlugLength = 3

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// validateSlug checks a human-readable identifier candidate: lowercase
// letters, digits and hyphens only, at least three characters. The same rule
// applies to the global courseName and to per-course unit slugs; field names
// the input at fault in the returned error.
func validateSlug(field, candidate string) error {
	if len(candidate) < minSlugLength {
		return apperrors.Invalid(field, "must be at least 3 characters")
	}
	if !slugPattern.MatchString(candidate) {
		return apperrors.Invalid(field, "may only contain lowercase letters, digits and hyphens")
	}
	return nil
}
