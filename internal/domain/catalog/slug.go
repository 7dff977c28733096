package catalog

import (
	"fmt"
	"regexp"
)

const MaxSlugLen = 50

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidateSlug checks the URL-safe identifier used by categories and genres.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	if len(slug) > MaxSlugLen {
		return fmt.Errorf("slug must be at most %d characters", MaxSlugLen)
	}
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("slug may only contain letters, digits, hyphens and underscores")
	}
	return nil
}
