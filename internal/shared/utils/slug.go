package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a display name or title into a URL slug:
// "J. R. Hartley" -> "j-r-hartley".
func GenerateSlug(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))

	// Spaces, dots and underscores all become hyphens before cleanup.
	hyphenated := strings.NewReplacer(" ", "-", ".", "-", "_", "-").Replace(lower)

	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}
