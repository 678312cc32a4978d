package utils

import "github.com/google/uuid"

// Public route prefixes. The frontend routes slugs when an entity has one
// and falls back to the raw id otherwise.
const (
	authorPathPrefix        = "/author/"
	profilePathPrefix       = "/profile/"
	bookPathPrefix          = "/book/"
	authorBookPathPrefix    = "/author/book/"
	authorProfilePathPrefix = "/author/profile/"
)

// slugOrID prefers the human-readable slug over the raw id.
func slugOrID(slug string, id uuid.UUID) string {
	if slug != "" {
		return slug
	}
	return id.String()
}

func AuthorURL(slug string, id uuid.UUID) string {
	return authorPathPrefix + slugOrID(slug, id)
}

func ProfileURL(slug string, id uuid.UUID) string {
	return profilePathPrefix + slugOrID(slug, id)
}

func BookURL(slug string, id uuid.UUID) string {
	return bookPathPrefix + slugOrID(slug, id)
}

func AuthorBookURL(slug string, id uuid.UUID) string {
	return authorBookPathPrefix + slugOrID(slug, id)
}

func AuthorProfileURL(slug string, id uuid.UUID) string {
	return authorProfilePathPrefix + slugOrID(slug, id)
}

// CanonicalURL prefixes a site-relative path with the configured public
// origin, for QR targets and share links.
func CanonicalURL(origin, path string) string {
	return origin + path
}
