package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles stored on author_profiles.role. Only RoleAuthor may enter the
// dashboard.
const (
	RoleAuthor = "author"
	RoleReader = "reader"
)

// DefaultLinkLabel replaces an empty social-link label at read time only;
// while a draft is being edited the empty string is preserved as typed.
const DefaultLinkLabel = "Link"

// SocialLink has no stable key of its own: the UI addresses links by
// position, so every operation on the list is index-based.
type SocialLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// DisplayLabel is the persistence-read fallback for an empty label.
func (l SocialLink) DisplayLabel() string {
	if l.Label == "" {
		return DefaultLinkLabel
	}
	return l.Label
}

// Profile is the public author profile. ID equals the owning account id.
// SocialLinks is stored as jsonb; Version backs optimistic locking.
type Profile struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Slug        string       `json:"slug" db:"slug"`
	Bio         *string      `json:"bio" db:"bio"`
	AvatarURL   *string      `json:"avatar_url" db:"avatar_url"`
	Role        string       `json:"role" db:"role"`
	SocialLinks []SocialLink `json:"social_links" db:"social_links"`
	Version     int          `json:"version" db:"version"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// CloneSocialLinks deep-copies the link list so draft working copies never
// alias the snapshot.
func CloneSocialLinks(links []SocialLink) []SocialLink {
	if links == nil {
		return nil
	}
	out := make([]SocialLink, len(links))
	copy(out, links)
	return out
}
