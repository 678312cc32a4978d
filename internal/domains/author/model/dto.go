package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// UpdateProfileRequest is the payload applied when a draft is saved.
// Version carries the version the editor loaded; a mismatch means someone
// else saved in between.
type UpdateProfileRequest struct {
	Name        string       `json:"name"`
	Bio         *string      `json:"bio"`
	SocialLinks []SocialLink `json:"social_links"`
	Version     int          `json:"version"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.SocialLinks, validation.Length(0, 20)),
		validation.Field(&r.Version, validation.Min(1)),
	)
}

func (l SocialLink) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.URL, validation.Required, is.URL, validation.Length(1, 2048)),
		validation.Field(&l.Label, validation.Length(0, 100)),
	)
}

// SocialLinkResponse carries the display label, with the empty-label
// fallback already applied.
type SocialLinkResponse struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

type ProfileResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	Bio         *string              `json:"bio,omitempty"`
	AvatarURL   *string              `json:"avatar_url,omitempty"`
	SocialLinks []SocialLinkResponse `json:"social_links"`
	Version     int                  `json:"version"`
}

func (p *Profile) ToResponse() *ProfileResponse {
	links := make([]SocialLinkResponse, 0, len(p.SocialLinks))
	for _, l := range p.SocialLinks {
		links = append(links, SocialLinkResponse{URL: l.URL, Label: l.DisplayLabel()})
	}
	return &ProfileResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		SocialLinks: links,
		Version:     p.Version,
	}
}

// SearchFilter drives the public author search.
type SearchFilter struct {
	Query string `form:"q"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

func (f *SearchFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 50 {
		f.Limit = 20
	}
}

func (f *SearchFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
