package draft

import (
	"encoding/json"

	"quilltips-backend/internal/domains/author/model"
)

// Fields holds the editable subset of an author profile.
type Fields struct {
	Name        string             `json:"name"`
	Bio         string             `json:"bio"`
	SocialLinks []model.SocialLink `json:"social_links"`
}

func (f Fields) clone() Fields {
	f.SocialLinks = model.CloneSocialLinks(f.SocialLinks)
	return f
}

// ProfileDraft tracks in-progress edits against the snapshot taken when
// editing started. The working copy and the snapshot never share slice
// backing, so a mutation on one can never leak into the other.
type ProfileDraft struct {
	working  Fields
	snapshot Fields
	version  int
}

// New opens a draft over the current state of a profile.
func New(profile *model.Profile) *ProfileDraft {
	bio := ""
	if profile.Bio != nil {
		bio = *profile.Bio
	}
	base := Fields{
		Name:        profile.Name,
		Bio:         bio,
		SocialLinks: model.CloneSocialLinks(profile.SocialLinks),
	}
	return &ProfileDraft{
		working:  base.clone(),
		snapshot: base.clone(),
		version:  profile.Version,
	}
}

func (d *ProfileDraft) SetName(name string) { d.working.Name = name }
func (d *ProfileDraft) SetBio(bio string)   { d.working.Bio = bio }

func (d *ProfileDraft) AddSocialLink(url, label string) {
	links := model.CloneSocialLinks(d.working.SocialLinks)
	d.working.SocialLinks = append(links, model.SocialLink{URL: url, Label: label})
}

// RemoveSocialLink drops the link at index i. An out-of-range index is a
// no-op rather than an error: the UI may race a removal against a list
// that already shrank.
func (d *ProfileDraft) RemoveSocialLink(i int) {
	if i < 0 || i >= len(d.working.SocialLinks) {
		return
	}
	links := model.CloneSocialLinks(d.working.SocialLinks)
	d.working.SocialLinks = append(links[:i], links[i+1:]...)
}

// UpdateSocialLink edits one field of the link at index i. field is "url"
// or "label"; anything else, or an out-of-range index, is a no-op.
func (d *ProfileDraft) UpdateSocialLink(i int, field, value string) {
	if i < 0 || i >= len(d.working.SocialLinks) {
		return
	}
	links := model.CloneSocialLinks(d.working.SocialLinks)
	switch field {
	case "url":
		links[i].URL = value
	case "label":
		links[i].Label = value
	default:
		return
	}
	d.working.SocialLinks = links
}

// HasChanges reports whether the working copy differs structurally from
// the snapshot. Link order matters: reordering the same links is a change.
func (d *ProfileDraft) HasChanges() bool {
	if d.working.Name != d.snapshot.Name || d.working.Bio != d.snapshot.Bio {
		return true
	}
	if len(d.working.SocialLinks) != len(d.snapshot.SocialLinks) {
		return true
	}
	for i, l := range d.working.SocialLinks {
		if l != d.snapshot.SocialLinks[i] {
			return true
		}
	}
	return false
}

// MarkSaved promotes the working copy to be the new snapshot.
func (d *ProfileDraft) MarkSaved() {
	d.snapshot = d.working.clone()
}

// Discard throws away the working copy, reverting to the snapshot.
func (d *ProfileDraft) Discard() {
	d.working = d.snapshot.clone()
}

// Working returns a copy of the current edits.
func (d *ProfileDraft) Working() Fields {
	return d.working.clone()
}

// Version is the profile version the draft was opened against.
func (d *ProfileDraft) Version() int { return d.version }

type persistedDraft struct {
	Working  Fields `json:"working"`
	Snapshot Fields `json:"snapshot"`
	Version  int    `json:"version"`
}

func (d *ProfileDraft) MarshalJSON() ([]byte, error) {
	return json.Marshal(persistedDraft{Working: d.working, Snapshot: d.snapshot, Version: d.version})
}

func (d *ProfileDraft) UnmarshalJSON(data []byte) error {
	var p persistedDraft
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	d.working = p.Working
	d.snapshot = p.Snapshot
	d.version = p.Version
	return nil
}
