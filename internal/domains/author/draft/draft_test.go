package draft

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quilltips-backend/internal/domains/author/model"
)

func profileFixture() *model.Profile {
	bio := "Writes about the sea."
	return &model.Profile{
		ID:   uuid.New(),
		Name: "Jane Austen",
		Slug: "jane-austen",
		Bio:  &bio,
		SocialLinks: []model.SocialLink{
			{URL: "https://example.com", Label: "Website"},
		},
		Version: 3,
	}
}

func TestNewDraftHasNoChanges(t *testing.T) {
	d := New(profileFixture())

	assert.False(t, d.HasChanges())
	assert.Equal(t, 3, d.Version())
}

func TestSetNameMarksDirtyAndDiscardReverts(t *testing.T) {
	d := New(profileFixture())

	d.SetName("J. Austen")
	assert.True(t, d.HasChanges())

	d.Discard()
	assert.False(t, d.HasChanges())
	assert.Equal(t, "Jane Austen", d.Working().Name)
}

func TestAddThenRemoveLinkIsClean(t *testing.T) {
	d := New(profileFixture())

	d.AddSocialLink("https://twitter.com/jane", "Twitter")
	assert.True(t, d.HasChanges())

	d.RemoveSocialLink(1)
	assert.False(t, d.HasChanges())
}

func TestUpdateLinkLabelRoundTrip(t *testing.T) {
	d := New(profileFixture())

	d.UpdateSocialLink(0, "label", "")
	assert.True(t, d.HasChanges())
	assert.Equal(t, "", d.Working().SocialLinks[0].Label)

	d.UpdateSocialLink(0, "label", "Website")
	assert.False(t, d.HasChanges())
}

func TestDiscardRevertsLinkEdits(t *testing.T) {
	d := New(profileFixture())

	d.UpdateSocialLink(0, "label", "")
	d.UpdateSocialLink(0, "url", "https://elsewhere.com")
	require.True(t, d.HasChanges())

	d.Discard()
	w := d.Working()
	assert.Equal(t, "Website", w.SocialLinks[0].Label)
	assert.Equal(t, "https://example.com", w.SocialLinks[0].URL)
}

func TestOutOfRangeIndexIsNoOp(t *testing.T) {
	d := New(profileFixture())

	d.RemoveSocialLink(-1)
	d.RemoveSocialLink(5)
	d.UpdateSocialLink(5, "label", "Nope")
	d.UpdateSocialLink(-1, "url", "https://nope.com")

	assert.False(t, d.HasChanges())
	assert.Len(t, d.Working().SocialLinks, 1)
}

func TestUnknownFieldIsNoOp(t *testing.T) {
	d := New(profileFixture())

	d.UpdateSocialLink(0, "color", "blue")
	assert.False(t, d.HasChanges())
}

func TestReorderCountsAsChange(t *testing.T) {
	p := profileFixture()
	p.SocialLinks = append(p.SocialLinks, model.SocialLink{URL: "https://b.com", Label: "B"})
	d := New(p)

	// Swap by remove+add: same links, different order.
	d.RemoveSocialLink(0)
	d.AddSocialLink("https://example.com", "Website")

	assert.True(t, d.HasChanges())
}

func TestMarkSavedPromotesWorkingCopy(t *testing.T) {
	d := New(profileFixture())

	d.SetBio("New bio")
	d.AddSocialLink("https://a.com", "A")
	d.MarkSaved()

	assert.False(t, d.HasChanges())

	// Discard after save keeps the saved state, not the original.
	d.SetName("Someone Else")
	d.Discard()
	w := d.Working()
	assert.Equal(t, "New bio", w.Bio)
	assert.Len(t, w.SocialLinks, 2)
}

func TestWorkingCopyDoesNotAliasSnapshot(t *testing.T) {
	d := New(profileFixture())

	w := d.Working()
	w.SocialLinks[0].Label = "Mutated"

	assert.False(t, d.HasChanges())
	assert.Equal(t, "Website", d.Working().SocialLinks[0].Label)
}

func TestDraftSurvivesJSONRoundTrip(t *testing.T) {
	d := New(profileFixture())
	d.SetName("Changed")

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var restored ProfileDraft
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.True(t, restored.HasChanges())
	assert.Equal(t, "Changed", restored.Working().Name)
	assert.Equal(t, 3, restored.Version())

	restored.Discard()
	assert.Equal(t, "Jane Austen", restored.Working().Name)
}
