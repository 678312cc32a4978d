package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayLabelFallsBack(t *testing.T) {
	assert.Equal(t, "Link", SocialLink{URL: "https://example.com"}.DisplayLabel())
	assert.Equal(t, "Website", SocialLink{URL: "https://example.com", Label: "Website"}.DisplayLabel())
}

func TestToResponseAppliesFallbackWithoutMutating(t *testing.T) {
	profile := &Profile{
		Name: "Jane Austen",
		SocialLinks: []SocialLink{
			{URL: "https://example.com", Label: ""},
			{URL: "https://blog.example.com", Label: "Blog"},
		},
	}

	resp := profile.ToResponse()
	assert.Equal(t, "Link", resp.SocialLinks[0].Label)
	assert.Equal(t, "Blog", resp.SocialLinks[1].Label)

	// The stored value stays empty; the fallback is display-only.
	assert.Equal(t, "", profile.SocialLinks[0].Label)
}

func TestCloneSocialLinksDoesNotAlias(t *testing.T) {
	links := []SocialLink{{URL: "https://example.com", Label: "Website"}}
	cloned := CloneSocialLinks(links)

	cloned[0].Label = "Changed"
	assert.Equal(t, "Website", links[0].Label)
}
