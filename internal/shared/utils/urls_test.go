package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestURLsPreferSlugOverID(t *testing.T) {
	id := uuid.MustParse("0b5fbd4a-9bf7-4b3e-8f2e-6d1a2c3b4d5e")

	assert.Equal(t, "/author/jane-austen", AuthorURL("jane-austen", id))
	assert.Equal(t, "/profile/jane-austen", ProfileURL("jane-austen", id))
	assert.Equal(t, "/book/persuasion", BookURL("persuasion", id))
	assert.Equal(t, "/author/book/persuasion", AuthorBookURL("persuasion", id))
	assert.Equal(t, "/author/profile/jane-austen", AuthorProfileURL("jane-austen", id))
}

func TestURLsFallBackToID(t *testing.T) {
	id := uuid.MustParse("0b5fbd4a-9bf7-4b3e-8f2e-6d1a2c3b4d5e")

	assert.Equal(t, "/author/"+id.String(), AuthorURL("", id))
	assert.Equal(t, "/author/book/"+id.String(), AuthorBookURL("", id))
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t,
		"https://quilltips.example/author/book/persuasion",
		CanonicalURL("https://quilltips.example", AuthorBookURL("persuasion", uuid.Nil)),
	)
}
