package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple name", "Jane Austen", "jane-austen"},
		{"initials with dots", "J. R. Hartley", "j-r-hartley"},
		{"underscores", "pen_name_42", "pen-name-42"},
		{"surrounding whitespace", "  Leo Tolstoy  ", "leo-tolstoy"},
		{"punctuation stripped", "O'Brien & Sons!", "obrien-sons"},
		{"hyphen runs collapsed", "a -- b", "a-b"},
		{"leading and trailing hyphens trimmed", "-edge case-", "edge-case"},
		{"already a slug", "already-a-slug", "already-a-slug"},
		{"empty input", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}
