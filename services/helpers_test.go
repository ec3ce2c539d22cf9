package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyIdentifier(t *testing.T) {
	tests := []struct {
		param string
		kind  IdentifierKind
		id    int
	}{
		{"admin@club.example", IdentifierEmail, 0},
		{"42", IdentifierID, 42},
		{"erik-almas", IdentifierSlug, 0},
		{"0", IdentifierSlug, 0},   // non-positive numbers are not IDs
		{"-5", IdentifierSlug, 0},
		{"12b", IdentifierSlug, 0},
	}

	for _, tt := range tests {
		kind, id := ClassifyIdentifier(tt.param)
		assert.Equal(t, tt.kind, kind, "param %q", tt.param)
		assert.Equal(t, tt.id, id, "param %q", tt.param)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Erik Almas", "erik-almas"},
		{"  FC  United!  ", "fc-united"},
		{"Núñez", "n-ez"},
		{"Player 10", "player-10"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestGetExtensionFromContentType(t *testing.T) {
	for contentType, want := range map[string]string{
		"image/jpeg":    ".jpg",
		"image/jpg":     ".jpg",
		"image/png":     ".png",
		"image/gif":     ".gif",
		"image/webp":    ".webp",
		"image/svg+xml": ".svg",
	} {
		ext, err := GetExtensionFromContentType(contentType)
		require.NoError(t, err, contentType)
		assert.Equal(t, want, ext, contentType)
	}

	_, err := GetExtensionFromContentType("application/pdf")
	assert.Error(t, err)
}

func TestSeasonOf(t *testing.T) {
	assert.Equal(t, "2025/2026", seasonOf(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025/2026", seasonOf(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)))
	// July starts the new season; June still belongs to the previous one.
	assert.Equal(t, "2026/2027", seasonOf(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025/2026", seasonOf(time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)))
}
