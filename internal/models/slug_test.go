package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain words", "Hello World", "hello-world"},
		{"diacritics folded", "Crème Brûlée à la carte", "creme-brulee-a-la-carte"},
		{"punctuation collapsed", "  Go -- is, fun!!  ", "go-is-fun"},
		{"digits kept", "Top 10 tips", "top-10-tips"},
		{"non latin dropped", "日本 blog", "blog"},
		{"nothing usable", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	slug := Slugify(strings.Repeat("abc ", 30))
	assert.LessOrEqual(t, len(slug), maxSlugLength)
	assert.Len(t, slug, 79)
	assert.False(t, strings.HasSuffix(slug, "-"))
	assert.True(t, strings.HasPrefix(slug, "abc-abc-"))
}

func TestUniqueSlug(t *testing.T) {
	slug := UniqueSlug("Hello World")
	assert.True(t, strings.HasPrefix(slug, "hello-world-"))
	assert.Len(t, slug, len("hello-world-")+6)
	assert.NotEqual(t, slug, UniqueSlug("Hello World"))

	bare := UniqueSlug("!!!")
	assert.Len(t, bare, 6)
	assert.NotContains(t, bare, "-")
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"go,web", "go,web"},
		{" go , web ,, go ,api ", "go,web,api"},
		{"", ""},
		{" , ,", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}
