package media

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blogapp/internal/config"
	"blogapp/internal/featureflags"
	"blogapp/internal/models"
	"blogapp/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, flags string) *Store {
	t.Helper()
	cfg := &config.Config{MediaDir: t.TempDir(), MediaBaseURL: "/media/", MediaMaxUploadMB: 1}
	return NewStore(cfg, featureflags.NewManager(flags))
}

func localPath(s *Store, url string) string {
	return filepath.Join(s.Dir(), filepath.FromSlash(strings.TrimPrefix(url, "/media/")))
}

func TestSave_PostImageIsCroppedToAllowedRatio(t *testing.T) {
	s := newTestStore(t, "")

	url, err := s.Save(context.Background(), Upload{
		Kind:        KindPost,
		UserID:      1,
		Filename:    "wide.png",
		ContentType: "image/png",
		Content:     testutil.TinyPNG(t, 300, 100),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/posts/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	raw, err := os.ReadFile(localPath(s, url))
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Height)
	assert.Equal(t, 191, cfg.Width)

	_, err = os.Stat(strings.TrimSuffix(localPath(s, url), ".jpg") + ".webp")
	assert.True(t, os.IsNotExist(err), "webp variant is behind a flag")
}

func TestSave_ProfileImageIsSquareWithWebPVariant(t *testing.T) {
	s := newTestStore(t, "webp_variants=on")

	url, err := s.Save(context.Background(), Upload{
		Kind:    KindProfile,
		UserID:  2,
		Content: testutil.TinyPNG(t, 80, 120),
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(localPath(s, url))
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, 80, cfg.Height)

	_, err = os.Stat(strings.TrimSuffix(localPath(s, url), ".jpg") + ".webp")
	assert.NoError(t, err)
}

func TestSave_Rejections(t *testing.T) {
	s := newTestStore(t, "")
	ctx := context.Background()

	cases := []struct {
		name string
		in   Upload
	}{
		{"empty", Upload{Kind: KindPost, UserID: 1}},
		{"not an image", Upload{Kind: KindPost, UserID: 1, Content: []byte("plain text, not pixels")}},
		{"too large", Upload{Kind: KindPost, UserID: 1, Content: make([]byte, 2*1024*1024)}},
		{"type mismatch", Upload{Kind: KindPost, UserID: 1, ContentType: "image/gif", Content: testutil.TinyPNG(t, 4, 4)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Save(ctx, tc.in)
			require.Error(t, err)
			assert.Equal(t, 400, models.StatusFor(err))
		})
	}
}

func TestNearestRatioCrop(t *testing.T) {
	assert.Equal(t, image.Rect(0, 2, 100, 102), nearestRatioCrop(image.Rect(0, 0, 100, 105)))
	assert.Equal(t, image.Rect(0, 2, 100, 127), nearestRatioCrop(image.Rect(0, 0, 100, 130)))
	assert.Equal(t, image.Rect(54, 0, 245, 100), nearestRatioCrop(image.Rect(0, 0, 300, 100)))
}
