package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestResolver_SameName(t *testing.T) {
	root := t.TempDir()
	touch(t,
		filepath.Join(root, "clip.mp4"),
		filepath.Join(root, "clip.srt"),
		filepath.Join(root, "Other Movie.MKV"),
		filepath.Join(root, "Other Movie.ass"),
		filepath.Join(root, "readme.txt"),
	)

	pairs, warnings, err := NewResolver(root, ModeSameName).Resolve()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, pairs, 2)

	// sorted by key, extensions case-insensitive
	assert.Equal(t, "Other Movie", pairs[0].Key)
	assert.Equal(t, "clip", pairs[1].Key)
	assert.Equal(t, filepath.Join(root, "clip.mp4"), pairs[1].VideoPath)
	assert.Equal(t, filepath.Join(root, "clip.srt"), pairs[1].SubtitlePath)
}

func TestResolver_SameName_UnresolvedStemsWarned(t *testing.T) {
	root := t.TempDir()
	touch(t,
		filepath.Join(root, "lonely.mp4"),        // no subtitle
		filepath.Join(root, "double.mp4"),        // ambiguous: two subtitles
		filepath.Join(root, "double.srt"),
		filepath.Join(root, "double.ass"),
		filepath.Join(root, "good.mov"),
		filepath.Join(root, "good.sub"),
	)

	pairs, warnings, err := NewResolver(root, ModeSameName).Resolve()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "good", pairs[0].Key)
	assert.Len(t, warnings, 2)
}

func TestResolver_SameName_NoDuplicateKeys(t *testing.T) {
	root := t.TempDir()
	touch(t,
		filepath.Join(root, "a.mp4"), filepath.Join(root, "a.srt"),
		filepath.Join(root, "b.mkv"), filepath.Join(root, "b.ass"),
	)

	pairs, _, err := NewResolver(root, ModeSameName).Resolve()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, p := range pairs {
		assert.False(t, seen[p.Key], "duplicate key %q", p.Key)
		seen[p.Key] = true
	}
}

func TestResolver_Subfolder(t *testing.T) {
	root := t.TempDir()
	touch(t,
		filepath.Join(root, "sceneA", "movie.mkv"),
		filepath.Join(root, "sceneA", "subs.ass"),
		filepath.Join(root, "sceneB", "anything.mp4"),
		filepath.Join(root, "sceneB", "else.srt"),
		filepath.Join(root, "stray.mp4"), // flat files ignored in subfolder mode
	)

	pairs, warnings, err := NewResolver(root, ModeSubfolder).Resolve()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, pairs, 2)

	assert.Equal(t, "sceneA", pairs[0].Key)
	assert.Equal(t, filepath.Join(root, "sceneA", "movie.mkv"), pairs[0].VideoPath)
	assert.Equal(t, filepath.Join(root, "sceneA", "subs.ass"), pairs[0].SubtitlePath)
	assert.Equal(t, "sceneB", pairs[1].Key)
}

func TestResolver_Subfolder_CardinalityViolationsSkipped(t *testing.T) {
	root := t.TempDir()
	touch(t,
		filepath.Join(root, "empty", "notes.txt"),
		filepath.Join(root, "twovids", "a.mp4"),
		filepath.Join(root, "twovids", "b.mp4"),
		filepath.Join(root, "twovids", "s.srt"),
		filepath.Join(root, "ok", "v.avi"),
		filepath.Join(root, "ok", "s.sub"),
	)

	pairs, warnings, err := NewResolver(root, ModeSubfolder).Resolve()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "ok", pairs[0].Key)
	assert.Len(t, warnings, 2)
}

func TestResolver_MissingRoot(t *testing.T) {
	_, _, err := NewResolver(filepath.Join(t.TempDir(), "nope"), ModeSameName).Resolve()
	require.Error(t, err)
}
