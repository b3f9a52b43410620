package library

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/v-zq/media-to-GIF/pkg/file"
)

var videoExts = []string{".mp4", ".mkv", ".avi", ".mov"}

var subtitleExts = []string{".srt", ".sub", ".ass"}

// Resolver discovers (video, subtitle) pairs under an input root.
type Resolver struct {
	root string
	mode Mode
}

func NewResolver(root string, mode Mode) *Resolver {
	return &Resolver{root: root, mode: mode}
}

// Resolve returns the discovered pairs sorted by key, plus warnings for
// stems or subfolders that could not be resolved. Unresolved groups are
// skipped, never fatal.
func (r *Resolver) Resolve() ([]MediaPair, []string, error) {
	if _, err := os.Stat(r.root); err != nil {
		return nil, nil, fmt.Errorf("input directory %s: %w", r.root, err)
	}

	switch r.mode {
	case ModeSameName:
		return r.resolveSameName()
	case ModeSubfolder:
		return r.resolveSubfolder()
	default:
		return nil, nil, fmt.Errorf("unknown pairing mode %q", r.mode)
	}
}

// resolveSameName scans the root (non-recursive), groups files by stem, and
// pairs stems that have exactly one video and exactly one subtitle.
func (r *Resolver) resolveSameName() ([]MediaPair, []string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, nil, err
	}

	type group struct {
		videos    []string
		subtitles []string
	}
	groups := make(map[string]*group)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(r.root, entry.Name())
		ext := file.Ext(entry.Name())
		stem := file.Stem(entry.Name())

		g, ok := groups[stem]
		if !ok {
			g = &group{}
			groups[stem] = g
		}
		switch {
		case slices.Contains(videoExts, ext):
			g.videos = append(g.videos, path)
		case slices.Contains(subtitleExts, ext):
			g.subtitles = append(g.subtitles, path)
		}
	}

	var pairs []MediaPair
	var warnings []string
	for stem, g := range groups {
		switch {
		case len(g.videos) == 1 && len(g.subtitles) == 1:
			pairs = append(pairs, MediaPair{
				Key:          stem,
				VideoPath:    g.videos[0],
				SubtitlePath: g.subtitles[0],
			})
		case len(g.videos) == 0 && len(g.subtitles) == 0:
			// unrecognized files only, nothing to report
		default:
			warnings = append(warnings, fmt.Sprintf(
				"stem %q: %d video(s), %d subtitle(s); need exactly one of each",
				stem, len(g.videos), len(g.subtitles)))
		}
	}

	sortPairs(pairs)
	sort.Strings(warnings)
	return pairs, warnings, nil
}

// resolveSubfolder requires exactly one video and one subtitle file directly
// inside each immediate subdirectory of the root; the subdirectory name is
// the pair key.
func (r *Resolver) resolveSubfolder() ([]MediaPair, []string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, nil, err
	}

	var pairs []MediaPair
	var warnings []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.root, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("subfolder %q: %v", entry.Name(), err))
			continue
		}

		var videos, subtitles []string
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			ext := file.Ext(f.Name())
			switch {
			case slices.Contains(videoExts, ext):
				videos = append(videos, filepath.Join(dir, f.Name()))
			case slices.Contains(subtitleExts, ext):
				subtitles = append(subtitles, filepath.Join(dir, f.Name()))
			}
		}

		if len(videos) != 1 || len(subtitles) != 1 {
			warnings = append(warnings, fmt.Sprintf(
				"subfolder %q: %d video(s), %d subtitle(s); need exactly one of each",
				entry.Name(), len(videos), len(subtitles)))
			continue
		}
		pairs = append(pairs, MediaPair{
			Key:          entry.Name(),
			VideoPath:    videos[0],
			SubtitlePath: subtitles[0],
		})
	}

	sortPairs(pairs)
	return pairs, warnings, nil
}

func sortPairs(pairs []MediaPair) {
	sort.Slice(pairs, func(i, j int) bool {
		return strings.Compare(pairs[i].Key, pairs[j].Key) < 0
	})
}
