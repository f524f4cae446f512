package config

import (
	"fmt"
	"sort"
	"strings"
)

// Naming holds the formatting options shared by the scanner, renamer and
// metadata manager. It is read-only after Load; use WithPadding for a
// per-batch override.
type Naming struct {
	MediaExtensions []string `toml:"media_extensions"`
	DefaultYear     int      `toml:"default_year"`
	DefaultSeason   int      `toml:"default_season"`
	DefaultEpisode  int      `toml:"default_episode"`
	EpisodePadding  int      `toml:"episode_padding"`
	IncludeYear     bool     `toml:"include_year"`
}

// MinMovieYear is the smallest year rendered into a movie name.
const MinMovieYear = 1000

// FormatEpisodeName renders "Title S01 EP001". The episode is zero-padded to
// EpisodePadding digits but never truncated.
func (n Naming) FormatEpisodeName(title string, season, episode int) string {
	return fmt.Sprintf("%s S%02d EP%0*d", title, season, n.padding(), episode)
}

// FormatMovieName renders "Title (2002)" when year is at least MinMovieYear,
// otherwise the bare title.
func (n Naming) FormatMovieName(title string, year int) string {
	if year >= MinMovieYear {
		return fmt.Sprintf("%s (%d)", title, year)
	}
	return title
}

// WithPadding returns a copy using the given episode padding width.
func (n Naming) WithPadding(padding int) (Naming, error) {
	if !validPadding(padding) {
		return n, fmt.Errorf("episode padding must be 2 or 3, got %d", padding)
	}
	clone := n
	clone.MediaExtensions = append([]string(nil), n.MediaExtensions...)
	clone.EpisodePadding = padding
	return clone, nil
}

// HasExtension reports whether ext (any case, with or without dot) is a media extension.
func (n Naming) HasExtension(ext string) bool {
	ext = NormalizeExtension(ext)
	if ext == "" {
		return false
	}
	for _, candidate := range n.MediaExtensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

// ExtensionSet returns the configured extensions as a lookup set.
func (n Naming) ExtensionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(n.MediaExtensions))
	for _, ext := range n.MediaExtensions {
		set[ext] = struct{}{}
	}
	return set
}

// NormalizeExtension lower-cases ext and ensures a leading dot. Blank input yields "".
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// NormalizeExtensions normalizes, de-duplicates and sorts a list of extensions.
func NormalizeExtensions(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		ext := NormalizeExtension(value)
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func (n Naming) padding() int {
	if validPadding(n.EpisodePadding) {
		return n.EpisodePadding
	}
	return defaultEpisodePadding
}

func validPadding(p int) bool {
	return p == 2 || p == 3
}
