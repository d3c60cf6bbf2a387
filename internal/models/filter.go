package models

import "github.com/sahilm/fuzzy"

// playlistSource adapts a playlist slice to [fuzzy.Source], matching on name.
type playlistSource []Playlist

func (s playlistSource) String(i int) string { return s[i].Name }
func (s playlistSource) Len() int            { return len(s) }

// FilterPlaylists returns the playlists whose names fuzzy-match pattern, best match first.
//
// An empty pattern returns playlists unchanged.
func FilterPlaylists(playlists []Playlist, pattern string) []Playlist {
	if pattern == "" {
		return playlists
	}

	matches := fuzzy.FindFrom(pattern, playlistSource(playlists))
	filtered := make([]Playlist, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, playlists[m.Index])
	}
	return filtered
}
