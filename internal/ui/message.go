package ui

import (
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/services"
)

// sessionReloadedMsg carries the backend rebuilt by a [SessionLoader].
type sessionReloadedMsg struct {
	backend services.Backend
	err     error
}

// playlistsFetchedMsg carries the result of GET /playlists.
type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

// tracksFetchedMsg carries the result of GET /playlist/{id}.
type tracksFetchedMsg struct {
	playlistID string
	tracks     []models.Track
	err        error
}

// exportedMsg reports where a CSV download was saved.
type exportedMsg struct {
	location string
	count    int
	err      error
}

// openedMsg reports a URL handed to the system browser.
type openedMsg struct {
	url   string
	login bool
	err   error
}

func newPlaylistsFetchedMsg(playlists []models.Playlist, err error) playlistsFetchedMsg {
	return playlistsFetchedMsg{playlists: playlists, err: err}
}

func newTracksFetchedMsg(playlistID string, tracks []models.Track, err error) tracksFetchedMsg {
	return tracksFetchedMsg{playlistID: playlistID, tracks: tracks, err: err}
}

func newExportedMsg(location string, count int, err error) exportedMsg {
	return exportedMsg{location: location, count: count, err: err}
}

func newOpenedMsg(url string, login bool, err error) openedMsg {
	return openedMsg{url: url, login: login, err: err}
}

func newSessionReloadedMsg(backend services.Backend, err error) sessionReloadedMsg {
	return sessionReloadedMsg{backend: backend, err: err}
}
