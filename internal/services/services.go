// package services defines interface Backend for talking to the playlist backend over HTTP
package services

import (
	"context"

	"github.com/desertthunder/plx/internal/models"
)

// Backend is the HTTP contract exposed by the playlist backend.
//
// Authentication is owned by the backend; implementations attach session cookies but never see tokens.
type Backend interface {
	// GetPlaylists retrieves the playlists of the logged-in account, in backend order.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylistTracks retrieves the tracks of a single playlist.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// LoginURL returns the URL that starts the backend's login redirect flow.
	LoginURL() string
}
