package models

// Playlist represents a playlist owned by the logged-in account.
type Playlist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"` // Thumbnail URL; empty when the backend sends null
}

// HasImage reports whether the playlist carries a thumbnail.
func (p Playlist) HasImage() bool { return p.Image != "" }

// Track represents one song within a playlist.
type Track struct {
	Name    string `json:"name"`
	Artists string `json:"artists"` // Display string, already joined by the backend
	URL     string `json:"url"`     // External listen link
}
