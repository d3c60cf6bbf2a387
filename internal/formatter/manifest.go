package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/plx/internal/shared"
)

// ManifestEntry describes the outcome of one playlist in a bulk export.
type ManifestEntry struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	File         string `json:"file,omitempty"`
	TrackCount   int    `json:"track_count"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// Manifest summarises a bulk export run.
type Manifest struct {
	ExportedAt     time.Time       `json:"exported_at"`
	Dialect        string          `json:"dialect"`
	TotalPlaylists int             `json:"total_playlists"`
	Successful     int             `json:"successful"`
	Failed         int             `json:"failed"`
	Playlists      []ManifestEntry `json:"playlists"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
