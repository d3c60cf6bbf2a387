package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists the logged-in account's playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	filter := cmd.String("filter")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	backend, err := r.client()
	if err != nil {
		return err
	}

	playlists, err := backend.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if filter != "" {
		playlists = models.FilterPlaylists(playlists, filter)
		r.logger.Debug("filtered playlists", "filter", filter, "matches", len(playlists))
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists found. Run 'plx login' and import your session first.\n")
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		r.writePlain("   ID: %s\n", p.ID)
		if p.HasImage() {
			r.writePlain("   Image: %s\n", p.Image)
		}
	}
	return nil
}

// Tracks lists the tracks of one playlist.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	backend, err := r.client()
	if err != nil {
		return err
	}

	tracks, err := backend.GetPlaylistTracks(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, t := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, t.Name, t.Artists)
		if t.URL != "" {
			r.writePlain("   %s\n", t.URL)
		}
	}
	return nil
}
