package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/desertthunder/plx/internal/formatter"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes one playlist's tracks as CSV to a file or stdout.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	dialect := cmd.String("dialect")
	if dialect == "" {
		dialect = r.config.Export.Dialect
	}

	backend, err := r.client()
	if err != nil {
		return err
	}

	tracks, err := backend.GetPlaylistTracks(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch tracks: %w", err)
	}

	payload, err := formatter.Render(tracks, dialect)
	if err != nil {
		return err
	}

	saver, name := r.exportTarget(cmd.String("output"))
	location, err := formatter.Download(ctx, saver, formatter.NewBlob(name, formatter.CSVMIMEType, payload))
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "playlist_id", id, "tracks", len(tracks), "location", location)
	if location != "-" {
		r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), location)
	}
	return nil
}

// exportTarget resolves --output into a saver and file name.
func (r *Runner) exportTarget(output string) (formatter.Saver, string) {
	switch output {
	case "-":
		return formatter.WriterSaver{W: r.output}, formatter.CSVFilename
	case "":
		name := r.config.Export.Filename
		if name == "" {
			name = formatter.CSVFilename
		}
		return formatter.DirSaver{Dir: r.config.Export.Dir}, name
	default:
		return formatter.DirSaver{Dir: filepath.Dir(output)}, filepath.Base(output)
	}
}

// ExportAll exports many playlists concurrently and writes a manifest.
func (r *Runner) ExportAll(ctx context.Context, cmd *cli.Command) error {
	exporter, err := r.exporter()
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		Dialect:    r.config.Export.Dialect,
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = r.config.Bulk.Workers
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = r.config.Bulk.RateLimit
	}

	progress := make(chan tasks.ProgressUpdate, 20)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := exporter.ExportAll(ctx, progress, cmd.StringSlice("id"), opts)
	close(progress)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("bulk export failed: %w", err)
	}

	r.writePlainln("✓ Exported %d/%d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("%d failed:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  • %s (%s): %v\n", res.PlaylistName, res.PlaylistID, res.Error)
			}
		}
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}
