package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/formatter"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
	manifestFilename = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	OutputDir  string  // Base output directory (default: plx_export_{epoch})
	NumWorkers int     // Concurrent writers (default: 5, max: 10)
	RateLimit  float64 // Track fetches per second (default: 5)
	Dialect    string  // CSV dialect, see [formatter.Render]
}

// PlaylistExportResult is the outcome of exporting a single playlist.
type PlaylistExportResult struct {
	PlaylistID   string
	PlaylistName string
	File         string
	TrackCount   int
	Success      bool
	Error        error
	order        int
}

// BulkExportResult summarises an [Exporter.ExportAll] run.
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []PlaylistExportResult // In playlist order
}

// playlistExportJob carries a fetched playlist to a writer.
type playlistExportJob struct {
	playlist models.Playlist
	tracks   []models.Track
	file     string
	order    int
}

// Exporter runs bulk exports against a [services.Backend].
type Exporter struct {
	backend services.Backend
	logger  *log.Logger
}

// NewExporter creates an Exporter. A nil logger discards output.
func NewExporter(backend services.Backend, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Exporter{backend: backend, logger: shared.WithLogger(logger, "component", "exporter")}
}

// ExportAll exports the playlists named by ids (every playlist when ids is empty) as CSV files.
//
// Fetching happens on one goroutine paced by a rate limiter; writing fans out to a worker pool.
// Per-playlist failures are collected, not returned. The returned error covers setup failures,
// cancellation, and manifest writing.
func (e *Exporter) ExportAll(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: backend not initialized", shared.ErrServiceUnavailable)
	}

	opts = withDefaults(opts)

	playlists, err := e.resolvePlaylists(ctx, prog, ids)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(playlists),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(playlists)),
	}

	files := csvFilenames(playlists)
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan playlistExportJob, len(playlists))
	results := make(chan PlaylistExportResult, len(playlists))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for i, pl := range playlists {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			sendProgress(prog, fetchingTracksUpdate(i+1, len(playlists), pl.Name))

			tracks, err := e.backend.GetPlaylistTracks(ctx, pl.ID)
			if err != nil {
				e.logger.Warn("failed to fetch tracks", "playlist_id", pl.ID, "error", err)
				results <- PlaylistExportResult{
					PlaylistID:   pl.ID,
					PlaylistName: pl.Name,
					Error:        fmt.Errorf("failed to fetch tracks: %w", err),
					order:        i,
				}
				continue
			}

			jobs <- playlistExportJob{playlist: pl, tracks: tracks, file: files[i], order: i}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(playlists), res.PlaylistName, res.TrackCount))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(playlists), res.PlaylistName, res.Error))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].order < result.Results[j].order
	})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled after %d of %d playlists: %w", completed, len(playlists), err)
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestFilename)
	if err := formatter.WriteManifest(toManifest(result, opts.Dialect), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("bulk export finished",
		"dir", opts.OutputDir,
		"successful", result.SuccessfulExports,
		"failed", result.FailedExports,
	)
	return result, nil
}

// resolvePlaylists returns the playlists to export, in order and without repeated IDs.
//
// IDs unknown to the playlist listing are still exported under their ID.
func (e *Exporter) resolvePlaylists(ctx context.Context, prog chan<- ProgressUpdate, ids []string) ([]models.Playlist, error) {
	sendProgress(prog, fetchingPlaylistsUpdate())

	all, err := e.backend.GetPlaylists(ctx)
	if err != nil {
		if len(ids) == 0 {
			return nil, fmt.Errorf("failed to list playlists: %w", err)
		}
		e.logger.Warn("failed to list playlists, exporting by ID only", "error", err)
	}

	if len(ids) == 0 {
		return e.dedupe(all), nil
	}

	byID := make(map[string]models.Playlist, len(all))
	for _, pl := range all {
		byID[pl.ID] = pl
	}

	playlists := make([]models.Playlist, 0, len(ids))
	for _, id := range ids {
		pl, ok := byID[id]
		if !ok {
			pl = models.Playlist{ID: id, Name: id}
		}
		playlists = append(playlists, pl)
	}
	return e.dedupe(playlists), nil
}

func (e *Exporter) dedupe(playlists []models.Playlist) []models.Playlist {
	seen := make(map[string]bool, len(playlists))
	unique := make([]models.Playlist, 0, len(playlists))
	for _, pl := range playlists {
		if seen[pl.ID] {
			e.logger.Debug("skipping repeated playlist", "playlist_id", pl.ID)
			continue
		}
		seen[pl.ID] = true
		unique = append(unique, pl)
	}
	return unique
}

// exportWorker writes playlists from the jobs channel until it is closed.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan playlistExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportSinglePlaylist(job, opts)
	}
}

// exportSinglePlaylist writes one playlist's CSV.
func (e *Exporter) exportSinglePlaylist(j playlistExportJob, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   j.playlist.ID,
		PlaylistName: j.playlist.Name,
		TrackCount:   len(j.tracks),
		order:        j.order,
	}

	path := filepath.Join(opts.OutputDir, j.file)
	if err := formatter.WriteCSVFile(j.tracks, path, opts.Dialect); err != nil {
		result.Error = fmt.Errorf("CSV export failed: %w", err)
		return result
	}

	result.File = path
	result.Success = true
	return result
}

// CSVFilenameFor returns the bulk export file name for a playlist ID.
//
// IDs are opaque, so path separators are replaced to keep files inside the output directory.
func CSVFilenameFor(playlistID string) string {
	safe := []rune(playlistID)
	for i, r := range safe {
		switch r {
		case '/', '\\', ':', 0:
			safe[i] = '_'
		}
	}
	name := string(safe)
	if name == "" || name == "." || name == ".." {
		name = "_"
	}
	return name + ".csv"
}

// csvFilenames assigns each playlist a distinct file name, suffixing -2, -3, ... when
// sanitized IDs clash. Names are compared case-insensitively.
func csvFilenames(playlists []models.Playlist) []string {
	names := make([]string, len(playlists))
	taken := make(map[string]bool, len(playlists))
	for i, pl := range playlists {
		name := CSVFilenameFor(pl.ID)
		base := strings.TrimSuffix(name, ".csv")
		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d.csv", base, n)
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func withDefaults(opts BulkExportOpts) BulkExportOpts {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("plx_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Dialect == "" {
		opts.Dialect = shared.DialectVerbatim
	}
	return opts
}

func toManifest(r *BulkExportResult, dialect string) *formatter.Manifest {
	m := &formatter.Manifest{
		ExportedAt:     time.Now().UTC(),
		Dialect:        dialect,
		TotalPlaylists: r.TotalPlaylists,
		Successful:     r.SuccessfulExports,
		Failed:         r.FailedExports,
		Playlists:      make([]formatter.ManifestEntry, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		entry := formatter.ManifestEntry{
			PlaylistID:   res.PlaylistID,
			PlaylistName: res.PlaylistName,
			TrackCount:   res.TrackCount,
			Success:      res.Success,
		}
		if res.File != "" {
			entry.File = filepath.Base(res.File)
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		m.Playlists = append(m.Playlists, entry)
	}
	return m
}
