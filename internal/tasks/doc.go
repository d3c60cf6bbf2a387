// Package tasks runs long-running playlist operations with progress reporting.
//
// # Bulk Export
//
// [Exporter.ExportAll] writes one CSV per playlist into an output directory:
//
//  1. Resolves playlist names via [services.Backend.GetPlaylists] (all playlists when no IDs are given)
//  2. Fetches each playlist's tracks, paced by a token-bucket rate limiter
//  3. Hands fetched playlists to a bounded worker pool that renders and writes `<id>.csv`
//  4. Writes export_manifest.json summarising successes and failures
//
// A failing playlist never aborts the run; its error is recorded in the result and the manifest.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel.
// Sends use select with default so a slow or absent reader never blocks the export.
package tasks
