// package formatter turns track collections into CSV payloads and writes export artifacts
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
)

const (
	// CSVHeader is the fixed first line of every export.
	CSVHeader = "Title,Artists,URL"
	// CSVFilename is the default name of a single-playlist export.
	CSVFilename = "playlist.csv"
	// CSVMIMEType is the media type attached to export blobs.
	CSVMIMEType = "text/csv"
)

// TracksToCSV renders tracks as the header line followed by one `"name","artists","url"` row per track.
//
// Rows are joined by "\n" with no trailing newline; the header is always followed by "\n".
// Embedded double quotes are written verbatim and are NOT escaped, so a field containing `"` or `,`
// yields a line that strict CSV readers will misparse. Use [TracksToRFC4180] for escaped output.
func TracksToCSV(tracks []models.Track) string {
	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteString("\n")

	for i, t := range tracks {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, `"%s","%s","%s"`, t.Name, t.Artists, t.URL)
	}
	return b.String()
}

// TracksToRFC4180 renders tracks with [csv.Writer], escaping quotes and separators.
func TracksToRFC4180(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(strings.Split(CSVHeader, ",")); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		if err := writer.Write([]string{track.Name, track.Artists, track.URL}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// Render produces the CSV payload for tracks in the given dialect ([shared.DialectVerbatim] when empty).
func Render(tracks []models.Track, dialect string) ([]byte, error) {
	switch dialect {
	case "", shared.DialectVerbatim:
		return []byte(TracksToCSV(tracks)), nil
	case shared.DialectRFC4180:
		return TracksToRFC4180(tracks)
	default:
		return nil, fmt.Errorf("%w: unknown CSV dialect %q", shared.ErrInvalidArgument, dialect)
	}
}

// WriteCSVFile renders tracks and writes them to path, creating parent directories.
func WriteCSVFile(tracks []models.Track, path, dialect string) error {
	data, err := Render(tracks, dialect)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}
