package formatter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/plx/internal/shared"
)

// Blob is an in-memory file payload handed to a [Saver].
//
// It is owned by a single export and must be released once saved.
type Blob struct {
	Name     string
	MIMEType string

	mu       sync.Mutex
	data     []byte
	released bool
}

// NewBlob wraps data as a named file resource.
func NewBlob(name, mimeType string, data []byte) *Blob {
	return &Blob{Name: name, MIMEType: mimeType, data: data}
}

// Reader returns a reader over the payload, or [shared.ErrBlobReleased] after Release.
func (b *Blob) Reader() (io.Reader, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil, shared.ErrBlobReleased
	}
	return bytes.NewReader(b.data), nil
}

// Released reports whether Release has been called.
func (b *Blob) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// Release drops the payload. Safe to call more than once.
func (b *Blob) Release() {
	b.mu.Lock()
	b.data = nil
	b.released = true
	b.mu.Unlock()
}

// Saver persists a named payload through the host environment and reports where it went.
type Saver interface {
	Save(ctx context.Context, name, mimeType string, r io.Reader) (string, error)
}

// Download hands blob to saver and releases it afterwards, whether or not the save succeeded.
func Download(ctx context.Context, saver Saver, blob *Blob) (string, error) {
	defer blob.Release()

	r, err := blob.Reader()
	if err != nil {
		return "", err
	}

	location, err := saver.Save(ctx, blob.Name, blob.MIMEType, r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrExportFailed, err)
	}
	return location, nil
}

// DirSaver writes files into Dir. Files are staged in a temp file and renamed into place.
type DirSaver struct {
	Dir string
}

// Save writes r to Dir/name, replacing any existing file.
func (s DirSaver) Save(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, contextReader{ctx: ctx, r: r}); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move export into place: %w", err)
	}
	if err := os.Chmod(dest, 0644); err != nil {
		return "", fmt.Errorf("failed to set export permissions: %w", err)
	}
	return dest, nil
}

// WriterSaver streams the payload to W, e.g. stdout.
type WriterSaver struct {
	W     io.Writer
	Label string // Reported as the save location; defaults to "-"
}

// Save copies r to the writer.
func (s WriterSaver) Save(ctx context.Context, _, _ string, r io.Reader) (string, error) {
	if _, err := io.Copy(s.W, contextReader{ctx: ctx, r: r}); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if s.Label == "" {
		return "-", nil
	}
	return s.Label, nil
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
