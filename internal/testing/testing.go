// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/plx/internal/models"
	"github.com/go-chi/chi/v5"
)

// MockBackend is a test double for [services.Backend].
//
// Responses are configured per playlist ID; every call is counted.
type MockBackend struct {
	mu            sync.Mutex
	Playlists     []models.Playlist
	PlaylistsErr  error
	Tracks        map[string][]models.Track
	TracksErr     map[string]error
	Login         string
	playlistCalls int
	trackCalls    map[string]int
}

// NewMockBackend returns a MockBackend serving playlists and tracks.
func NewMockBackend(playlists []models.Playlist, tracks map[string][]models.Track) *MockBackend {
	if tracks == nil {
		tracks = map[string][]models.Track{}
	}
	return &MockBackend{
		Playlists:  playlists,
		Tracks:     tracks,
		TracksErr:  map[string]error{},
		Login:      "http://backend.test/login",
		trackCalls: map[string]int{},
	}
}

func (m *MockBackend) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlistCalls++
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}
	return m.Playlists, nil
}

func (m *MockBackend) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.trackCalls == nil {
		m.trackCalls = map[string]int{}
	}
	m.trackCalls[playlistID]++
	if err := m.TracksErr[playlistID]; err != nil {
		return nil, err
	}
	return m.Tracks[playlistID], nil
}

func (m *MockBackend) LoginURL() string { return m.Login }

// PlaylistCalls returns how many times GetPlaylists was called.
func (m *MockBackend) PlaylistCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playlistCalls
}

// TrackCalls returns how many times GetPlaylistTracks was called for playlistID.
func (m *MockBackend) TrackCalls(playlistID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trackCalls[playlistID]
}

// FakeBackend is an httptest server speaking the backend's HTTP contract.
type FakeBackend struct {
	*httptest.Server
	Cookie    *http.Cookie // Required on data routes when set
	Playlists []models.Playlist
	Tracks    map[string][]models.Track

	mu       sync.Mutex
	requests []*http.Request
}

// NewFakeBackend starts a [FakeBackend]; it is closed when the test ends.
func NewFakeBackend(t *testing.T, playlists []models.Playlist, tracks map[string][]models.Track) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{Playlists: playlists, Tracks: tracks}

	r := chi.NewRouter()
	r.Use(fb.record)
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://accounts.example.com/authorize", http.StatusTemporaryRedirect)
	})
	r.Group(func(r chi.Router) {
		r.Use(fb.requireSession)
		r.Get("/playlists", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, fb.Playlists)
		})
		r.Get("/playlist/{playlistID}", func(w http.ResponseWriter, r *http.Request) {
			tracks, ok := fb.Tracks[chi.URLParam(r, "playlistID")]
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
				return
			}
			writeJSON(w, http.StatusOK, tracks)
		})
	})

	fb.Server = httptest.NewServer(r)
	t.Cleanup(fb.Close)
	return fb
}

// Requests returns a copy of the requests received so far.
func (fb *FakeBackend) Requests() []*http.Request {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]*http.Request(nil), fb.requests...)
}

func (fb *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.requests = append(fb.requests, r.Clone(context.Background()))
		fb.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (fb *FakeBackend) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fb.Cookie != nil {
			c, err := r.Cookie(fb.Cookie.Name)
			if err != nil || c.Value != fb.Cookie.Value {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not logged in"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
