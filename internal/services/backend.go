package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
)

// RequestIDHeader carries a per-request UUID, also logged client side.
const RequestIDHeader = "X-Request-ID"

var _ Backend = (*BackendService)(nil)

// BackendService is the HTTP implementation of [Backend].
type BackendService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewBackendService creates a client for the backend at baseURL.
//
// A nil client falls back to [http.DefaultClient], which sends no session cookies.
func NewBackendService(baseURL string, client *http.Client, logger *log.Logger) *BackendService {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &BackendService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     shared.WithLogger(logger, "component", "backend"),
	}
}

// NewSessionClient returns an [http.Client] whose cookie jar holds the cookies in cookieLine for baseURL.
//
// cookieLine uses the Cookie header format ("a=1; b=2"). An empty line yields a client with an empty jar.
func NewSessionClient(baseURL, cookieLine string) (*http.Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", shared.ErrInvalidConfig, baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if cookieLine != "" {
		cookies, err := http.ParseCookie(cookieLine)
		if err != nil {
			return nil, fmt.Errorf("%w: session cookie: %v", shared.ErrInvalidConfig, err)
		}
		jar.SetCookies(u, cookies)
	}

	return &http.Client{Jar: jar}, nil
}

// BaseURL returns the normalized backend base URL.
func (b *BackendService) BaseURL() string { return b.baseURL }

// LoginURL returns {base}/login.
func (b *BackendService) LoginURL() string { return b.baseURL + "/login" }

// GetPlaylists fetches GET {base}/playlists.
func (b *BackendService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := b.getJSON(ctx, "/playlists", &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// GetPlaylistTracks fetches GET {base}/playlist/{id}.
func (b *BackendService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}

	var tracks []models.Track
	if err := b.getJSON(ctx, "/playlist/"+url.PathEscape(playlistID), &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// getJSON performs a credentialed GET and decodes the body into v.
func (b *BackendService) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger := b.logger.With("path", path, "request_id", requestID)
	logger.Debug("GET request")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	logger.Debug("response received", "status", resp.StatusCode, "bytes", len(body))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, strings.TrimSpace(string(body)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidResponse, err)
	}
	return nil
}
