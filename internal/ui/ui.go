package ui

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/formatter"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/shared"
)

// EmptyMessage is shown in the grid when there are no playlists to display.
const EmptyMessage = "Login and refresh to load your playlists."

// LoginHint is the status shown after the login page is opened.
const LoginHint = "Finish logging in in your browser, run 'plx session import', then press r to refresh."

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 6 // label, help and status lines around a list
)

// ViewState identifies which view is rendered. It is derived from the selection.
type ViewState int

const (
	GridView ViewState = iota
	TracksView
)

// SessionLoader returns a backend carrying the latest stored session.
type SessionLoader func(ctx context.Context) (services.Backend, error)

type statusTone int

const (
	toneHint statusTone = iota
	toneSaved
	toneFailed
)

// ModelOpts configures the side effects of a [Model]. Zero values fall back to defaults.
type ModelOpts struct {
	Saver    formatter.Saver // Where CSV downloads go (default: current directory)
	Opener   shared.Opener   // Opens URLs (default: [shared.OpenBrowser])
	Logger   *log.Logger     // Discards output when nil
	Dialect  string          // CSV dialect, see [formatter.Render]
	Filename string          // Download file name (default: playlist.csv)
	Reload   SessionLoader   // Called by Refresh before fetching; the backend is kept when nil
}

// Model is the playlist browser state.
type Model struct {
	ctx      context.Context
	backend  services.Backend
	saver    formatter.Saver
	opener   shared.Opener
	reload   SessionLoader
	logger   *log.Logger
	dialect  string
	filename string

	playlists []models.Playlist
	tracks    []models.Track
	selected  string // Empty in the grid

	width        int
	height       int
	playlistList list.Model
	trackList    list.Model
	status       string
	statusTone   statusTone
	help         help.Model
	keys         keyMap
}

// NewModel creates a browser bound to backend.
func NewModel(ctx context.Context, backend services.Backend, opts ModelOpts) *Model {
	if opts.Saver == nil {
		opts.Saver = formatter.DirSaver{Dir: "."}
	}
	if opts.Opener == nil {
		opts.Opener = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Filename == "" {
		opts.Filename = formatter.CSVFilename
	}

	listHeight := defaultHeight - chromeHeight
	return &Model{
		ctx:          ctx,
		backend:      backend,
		saver:        opts.Saver,
		opener:       opts.Opener,
		reload:       opts.Reload,
		logger:       shared.WithLogger(opts.Logger, "component", "ui"),
		dialect:      opts.Dialect,
		filename:     opts.Filename,
		width:        defaultWidth,
		height:       defaultHeight,
		playlistList: newList(nil, defaultWidth, listHeight),
		trackList:    newList(nil, defaultWidth, listHeight),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init loads the playlist collection.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// State reports the current view.
func (m *Model) State() ViewState {
	if m.selected == "" {
		return GridView
	}
	return TracksView
}

// Selected returns the selected playlist ID, empty in the grid.
func (m *Model) Selected() string { return m.selected }

// Playlists returns the current playlist collection.
func (m *Model) Playlists() []models.Playlist { return m.playlists }

// Tracks returns the current track collection.
func (m *Model) Tracks() []models.Track { return m.tracks }

// SelectPlaylist selects id, switching to the track view at once, and returns the track fetch.
//
// The current track collection stays visible until the response arrives.
func (m *Model) SelectPlaylist(id string) tea.Cmd {
	m.selected = id
	m.status = ""
	m.logger.Debug("playlist selected", "playlist_id", id)
	return m.fetchTracks(id)
}

// ClearSelection returns to the grid. The track collection is kept.
func (m *Model) ClearSelection() {
	m.selected = ""
	m.status = ""
}

// ExportCSV snapshots the current tracks and returns the command that saves them as a CSV download.
func (m *Model) ExportCSV() tea.Cmd {
	tracks := slices.Clone(m.tracks)

	payload, err := formatter.Render(tracks, m.dialect)
	if err != nil {
		return func() tea.Msg { return newExportedMsg("", 0, err) }
	}

	blob := formatter.NewBlob(m.filename, formatter.CSVMIMEType, payload)
	saver := m.saver
	ctx := m.ctx
	return func() tea.Msg {
		location, err := formatter.Download(ctx, saver, blob)
		return newExportedMsg(location, len(tracks), err)
	}
}

// Login opens the backend's login page in the system browser.
func (m *Model) Login() tea.Cmd {
	url := m.backend.LoginURL()
	m.setStatus(LoginHint, toneHint)
	return m.open(url, true)
}

// Refresh reloads the stored session, when a loader is configured, and re-fetches the playlist collection.
func (m *Model) Refresh() tea.Cmd {
	m.setStatus("Refreshing playlists...", toneHint)
	if m.reload == nil {
		return m.fetchPlaylists()
	}

	reload, ctx := m.reload, m.ctx
	return func() tea.Msg {
		backend, err := reload(ctx)
		return newSessionReloadedMsg(backend, err)
	}
}

// OpenTrack opens the highlighted track's link in the system browser.
func (m *Model) OpenTrack() tea.Cmd {
	item, ok := m.trackList.SelectedItem().(trackItem)
	if !ok {
		return nil
	}
	if item.track.URL == "" {
		m.setStatus(fmt.Sprintf("No link for %s", item.track.Name), toneFailed)
		return nil
	}
	return m.open(item.track.URL, false)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width, max(msg.Height-chromeHeight, 1))
		m.trackList.SetSize(msg.Width, max(msg.Height-chromeHeight, 1))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case sessionReloadedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to reload session, keeping current backend", "error", msg.err)
		} else if msg.backend != nil {
			m.backend = msg.backend
		}
		return m, m.fetchPlaylists()

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to fetch playlists, keeping previous collection", "error", msg.err)
			m.status = ""
			return m, nil
		}
		m.playlists = msg.playlists
		m.status = ""
		return m, m.playlistList.SetItems(playlistItems(msg.playlists))

	case tracksFetchedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to fetch tracks, keeping previous collection", "playlist_id", msg.playlistID, "error", msg.err)
			return m, nil
		}
		if msg.playlistID != m.selected {
			m.logger.Debug("applying tracks for a playlist that is no longer selected",
				"playlist_id", msg.playlistID,
				"selected", m.selected,
			)
		}
		m.tracks = msg.tracks
		m.trackList.ResetSelected()
		return m, m.trackList.SetItems(trackItems(msg.tracks))

	case exportedMsg:
		if msg.err != nil {
			m.logger.Error("CSV export failed", "error", msg.err)
			m.setStatus(fmt.Sprintf("Export failed: %v", msg.err), toneFailed)
			return m, nil
		}
		m.logger.Info("CSV exported", "location", msg.location, "tracks", msg.count)
		m.setStatus(fmt.Sprintf("✓ Saved %d tracks to %s", msg.count, msg.location), toneSaved)
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to open browser", "url", msg.url, "error", msg.err)
			m.setStatus(fmt.Sprintf("Open %s in your browser", msg.url), toneFailed)
			return m, nil
		}
		if msg.login {
			m.logger.Info("opened login page", "url", msg.url)
		}
		return m, nil
	}

	return m.updateActiveList(msg)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.activeList().FilterState() == list.Filtering {
		return m.updateActiveList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.login):
		return m, m.Login()
	case key.Matches(msg, m.keys.refresh):
		return m, m.Refresh()
	}

	if m.selected == "" {
		if key.Matches(msg, m.keys.enter) {
			if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
				return m, m.SelectPlaylist(item.playlist.ID)
			}
			return m, nil
		}
		return m.updateActiveList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.back):
		m.ClearSelection()
		return m, nil
	case key.Matches(msg, m.keys.download):
		return m, m.ExportCSV()
	case key.Matches(msg, m.keys.open):
		return m, m.OpenTrack()
	}
	return m.updateActiveList(msg)
}

func (m *Model) activeList() *list.Model {
	if m.selected == "" {
		return &m.playlistList
	}
	return &m.trackList
}

func (m *Model) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	l := m.activeList()
	updated, cmd := l.Update(msg)
	*l = updated
	return m, cmd
}

// View renders the grid or the track view.
func (m *Model) View() string {
	if m.selected == "" {
		return m.renderGrid()
	}
	return m.renderTracks()
}

func (m *Model) renderGrid() string {
	label := styles.label.Render("Playlists")
	helpView := m.help.ShortHelpView(m.keys.gridHelp())

	body := m.playlistList.View()
	if len(m.playlists) == 0 {
		body = styles.empty.Render(EmptyMessage)
	}
	return fmt.Sprintf("%s\n%s\n\n%s%s", label, body, helpView, m.renderStatus())
}

func (m *Model) renderTracks() string {
	label := styles.label.Render("Tracks")
	helpView := m.help.ShortHelpView(m.keys.tracksHelp())
	return fmt.Sprintf("%s\n%s\n\n%s%s", label, m.trackList.View(), helpView, m.renderStatus())
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	switch m.statusTone {
	case toneFailed:
		return "\n" + styles.failed.Render(m.status)
	case toneSaved:
		return "\n" + styles.saved.Render(m.status)
	}
	return "\n" + styles.hint.Render(m.status)
}

func (m *Model) setStatus(s string, tone statusTone) {
	m.status = s
	m.statusTone = tone
}

func (m *Model) fetchPlaylists() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		playlists, err := backend.GetPlaylists(ctx)
		return newPlaylistsFetchedMsg(playlists, err)
	}
}

func (m *Model) fetchTracks(id string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		tracks, err := backend.GetPlaylistTracks(ctx, id)
		return newTracksFetchedMsg(id, tracks, err)
	}
}

func (m *Model) open(url string, login bool) tea.Cmd {
	opener := m.opener
	return func() tea.Msg {
		return newOpenedMsg(url, login, opener(url))
	}
}
