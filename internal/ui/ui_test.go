package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/plx/internal/formatter"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/shared"
	tu "github.com/desertthunder/plx/internal/testing"
)

var (
	testPlaylists = []models.Playlist{
		{ID: "p1", Name: "Morning Focus", Image: "https://img.example.com/p1.jpg"},
		{ID: "p2", Name: "Road Trip"},
		{ID: "p3", Name: "Late Night Jazz", Image: "https://img.example.com/p3.jpg"},
	}
	testTracks = map[string][]models.Track{
		"p1": {
			{Name: "Weightless", Artists: "Marconi Union", URL: "https://open.example.com/t1"},
			{Name: "Intro", Artists: "The xx", URL: "https://open.example.com/t2"},
		},
		"p2": {
			{Name: `Song "A"`, Artists: "X, Y", URL: "http://a"},
		},
		"p3": {},
	}
)

type recordingOpener struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (o *recordingOpener) open(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
	return o.err
}

func newTestModel(t *testing.T, backend *tu.MockBackend, opts ModelOpts) *Model {
	t.Helper()
	if opts.Saver == nil {
		opts.Saver = formatter.DirSaver{Dir: t.TempDir()}
	}
	if opts.Opener == nil {
		opts.Opener = (&recordingOpener{}).open
	}
	return NewModel(context.Background(), backend, opts)
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	m.Update(cmd())
}

func loadedModel(t *testing.T) (*Model, *tu.MockBackend) {
	t.Helper()
	backend := tu.NewMockBackend(testPlaylists, testTracks)
	m := newTestModel(t, backend, ModelOpts{})
	run(t, m, m.Init())
	return m, backend
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestInit(t *testing.T) {
	t.Run("loads playlists in response order", func(t *testing.T) {
		m, backend := loadedModel(t)

		if backend.PlaylistCalls() != 1 {
			t.Errorf("expected 1 playlist fetch, got %d", backend.PlaylistCalls())
		}

		items := m.playlistList.Items()
		if len(items) != len(testPlaylists) {
			t.Fatalf("expected %d cards, got %d", len(testPlaylists), len(items))
		}
		for i, item := range items {
			if got := item.(playlistItem).playlist.ID; got != testPlaylists[i].ID {
				t.Errorf("card %d: expected %s, got %s", i, testPlaylists[i].ID, got)
			}
		}
	})

	t.Run("starts in grid", func(t *testing.T) {
		m, _ := loadedModel(t)
		if m.State() != GridView || m.Selected() != "" {
			t.Errorf("expected grid with no selection, got state %d selected %q", m.State(), m.Selected())
		}
	})

	t.Run("fetch failure keeps empty collection", func(t *testing.T) {
		backend := tu.NewMockBackend(nil, nil)
		backend.PlaylistsErr = shared.ErrNotAuthenticated
		m := newTestModel(t, backend, ModelOpts{})

		run(t, m, m.Init())

		if len(m.Playlists()) != 0 {
			t.Errorf("expected no playlists, got %d", len(m.Playlists()))
		}
		if !strings.Contains(m.View(), EmptyMessage) {
			t.Errorf("expected empty message, got:\n%s", m.View())
		}
	})
}

func TestGridView(t *testing.T) {
	t.Run("renders one card per playlist", func(t *testing.T) {
		m, _ := loadedModel(t)
		view := m.View()

		for _, pl := range testPlaylists {
			if !strings.Contains(view, pl.Name) {
				t.Errorf("expected %q in grid, got:\n%s", pl.Name, view)
			}
		}
		if strings.Contains(view, EmptyMessage) {
			t.Error("did not expect empty message with playlists loaded")
		}
	})

	t.Run("always shows login", func(t *testing.T) {
		m := newTestModel(t, tu.NewMockBackend(nil, nil), ModelOpts{})
		if !strings.Contains(m.View(), "login") {
			t.Errorf("expected login action, got:\n%s", m.View())
		}
	})

	t.Run("empty collection shows message", func(t *testing.T) {
		m := newTestModel(t, tu.NewMockBackend([]models.Playlist{}, nil), ModelOpts{})
		run(t, m, m.Init())

		if !strings.Contains(m.View(), EmptyMessage) {
			t.Errorf("expected %q, got:\n%s", EmptyMessage, m.View())
		}
	})

	t.Run("card description shows artwork", func(t *testing.T) {
		if got := (playlistItem{playlist: testPlaylists[0]}).Description(); !strings.Contains(got, testPlaylists[0].Image) {
			t.Errorf("expected image URL in description, got %q", got)
		}
		if got := (playlistItem{playlist: testPlaylists[1]}).Description(); got != noArtwork {
			t.Errorf("expected %q, got %q", noArtwork, got)
		}
	})
}

func TestSelectPlaylist(t *testing.T) {
	t.Run("enter selects highlighted card", func(t *testing.T) {
		m, backend := loadedModel(t)
		m.playlistList.Select(1)

		_, cmd := m.Update(keyPress("enter"))

		if m.Selected() != "p2" {
			t.Fatalf("expected p2 selected, got %q", m.Selected())
		}
		run(t, m, cmd)
		if backend.TrackCalls("p2") != 1 {
			t.Errorf("expected one fetch for p2, got %d", backend.TrackCalls("p2"))
		}
	})

	t.Run("switches to tracks before the response", func(t *testing.T) {
		m, _ := loadedModel(t)

		cmd := m.SelectPlaylist("p1")

		if m.State() != TracksView {
			t.Error("expected tracks view immediately after selection")
		}
		if !strings.Contains(m.View(), "Tracks") {
			t.Errorf("expected Tracks label, got:\n%s", m.View())
		}
		if len(m.Tracks()) != 0 {
			t.Errorf("expected no tracks before the response, got %d", len(m.Tracks()))
		}

		run(t, m, cmd)
		view := m.View()
		for _, track := range testTracks["p1"] {
			if !strings.Contains(view, track.Name) || !strings.Contains(view, track.Artists) {
				t.Errorf("expected %q by %q in view, got:\n%s", track.Name, track.Artists, view)
			}
		}
	})

	t.Run("reselecting fetches again", func(t *testing.T) {
		m, backend := loadedModel(t)

		run(t, m, m.SelectPlaylist("p1"))
		m.ClearSelection()
		run(t, m, m.SelectPlaylist("p1"))

		if backend.TrackCalls("p1") != 2 {
			t.Errorf("expected 2 fetches for p1, got %d", backend.TrackCalls("p1"))
		}
	})

	t.Run("last response wins", func(t *testing.T) {
		m, _ := loadedModel(t)

		cmdA := m.SelectPlaylist("p1")
		cmdB := m.SelectPlaylist("p2")

		run(t, m, cmdB)
		run(t, m, cmdA)

		if m.Selected() != "p2" {
			t.Errorf("expected selection p2, got %q", m.Selected())
		}
		if got := m.Tracks(); len(got) != len(testTracks["p1"]) || got[0].Name != testTracks["p1"][0].Name {
			t.Errorf("expected p1's tracks to win, got %+v", got)
		}
	})

	t.Run("fetch failure keeps previous tracks", func(t *testing.T) {
		m, backend := loadedModel(t)
		run(t, m, m.SelectPlaylist("p1"))

		backend.TracksErr["p2"] = shared.ErrAPIRequest
		run(t, m, m.SelectPlaylist("p2"))

		if m.State() != TracksView || m.Selected() != "p2" {
			t.Errorf("expected to stay on p2's track view, got %q", m.Selected())
		}
		if len(m.Tracks()) != len(testTracks["p1"]) {
			t.Errorf("expected previous tracks kept, got %+v", m.Tracks())
		}
	})
}

func TestClearSelection(t *testing.T) {
	t.Run("esc returns to grid", func(t *testing.T) {
		m, _ := loadedModel(t)
		run(t, m, m.SelectPlaylist("p1"))

		m.Update(keyPress("esc"))

		if m.State() != GridView {
			t.Error("expected grid view after esc")
		}
		if len(m.Tracks()) != len(testTracks["p1"]) {
			t.Error("expected tracks to stay in memory")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		m, _ := loadedModel(t)

		m.ClearSelection()
		m.ClearSelection()

		if m.State() != GridView || m.Selected() != "" {
			t.Errorf("expected grid, got selected %q", m.Selected())
		}
		if len(m.Playlists()) != len(testPlaylists) {
			t.Error("expected playlists untouched")
		}
	})
}

func TestExportCSV(t *testing.T) {
	t.Run("download key writes playlist.csv", func(t *testing.T) {
		dir := t.TempDir()
		m := newTestModel(t, tu.NewMockBackend(testPlaylists, testTracks), ModelOpts{Saver: formatter.DirSaver{Dir: dir}})
		run(t, m, m.Init())
		run(t, m, m.SelectPlaylist("p2"))

		_, cmd := m.Update(keyPress("d"))
		run(t, m, cmd)

		path := filepath.Join(dir, formatter.CSVFilename)
		tu.AssertFileExists(t, path)

		want := "Title,Artists,URL\n\"Song \"A\"\",\"X, Y\",\"http://a\""
		if got := tu.MustReadFile(t, path); got != want {
			t.Errorf("unexpected CSV:\n%q\nwant\n%q", got, want)
		}
		if !strings.Contains(m.View(), path) {
			t.Errorf("expected save location in status, got:\n%s", m.View())
		}
	})

	t.Run("empty tracks export header only", func(t *testing.T) {
		dir := t.TempDir()
		m := newTestModel(t, tu.NewMockBackend(testPlaylists, testTracks), ModelOpts{Saver: formatter.DirSaver{Dir: dir}})
		run(t, m, m.SelectPlaylist("p3"))
		run(t, m, m.ExportCSV())

		if got := tu.MustReadFile(t, filepath.Join(dir, formatter.CSVFilename)); got != "Title,Artists,URL\n" {
			t.Errorf("expected header only, got %q", got)
		}
	})

	t.Run("snapshots tracks at call time", func(t *testing.T) {
		dir := t.TempDir()
		m := newTestModel(t, tu.NewMockBackend(testPlaylists, testTracks), ModelOpts{Saver: formatter.DirSaver{Dir: dir}})
		run(t, m, m.SelectPlaylist("p1"))

		cmd := m.ExportCSV()
		run(t, m, m.SelectPlaylist("p2"))
		run(t, m, cmd)

		if got := tu.MustReadFile(t, filepath.Join(dir, formatter.CSVFilename)); got != formatter.TracksToCSV(testTracks["p1"]) {
			t.Errorf("expected p1 snapshot, got %q", got)
		}
	})

	t.Run("save failure is reported", func(t *testing.T) {
		m := newTestModel(t, tu.NewMockBackend(testPlaylists, testTracks), ModelOpts{
			Saver: formatter.WriterSaver{W: &tu.FWriter{}},
		})
		run(t, m, m.SelectPlaylist("p1"))
		run(t, m, m.ExportCSV())

		if !strings.Contains(m.View(), "Export failed") {
			t.Errorf("expected failure in status, got:\n%s", m.View())
		}
	})

	t.Run("rfc4180 dialect", func(t *testing.T) {
		dir := t.TempDir()
		m := newTestModel(t, tu.NewMockBackend(testPlaylists, testTracks), ModelOpts{
			Saver:   formatter.DirSaver{Dir: dir},
			Dialect: shared.DialectRFC4180,
		})
		run(t, m, m.SelectPlaylist("p2"))
		run(t, m, m.ExportCSV())

		if got := tu.MustReadFile(t, filepath.Join(dir, formatter.CSVFilename)); !strings.Contains(got, `"Song ""A"""`) {
			t.Errorf("expected escaped quotes, got %q", got)
		}
	})
}

func TestLoginAndOpen(t *testing.T) {
	t.Run("login opens backend login page", func(t *testing.T) {
		opener := &recordingOpener{}
		backend := tu.NewMockBackend(nil, nil)
		m := newTestModel(t, backend, ModelOpts{Opener: opener.open})

		_, cmd := m.Update(keyPress("s"))
		run(t, m, cmd)

		if len(opener.urls) != 1 || opener.urls[0] != backend.LoginURL() {
			t.Errorf("expected login URL opened, got %v", opener.urls)
		}
		if !strings.Contains(m.View(), "press r to refresh") || !strings.Contains(m.View(), "session import") {
			t.Errorf("expected refresh hint, got:\n%s", m.View())
		}
	})

	t.Run("login available from tracks", func(t *testing.T) {
		opener := &recordingOpener{}
		backend := tu.NewMockBackend(testPlaylists, testTracks)
		m := newTestModel(t, backend, ModelOpts{Opener: opener.open})
		run(t, m, m.SelectPlaylist("p1"))

		if !strings.Contains(m.View(), "login") {
			t.Errorf("expected login action in tracks help, got:\n%s", m.View())
		}

		_, cmd := m.Update(keyPress("s"))
		run(t, m, cmd)
		if len(opener.urls) != 1 || opener.urls[0] != backend.LoginURL() {
			t.Errorf("expected login URL opened from tracks, got %v", opener.urls)
		}
		if m.State() != TracksView {
			t.Errorf("expected to stay in tracks view")
		}
	})

	t.Run("l pages the list instead of logging in", func(t *testing.T) {
		m := newTestModel(t, tu.NewMockBackend(testPlaylists, testTracks), ModelOpts{})
		run(t, m, m.Init())

		m.Update(keyPress("l"))
		if strings.Contains(m.View(), LoginHint) {
			t.Errorf("expected l to stay a list key, got:\n%s", m.View())
		}
	})

	t.Run("refresh after login loads playlists", func(t *testing.T) {
		backend := tu.NewMockBackend(nil, nil)
		backend.PlaylistsErr = shared.ErrNotAuthenticated
		m := newTestModel(t, backend, ModelOpts{})
		run(t, m, m.Init())

		backend.PlaylistsErr = nil
		backend.Playlists = testPlaylists
		_, cmd := m.Update(keyPress("r"))
		run(t, m, cmd)

		if len(m.Playlists()) != len(testPlaylists) {
			t.Errorf("expected playlists after refresh, got %d", len(m.Playlists()))
		}
	})

	t.Run("refresh reloads the session", func(t *testing.T) {
		stale := tu.NewMockBackend(nil, nil)
		stale.PlaylistsErr = shared.ErrNotAuthenticated
		fresh := tu.NewMockBackend(testPlaylists, testTracks)

		reloads := 0
		m := newTestModel(t, stale, ModelOpts{
			Reload: func(context.Context) (services.Backend, error) {
				reloads++
				return fresh, nil
			},
		})
		run(t, m, m.Init())
		if len(m.Playlists()) != 0 {
			t.Fatalf("expected no playlists before login, got %d", len(m.Playlists()))
		}

		_, cmd := m.Update(keyPress("r"))
		_, fetch := m.Update(cmd())
		run(t, m, fetch)

		if reloads != 1 {
			t.Errorf("expected one session reload, got %d", reloads)
		}
		if len(m.Playlists()) != len(testPlaylists) {
			t.Errorf("expected playlists from reloaded session, got %d", len(m.Playlists()))
		}

		run(t, m, m.SelectPlaylist("p1"))
		if fresh.TrackCalls("p1") != 1 || stale.TrackCalls("p1") != 0 {
			t.Errorf("expected track fetch on reloaded backend")
		}
	})

	t.Run("reload failure keeps backend", func(t *testing.T) {
		backend := tu.NewMockBackend(testPlaylists, testTracks)
		m := newTestModel(t, backend, ModelOpts{
			Reload: func(context.Context) (services.Backend, error) {
				return nil, errors.New("config unreadable")
			},
		})

		cmd := m.Refresh()
		_, fetch := m.Update(cmd())
		run(t, m, fetch)

		if backend.PlaylistCalls() != 1 || len(m.Playlists()) != len(testPlaylists) {
			t.Errorf("expected fetch on existing backend, got %d calls", backend.PlaylistCalls())
		}
	})

	t.Run("open track link", func(t *testing.T) {
		opener := &recordingOpener{}
		m := newTestModel(t, tu.NewMockBackend(testPlaylists, testTracks), ModelOpts{Opener: opener.open})
		run(t, m, m.SelectPlaylist("p1"))

		_, cmd := m.Update(keyPress("o"))
		run(t, m, cmd)

		if len(opener.urls) != 1 || opener.urls[0] != testTracks["p1"][0].URL {
			t.Errorf("expected first track URL opened, got %v", opener.urls)
		}
	})

	t.Run("browser failure shows URL", func(t *testing.T) {
		opener := &recordingOpener{err: errors.New("no browser")}
		backend := tu.NewMockBackend(nil, nil)
		m := newTestModel(t, backend, ModelOpts{Opener: opener.open})

		run(t, m, m.Login())

		if !strings.Contains(m.View(), backend.LoginURL()) {
			t.Errorf("expected URL fallback in status, got:\n%s", m.View())
		}
	})
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := loadedModel(t)
			_, cmd := m.Update(keyPress(k))
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("expected tea.QuitMsg")
			}
		})
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette("#111111", "#222222", "#333333", "#444444", "#555555")

	if p.card.GetForeground() != lipgloss.Color("#111111") || p.label.GetForeground() != lipgloss.Color("#111111") {
		t.Error("expected accent on labels and highlighted card")
	}
	if p.saved.GetForeground() != lipgloss.Color("#222222") || p.failed.GetForeground() != lipgloss.Color("#333333") {
		t.Error("expected status tones")
	}

	d := newDelegate(p)
	if d.Styles.SelectedTitle.GetForeground() != lipgloss.Color("#111111") {
		t.Errorf("expected accent on selected card title, got %v", d.Styles.SelectedTitle.GetForeground())
	}
}
