package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/plx/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

const noArtwork = "no artwork"

// playlistItem wraps [models.Playlist] to implement [list.Item]. It is one grid card.
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	if !i.playlist.HasImage() {
		return noArtwork
	}
	return "▣ " + i.playlist.Image
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string { return i.track.Artists }

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, pl := range playlists {
		items[i] = playlistItem{playlist: pl}
	}
	return items
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

// newDelegate renders the highlighted card in the palette's accent.
func newDelegate(p *Palette) list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = p.card.Inherit(d.Styles.SelectedTitle)
	d.Styles.SelectedDesc = p.cardDesc.Inherit(d.Styles.SelectedDesc)
	return d
}

// newList builds a list with its own quit bindings disabled; the model owns quitting.
func newList(items []list.Item, width, height int) list.Model {
	l := list.New(items, newDelegate(styles), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	return l
}
