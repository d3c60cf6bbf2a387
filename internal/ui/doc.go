// Package ui implements the playlist browser as a bubbletea program.
//
// The browser has two views, derived from the current selection:
//  1. Grid : the logged-in account's playlists, one list entry per playlist
//  2. Tracks : the selected playlist's tracks, with CSV download and link opening
//
// [Model] follows bubbletea's Init/Update/View pattern. Backend fetches run as [tea.Cmd]s and
// report back through messages; a failed fetch is logged and the previous collections are kept.
//
// Track responses are applied in arrival order, whichever playlist they belong to, so two quick
// selections can leave the track view showing the slower response.
package ui
