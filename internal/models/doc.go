// Package models defines the data transfer objects exchanged with the playlist backend.
//
//   - [Playlist] : A playlist owned by the logged-in account, as listed by GET /playlists
//   - [Track] : One song in a playlist, as returned by GET /playlist/{id}
//
// Both are created by the backend and only read by this client.
// Nothing here is persisted; collections live in memory for as long as a view shows them.
package models
