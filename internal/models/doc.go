// Package models defines the domain types shared by every layer of the waiting-room display.
//
// # Item Model
//
//   - [PlaylistItem] : one piece of content (image, website, PDF slide, spreadsheet, RSS ticker) in its wire/storage shape
//   - [Playlists] : playlist name → ordered items
//   - [Snapshot] : full remote state (all playlists plus the remote current-playlist pointer)
//   - [SyncState] : online/syncing indicator derived from the latest remote call
//
// # Registry
//
// [Registry] holds every playlist and the current-selection pointer. The [DefaultPlaylist]
// always exists and cannot be deleted. Invalid operations (blank or duplicate name,
// unknown playlist, deleting the default) return a rejection error and leave the registry untouched.
//
// # Cursor
//
// [Cursor] tracks the current slide among playable items only. RSS tickers are an
// always-visible overlay and never take a slot in the rotation.
package models
