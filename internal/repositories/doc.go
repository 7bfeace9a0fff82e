// Package repositories implements SQLite persistence for the display's local state.
//
// The schema is a single key/value table (kv_store) with these keys:
//   - "playlists" : JSON object, playlist name → items
//   - "currentPlaylist" : name of the selected playlist
//   - "playlist" : legacy single-playlist array, migrated once into "playlists" and erased
//   - "displayId" : uuid identifying this display to the backend
//
// [LocalStore] is the cache used when the backend is unreachable. It never returns
// errors: unreadable or malformed records are logged and treated as absent.
package repositories
