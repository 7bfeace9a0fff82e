// Package services implements the network clients used by the display.
//
// # Backend Client
//
// [SyncClient] wraps the shared playlist backend:
//
//	POST   /global-session            → { success, session: { session_id } }
//	GET    /global-playlists          → { success, playlists: {name: [item...]}, current_playlist }
//	PUT    /global-playlists/{name}   { items }         → { success }
//	PUT    /global-current-playlist   { playlist_name } → { success }
//	DELETE /global-playlists/{name}   → { success }
//
// Requests are throttled client-side with a [rate.Limiter] and never retried; the
// next periodic pull is the retry.
//
// # Online Flag
//
// [Status] holds the process-wide online/syncing flags. Tracked calls set online on
// success and offline on transport or status failures. [SyncClient.PollPlaylists]
// is untracked so a failing pull never flips the flag.
//
// # Feeds
//
// [FeedService] fetches RSS/Atom feeds through gofeed. Ticker widgets are never fetched.
// A page that is not a feed becomes a single embed entry; other failures yield
// [PlaceholderEntries].
//
// # Error Handling
//
// Backend errors wrap [shared.ErrAPIRequest] (transport, status, decode) or
// [shared.ErrUnsuccessful] (2xx with success=false).
package services
