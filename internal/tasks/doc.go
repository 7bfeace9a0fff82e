// Package tasks keeps the playlist registry in agreement between the shared backend and the
// local store.
//
// # Protocols
//
// [Engine] implements three protocols:
//
//  1. [Engine.Start] : startup load
//     - Creates the session (result ignored), then fetches all playlists
//     - Adopts remote state verbatim when it holds at least one playlist
//     - Otherwise loads the local store, or starts with an empty default playlist
//
//  2. Mutation push : every create/switch/delete/add/remove/clear
//     - When online, saves the current playlist then moves the current pointer
//     - Always persists the whole registry locally afterwards
//
//  3. [Engine.Pull] : periodic pull, driven by a [Poller]
//     - Runs only while online and skips a cycle while a previous pull is outstanding
//     - Adopts remote items and pointer through [Reconcile] (remote wins, full overwrite)
//     - Discards its snapshot if a local mutation happened while it was fetching
//     - Failures are logged and never flip the online flag
//
// [Engine.Reconnect] is the operator's way back online: a tracked fetch that adopts
// remote state on success.
//
// # Rejections
//
// Invalid input (empty URL, blank or duplicate name, unknown playlist, deleting the
// default) leaves state untouched and returns a sentinel wrapping [shared.ErrInvalidInput].
//
// # Updates
//
// Every step emits an [Update] on the optional channel passed in [EngineOpts]. Sends use
// select with default so the engine never blocks on a slow reader.
//
// # Export
//
// [Engine.Export] writes every playlist to disk with a worker pool and a manifest.
package tasks
