// Package engine implements the state-machine-driven synchronization core of the widget.
//
// # Sync Cycle
//
// The [Engine] subscribes to the shared store and consumes one intent per
// cycle: it performs the minimal gateway fetches the intent requires, rebuilds
// the table projection, and writes the result back in a single atomic update
// that returns the intent to settled. Handlers either complete a cycle or
// short-circuit as a no-op without touching the store.
//
//   - Startup : One-time session initialization (accounts, devices, liked media, player, view); idempotent
//   - PlayMedia : Fire-and-forget play command, then a delayed refresh
//   - LikeMedia : Optimistic additive update of the liked set
//   - HassUpdated : Meaningful-change detection against the previous host snapshot, then refresh
//   - OpenPlaylist : Switch to track display and load the playlist's tracks
//   - Refresh : Unconditional refetch of whichever view mode is current
//
// # Guarantees
//
// Every dispatched cycle ends settled, including failed ones (the failure is
// logged and the store is settled without data writes, so the machine is never
// stuck). A single-flight guard rejects intents raised while a cycle is
// pending. Startup failures leave the session context unset so the next
// intent retries initialization from scratch.
//
// # Table Projection
//
// [BuildTable] is the pure mapping from a fetched listing plus a fresh player
// snapshot to display rows. It fails on a listing with neither tracks nor
// playlists; that signals a gateway contract violation and is never swallowed.
package engine
