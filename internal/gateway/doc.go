// Package gateway issues named Spotcast requests against a Home Assistant session and returns typed responses.
//
// # Gateway Interface
//
// The [Gateway] interface is what the sync engine depends on; [SpotcastGateway]
// implements it over a [Caller] (satisfied by hass.Session). Test doubles live
// in internal/testing.
//
// # Operations
//
// Read operations (accounts, devices, cast devices, player, view, tracks,
// liked media, categories, playlists, search) await a typed result. Command
// operations (play, like) are fire-and-forget service calls: the widget
// refreshes after a configured delay rather than awaiting a confirmation push.
//
// # Side effects
//
// Two read paths mirror their result into the shared store when one is
// attached: FetchAccounts writes the account list and FetchView writes the
// raw view. Everything else is stateless.
//
// # Error Handling
//
// Failed calls wrap [shared.ErrGatewayCall] with the operation name and the
// request payload, so a settle cycle failure can be traced to the exact
// request that produced it.
package gateway
