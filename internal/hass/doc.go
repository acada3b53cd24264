// Package hass maintains a websocket session with a Home Assistant host.
//
// A [Session] performs the auth handshake (auth_required → auth → auth_ok)
// with a long-lived access token, then multiplexes typed request/response
// calls over the single connection using monotonically increasing message ids.
//
//   - [Session.Call] : Issue a command and await its correlated result
//   - [Session.Fire] : Issue a command and discard the result (fire-and-forget)
//   - [Session.SubscribeStates] : Receive state_changed pushes for all entities
//
// Outbound calls pass through a [rate.Limiter] so bursts of widget activity
// cannot flood the host. A read pump goroutine owns all reads; writes are
// serialized with a mutex. When the connection drops, every pending call
// fails with [shared.ErrSessionDown].
package hass
