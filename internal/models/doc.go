// Package models defines domain entities exchanged between the gateway, the observable store, and the sync engine.
//
// The package contains three categories of types:
//
// 1. Spotcast response types: Typed mirrors of the integration's websocket payloads
//   - [AccountsResponse] : Connected Spotify accounts with the default flag
//   - [DevicesResponse] / [CastDevicesResponse] : Playback targets
//   - [PlayerResponse] : Current player snapshot (item, context, device, play state)
//   - [ViewResponse] / [TracksResponse] : Browsing view entries and playlist track listings
//   - [LikedMedia] : Total count plus ordered liked item uris
//
// 2. Projection types: Display-ready output of the table builder
//   - [TableRow] : Uniform row for either a track or a playlist-like entry
//   - [Listing] : Structural union of tracks or playlist entries fed to the builder
//
// 3. Host snapshot types: The subset of Home Assistant state the widget observes
//   - [EntityState] : One entity's state and attributes
//   - [HassStates] : Entity id → state map used for change detection
//
// All types are plain data. Identity comparisons between rows, the player item, and
// the liked set use the Spotify URI as the stable key.
package models
