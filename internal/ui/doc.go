// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders the store's table projection as a navigable list with two modes:
//  1. Browse mode: the filtered browsing view, one row per playlist
//  2. Track mode: the tracks of the playlist opened from browse mode
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern,
// receiving messages via the Msg union type. The model never mutates display
// data directly: key presses raise intents on the store, the sync engine runs
// the cycle, and the resulting transition flows back in as [MsgStateChanged]
// through a buffered channel bridged from the store subscription.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, l, r, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
