package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotsync/internal/store"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStateChanged MsgKind = iota
	MsgSessionClosed
	MsgIntentRaised
)

// stateChangedMsg is the constructor for [MsgStateChanged]
func stateChangedMsg(state store.State) Msg {
	return Msg{kind: MsgStateChanged, data: state}
}

// sessionClosedMsg is the constructor for [MsgSessionClosed]
func sessionClosedMsg(err error) Msg {
	return Msg{kind: MsgSessionClosed, data: err}
}

// intentRaisedMsg is the constructor for [MsgIntentRaised]
func intentRaisedMsg(intent store.Intent) Msg {
	return Msg{kind: MsgIntentRaised, data: intent}
}
