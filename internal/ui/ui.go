package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/desertthunder/spotsync/internal/store"
)

// updateBuffer bounds the store-to-TUI bridge. The bridge coalesces under
// pressure, so only the freshest transitions matter.
const updateBuffer = 16

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	store   *store.Store
	updates chan store.State
	closed  <-chan struct{}
	unsub   func()

	state  store.State
	rows   list.Model
	width  int
	height int
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a TUI model observing the given store. closed, when
// non-nil, signals that the host session dropped and the TUI should exit.
func NewModel(ctx context.Context, st *store.Store, closed <-chan struct{}) *Model {
	m := &Model{
		ctx:     ctx,
		store:   st,
		updates: make(chan store.State, updateBuffer),
		closed:  closed,
		state:   st.State(),
		rows:    list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.rows.Title = "Spotify"
	m.rows.SetShowHelp(false)

	// Bridge store transitions onto the tea loop. The subscriber must never
	// block the store, so a full buffer drops the oldest pending snapshot.
	m.unsub = st.Subscribe(func(state, _ store.State) {
		for {
			select {
			case m.updates <- state:
				return
			default:
				select {
				case <-m.updates:
				default:
				}
			}
		}
	})
	return m
}

// Init seeds the view with the store's current snapshot.
func (m *Model) Init() tea.Cmd {
	state := m.state
	return func() tea.Msg { return stateChangedMsg(state) }
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rows.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgStateChanged:
			m.applyState(msg.data.(store.State))
			return m, m.waitForState()
		case MsgSessionClosed:
			m.err, _ = msg.data.(error)
			m.unsub()
			return m, tea.Quit
		case MsgIntentRaised:
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

// View renders the status header, the row list, and contextual help.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Session error: %v", m.err))
	}
	if !m.state.Connected {
		return styles.help.Render("Connecting to Home Assistant...")
	}

	header := fmt.Sprintf("%s\n%s", styles.title.Render("spotsync"), m.statusLine())
	helpView := m.help.ShortHelpView(m.helpKeys())
	return fmt.Sprintf("%s\n\n%s\n\n%s", header, m.rows.View(), helpView)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.unsub()
		return m, tea.Quit

	case key.Matches(msg, m.keys.enter):
		if row, ok := m.selectedRow(); ok {
			switch row.Action {
			case models.RowActionOpen:
				return m, m.raise(store.OpenPlaylist(row.ID))
			case models.RowActionPlay:
				return m, m.raise(store.PlayMedia(row.URI))
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.like):
		if row, ok := m.selectedRow(); ok && row.URI != "" && row.Action == models.RowActionPlay {
			return m, m.raise(store.LikeMedia(row.URI))
		}
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		return m, m.raise(store.Refresh())

	case key.Matches(msg, m.keys.back):
		if m.state.ViewMode == store.ModeTracks {
			return m, m.goBack()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

// applyState swaps the display snapshot and rebuilds the row list, keeping the
// cursor where it was.
func (m *Model) applyState(state store.State) {
	m.state = state
	index := m.rows.Index()
	m.rows.SetItems(rowItems(state.Table))
	if index < len(state.Table) {
		m.rows.Select(index)
	}

	if state.ViewMode == store.ModeTracks {
		m.rows.Title = "Tracks"
	} else {
		m.rows.Title = "Spotify"
	}
}

func (m *Model) selectedRow() (models.TableRow, bool) {
	item, ok := m.rows.SelectedItem().(rowItem)
	if !ok {
		return models.TableRow{}, false
	}
	return item.row, true
}

func (m *Model) helpKeys() []key.Binding {
	if m.state.ViewMode == store.ModeTracks {
		return []key.Binding{m.keys.enter, m.keys.like, m.keys.back, m.keys.quit}
	}
	return []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
}

func (m *Model) statusLine() string {
	active := m.state.ActiveTrack
	if active == nil || active.Track == nil {
		return styles.help.Render("nothing playing")
	}

	icon := "⏸"
	if active.IsPlaying {
		icon = "▶"
	}

	names := make([]string, len(active.Track.Artists))
	for i, artist := range active.Track.Artists {
		names[i] = artist.Name
	}

	line := fmt.Sprintf("%s %s", icon, active.Track.Name)
	if len(names) > 0 {
		line = fmt.Sprintf("%s • %s", line, strings.Join(names, ", "))
	}
	if m.state.ActiveDevice != nil {
		line = fmt.Sprintf("%s %s", line, styles.help.Render("on "+m.state.ActiveDevice.Name))
	}
	return styles.active.Render(line)
}

// raise publishes an intent from a command goroutine so a long cycle never
// stalls the render loop.
func (m *Model) raise(intent store.Intent) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		st.SetState(func(prev store.State) store.State {
			prev.Intent = intent
			return prev
		})
		return intentRaisedMsg(intent)
	}
}

// goBack leaves track mode and refetches the browsing view in one raise.
func (m *Model) goBack() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		st.SetState(func(prev store.State) store.State {
			prev.ViewMode = store.ModeBrowse
			prev.Intent = store.Refresh()
			return prev
		})
		return intentRaisedMsg(store.Refresh())
	}
}

// waitForState blocks for the next bridged transition, the session closing,
// or context cancellation.
func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case state := <-m.updates:
			return stateChangedMsg(state)
		case <-m.closed:
			return sessionClosedMsg(shared.ErrSessionDown)
		case <-m.ctx.Done():
			return sessionClosedMsg(m.ctx.Err())
		}
	}
}
