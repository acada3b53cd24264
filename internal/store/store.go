package store

import (
	"sync"

	"github.com/desertthunder/spotsync/internal/models"
)

// IntentKind enumerates the discrete intents the store can carry.
type IntentKind int

const (
	IntentSettled IntentKind = iota
	IntentPlayMedia
	IntentLikeMedia
	IntentHassUpdated
	IntentOpenPlaylist
	IntentRefresh
)

func (k IntentKind) String() string {
	switch k {
	case IntentSettled:
		return "settled"
	case IntentPlayMedia:
		return "play_media"
	case IntentLikeMedia:
		return "like_media"
	case IntentHassUpdated:
		return "hass_updated"
	case IntentOpenPlaylist:
		return "open_playlist"
	case IntentRefresh:
		return "refresh"
	default:
		return ""
	}
}

// Intent is the store-carried signal describing what the engine should do next.
// Target carries the variant payload: a media uri for play/like, a playlist id for open.
type Intent struct {
	Kind   IntentKind
	Target string
}

// Settled is the terminal per-cycle intent.
func Settled() Intent { return Intent{Kind: IntentSettled} }

// PlayMedia raises a play intent for the given uri.
func PlayMedia(uri string) Intent { return Intent{Kind: IntentPlayMedia, Target: uri} }

// LikeMedia raises a like intent for the given uri.
func LikeMedia(uri string) Intent { return Intent{Kind: IntentLikeMedia, Target: uri} }

// HassUpdated signals an external push from the host.
func HassUpdated() Intent { return Intent{Kind: IntentHassUpdated} }

// OpenPlaylist raises an open intent for the given playlist id.
func OpenPlaylist(id string) Intent { return Intent{Kind: IntentOpenPlaylist, Target: id} }

// Refresh requests an unconditional refetch of the current view.
func Refresh() Intent { return Intent{Kind: IntentRefresh} }

// ViewMode selects which listing the table currently displays.
type ViewMode int

const (
	ModeBrowse ViewMode = iota // top-level browsing view
	ModeTracks                 // tracks of the open playlist
)

// State is the single shared mutable record of widget state.
type State struct {
	// Readiness preconditions: a live host session and loaded configuration.
	Connected  bool
	Configured bool

	Intent Intent

	Accounts     []models.Account
	Devices      []models.Device
	CastDevices  []models.CastDevice
	ActiveTrack  *models.ActiveTrack
	ActiveDevice *models.Device
	Table        []models.TableRow
	LikedMedia   *models.LikedMedia
	ViewMode     ViewMode

	// Last host entity snapshot, kept for meaningful-change detection.
	HassStates models.HassStates

	// Side-effect mirror of the last fetched browsing view.
	View *models.ViewResponse
}

// Transition is one journal entry: the intents a single SetState moved between.
type Transition struct {
	Seq  int
	From Intent
	To   Intent
}

// Subscriber receives every state transition as (new, previous).
type Subscriber func(state, prev State)

const journalLimit = 256

// Store is an observable container for [State].
type Store struct {
	mu      sync.Mutex
	state   State
	subs    []subscription
	nextSub int
	seq     int
	journal []Transition
}

type subscription struct {
	id int
	fn Subscriber
}

// New creates an empty store with a settled intent.
func New() *Store {
	return &Store{state: State{Intent: Settled()}}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState applies fn to the previous state and replaces it with the result,
// then notifies subscribers in subscription order. The swap is atomic; the
// notifications run outside the lock so a subscriber may call SetState again
// (the nested update completes, and notifies, before this one's remaining
// subscribers run).
func (s *Store) SetState(fn func(State) State) {
	s.mu.Lock()
	prev := s.state
	next := fn(prev)
	s.state = next
	s.seq++
	s.journal = append(s.journal, Transition{Seq: s.seq, From: prev.Intent, To: next.Intent})
	if len(s.journal) > journalLimit {
		s.journal = s.journal[len(s.journal)-journalLimit:]
	}
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next, prev)
	}
}

// Subscribe registers fn for every subsequent transition and returns an
// unsubscribe func. Unsubscribing during notification is safe.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Journal returns a copy of the recorded transitions, oldest first.
func (s *Store) Journal() []Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transition, len(s.journal))
	copy(out, s.journal)
	return out
}
