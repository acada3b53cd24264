package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsync/internal/gateway"
	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/desertthunder/spotsync/internal/store"
)

// Config tunes a sync engine.
type Config struct {
	// Browsing view location key, e.g. "recently-played".
	ViewURL string
	// Max browsing view entries per fetch.
	ViewLimit int
	// Wait between issuing a play command and refreshing player state.
	// The backend does not push a confirmation for this transition.
	RefreshDelay time.Duration
}

// Engine consumes store intents, drives the gateway, and settles results back
// into the store exactly once per cycle.
type Engine struct {
	store *store.Store
	gw    gateway.Gateway
	log   *log.Logger
	conf  Config

	// Session context, private to the engine.
	ready          bool
	account        *models.Account
	activePlaylist string
	lastPlayTarget string

	// Single-flight guard: one cycle at a time, later intents are rejected.
	busy atomic.Bool
}

// New creates an engine over the given store and gateway.
func New(st *store.Store, gw gateway.Gateway, logger *log.Logger, conf Config) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if conf.ViewURL == "" {
		conf.ViewURL = gateway.DefaultViewURL
	}
	if conf.ViewLimit <= 0 {
		conf.ViewLimit = gateway.DefaultViewLimit
	}

	return &Engine{store: st, gw: gw, log: logger, conf: conf}
}

// Attach subscribes the engine to the store and returns the unsubscribe func.
// ctx bounds the gateway calls of every subsequent cycle.
func (e *Engine) Attach(ctx context.Context) func() {
	return e.store.Subscribe(func(state, prev store.State) {
		e.handle(ctx, state, prev)
	})
}

// handle is the per-transition callback: it filters noise, enforces
// single-flight, runs startup, and dispatches the active intent.
func (e *Engine) handle(ctx context.Context, state, prev store.State) {
	if state.Intent.Kind == store.IntentSettled || !state.Connected || !state.Configured {
		return
	}
	if state.Intent == prev.Intent && prev.Connected && prev.Configured {
		// renotification without an intent transition (mirror writes). An
		// intent raised before readiness still dispatches on the write that
		// flips the readiness flags.
		return
	}
	if !e.busy.CompareAndSwap(false, true) {
		e.log.Warn("intent rejected, cycle pending", "intent", state.Intent.Kind.String())
		return
	}
	defer e.busy.Store(false)

	logger := shared.WithLogger(e.log, "cycle", shared.GenerateID()[:8], "intent", state.Intent.Kind.String())

	if err := e.startup(ctx, logger); err != nil {
		logger.Error("startup failed, session left uninitialized", "error", err)
		e.settle(logger)
		return
	}

	switch state.Intent.Kind {
	case store.IntentPlayMedia:
		e.playMedia(ctx, logger, state.Intent.Target)
	case store.IntentLikeMedia:
		e.likeMedia(ctx, logger, state.Intent.Target)
	case store.IntentHassUpdated:
		e.hassUpdated(ctx, logger, state, prev)
	case store.IntentOpenPlaylist:
		e.openPlaylist(ctx, logger, state.Intent.Target)
	case store.IntentRefresh:
		e.refresh(ctx, logger, state.ViewMode)
	}
}

// startup initializes the session context once. Idempotent: a live session
// returns immediately with no side effects. Any fetch failure aborts without
// caching a partial session, so the next intent retries from scratch.
func (e *Engine) startup(ctx context.Context, logger *log.Logger) error {
	if e.ready {
		return nil
	}

	accounts, err := e.gw.FetchAccounts(ctx)
	if err != nil {
		return err
	}
	e.account = accounts.DefaultAccount()
	if e.account == nil {
		logger.Warn("no default account flagged, backend default applies")
	}

	acct := e.accountID()

	devices, err := e.gw.FetchDevices(ctx, acct)
	if err != nil {
		return err
	}
	casts, err := e.gw.FetchCastDevices(ctx)
	if err != nil {
		return err
	}

	liked, err := e.gw.FetchLikedMedia(ctx, acct)
	if err != nil {
		return err
	}

	player, err := e.gw.FetchPlayer(ctx, acct)
	if err != nil {
		return err
	}

	view, err := e.gw.FetchView(ctx, acct, e.conf.ViewURL, e.conf.ViewLimit)
	if err != nil {
		return err
	}
	filtered := FilterView(view)

	rows, err := BuildTable(models.ViewListing(filtered), player, liked)
	if err != nil {
		return err
	}

	e.store.SetState(func(prev store.State) store.State {
		prev.Accounts = accounts.Accounts
		prev.Devices = devices.Devices
		prev.CastDevices = casts.Devices
		prev.ActiveTrack = &models.ActiveTrack{Track: player.State.Item, IsPlaying: player.State.IsPlaying}
		prev.ActiveDevice = player.State.Device
		prev.LikedMedia = liked
		prev.Table = rows
		prev.ViewMode = store.ModeBrowse
		prev.Intent = store.Settled()
		return prev
	})

	e.ready = true
	logger.Info("session initialized", "account", acct, "rows", len(rows))
	return nil
}

// playMedia issues a fire-and-forget play command, then refreshes after the
// configured delay. No-ops on an empty target or the target already acted on.
func (e *Engine) playMedia(ctx context.Context, logger *log.Logger, target string) {
	if target == "" || target == e.lastPlayTarget {
		return
	}

	if err := e.gw.PlayMedia(ctx, target, e.accountID()); err != nil {
		logger.Error("play command failed", "uri", target, "error", err)
		e.settle(logger)
		return
	}
	e.lastPlayTarget = target

	// The play transition is not confirmed by a push; wait it out.
	time.Sleep(e.conf.RefreshDelay)
	e.refresh(ctx, logger, e.store.State().ViewMode)
}

// likeMedia issues a fire-and-forget like and optimistically appends the uri
// to the liked set. Already-liked targets are silent no-ops with zero writes.
// The guard reads the current store set, not the raise-time snapshot, which
// predates the startup write on a first cycle.
func (e *Engine) likeMedia(ctx context.Context, logger *log.Logger, target string) {
	if target == "" || e.store.State().LikedMedia.Contains(target) {
		return
	}

	if err := e.gw.LikeMedia(ctx, []string{target}); err != nil {
		logger.Error("like command failed", "uri", target, "error", err)
		e.settle(logger)
		return
	}

	e.store.SetState(func(prev store.State) store.State {
		prev.LikedMedia = prev.LikedMedia.WithLiked(target)
		prev.Intent = store.Settled()
		return prev
	})
}

// hassUpdated refreshes player and table state when the host push actually
// touched the account's player entities. Noise produces zero store writes.
func (e *Engine) hassUpdated(ctx context.Context, logger *log.Logger, state, prev store.State) {
	spotifyID := ""
	if e.account != nil {
		spotifyID = e.account.SpotifyID
	}

	if !mediaStateChanged(state.HassStates, prev.HassStates, spotifyID) {
		return
	}

	e.refresh(ctx, logger, state.ViewMode)
}

// openPlaylist switches to track display, loads the playlist, and records it
// as the session's active playlist for later track-mode refreshes.
func (e *Engine) openPlaylist(ctx context.Context, logger *log.Logger, playlistID string) {
	acct := e.accountID()

	player, err := e.gw.FetchPlayer(ctx, acct)
	if err != nil {
		logger.Error("player fetch failed", "error", err)
		e.settle(logger)
		return
	}

	tracks, err := e.gw.FetchTracks(ctx, acct, playlistID)
	if err != nil {
		logger.Error("track fetch failed", "playlist", playlistID, "error", err)
		e.settle(logger)
		return
	}

	rows, err := BuildTable(models.TrackListing(tracks), player, e.store.State().LikedMedia)
	if err != nil {
		logger.Error("projection failed", "playlist", playlistID, "error", err)
		e.settle(logger)
		return
	}

	e.store.SetState(func(prev store.State) store.State {
		prev.ViewMode = store.ModeTracks
		prev.ActiveTrack = &models.ActiveTrack{Track: player.State.Item, IsPlaying: player.State.IsPlaying}
		prev.ActiveDevice = player.State.Device
		prev.Table = rows
		prev.Intent = store.Settled()
		return prev
	})

	e.activePlaylist = playlistID
}

// refresh refetches the player plus whichever listing the current view mode
// displays, rebuilds the projection, and settles in one write.
func (e *Engine) refresh(ctx context.Context, logger *log.Logger, mode store.ViewMode) {
	acct := e.accountID()

	player, err := e.gw.FetchPlayer(ctx, acct)
	if err != nil {
		logger.Error("player fetch failed", "error", err)
		e.settle(logger)
		return
	}

	var listing models.Listing
	if mode == store.ModeBrowse {
		view, err := e.gw.FetchView(ctx, acct, e.conf.ViewURL, e.conf.ViewLimit)
		if err != nil {
			logger.Error("view fetch failed", "error", err)
			e.settle(logger)
			return
		}
		listing = models.ViewListing(FilterView(view))
		// Back at the browsing view there is no open playlist.
		e.activePlaylist = ""
	} else {
		tracks, err := e.gw.FetchTracks(ctx, acct, e.activePlaylist)
		if err != nil {
			logger.Error("track fetch failed", "playlist", e.activePlaylist, "error", err)
			e.settle(logger)
			return
		}
		listing = models.TrackListing(tracks)
	}

	rows, err := BuildTable(listing, player, e.store.State().LikedMedia)
	if err != nil {
		logger.Error("projection failed", "error", err)
		e.settle(logger)
		return
	}

	e.store.SetState(func(prev store.State) store.State {
		prev.ActiveTrack = &models.ActiveTrack{Track: player.State.Item, IsPlaying: player.State.IsPlaying}
		prev.ActiveDevice = player.State.Device
		prev.Table = rows
		prev.Intent = store.Settled()
		return prev
	})
}

// settle returns the store to the settled intent without data writes. Used on
// cycle failure so the machine is never left stuck on a pending intent.
func (e *Engine) settle(logger *log.Logger) {
	logger.Debug("settling without data writes")
	e.store.SetState(func(prev store.State) store.State {
		prev.Intent = store.Settled()
		return prev
	})
}

func (e *Engine) accountID() string {
	if e.account == nil {
		return ""
	}
	return e.account.EntryID
}
