package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsync/internal/engine"
	"github.com/desertthunder/spotsync/internal/gateway"
	"github.com/desertthunder/spotsync/internal/hass"
	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/desertthunder/spotsync/internal/store"
	"github.com/desertthunder/spotsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// pushBuffer bounds entity pushes queued between the read pump and the store.
const pushBuffer = 64

// TUI launches the interactive playback widget: host session, store, sync
// engine, and the terminal view on top.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	conf := r.config
	if conf.Hass.URL == "" || conf.Hass.Token == "" {
		return fmt.Errorf("%w: hass.url and hass.token must be set in %s", shared.ErrMissingConfig, r.configPath)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := conf.Log.Path
	if logPath == "" {
		logPath = "./tmp/spotsync.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}

	session, err := hass.Connect(ctx, conf.Hass.URL, conf.Hass.Token, hass.Options{
		Logger:    fileLogger,
		RateLimit: conf.Hass.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Home Assistant: %w", err)
	}
	defer session.Close()

	st := store.New()
	gw := gateway.New(session, st)

	eng := engine.New(st, gw, fileLogger, engine.Config{
		ViewURL:      conf.Widget.ViewURL,
		ViewLimit:    conf.Widget.ViewLimit,
		RefreshDelay: time.Duration(conf.Widget.RefreshDelayMS) * time.Millisecond,
	})
	detach := eng.Attach(ctx)
	defer detach()

	if err := r.forwardPushes(ctx, session, st, fileLogger); err != nil {
		return err
	}

	// Flags and intent in one write: the engine's first cycle initializes the
	// session and builds the initial table.
	st.SetState(func(prev store.State) store.State {
		prev.Connected = true
		prev.Configured = true
		prev.Intent = store.HassUpdated()
		return prev
	})

	model := ui.NewModel(ctx, st, session.Done())
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// forwardPushes subscribes to state_changed events and applies them to the
// store from a dedicated goroutine. Raising a cycle directly from the read
// pump would deadlock: the cycle's gateway calls await that same pump.
func (r *Runner) forwardPushes(ctx context.Context, session *hass.Session, st *store.Store, logger *log.Logger) error {
	pushes := make(chan models.EntityState, pushBuffer)

	err := session.SubscribeStates(ctx, func(entity models.EntityState) {
		select {
		case pushes <- entity:
		default:
			logger.Warn("state push dropped, buffer full", "entity", entity.EntityID)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to state changes: %w", err)
	}

	go func() {
		snapshot := make(models.HassStates)
		for {
			select {
			case entity := <-pushes:
				snapshot[entity.EntityID] = entity
				next := snapshot.Clone()
				st.SetState(func(prev store.State) store.State {
					prev.HassStates = next
					prev.Intent = store.HassUpdated()
					return prev
				})
			case <-session.Done():
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
