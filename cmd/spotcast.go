package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotsync/internal/engine"
	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Accounts lists the spotcast accounts configured on the host.
func (r *Runner) Accounts(ctx context.Context, cmd *cli.Command) error {
	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	accounts, err := gw.FetchAccounts(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(accounts, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d accounts:\n\n", len(accounts.Accounts))
	for i, account := range accounts.Accounts {
		marker := ""
		if account.IsDefault {
			marker = " (default)"
		}
		r.writePlain("%d. %s%s\n", i+1, account.Name, marker)
		r.writePlain("   Entry ID: %s\n", account.EntryID)
		r.writePlain("   Spotify ID: %s\n", account.SpotifyID)
		if account.Country != "" {
			r.writePlain("   Country: %s\n", account.Country)
		}
		r.writePlain("\n")
	}

	return nil
}

// Devices lists Spotify Connect devices, plus cast devices with --cast.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	devices, err := gw.FetchDevices(ctx, cmd.String("account"))
	if err != nil {
		return err
	}

	var casts *models.CastDevicesResponse
	if cmd.Bool("cast") {
		if casts, err = gw.FetchCastDevices(ctx); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		payload := map[string]any{"devices": devices.Devices}
		if casts != nil {
			payload["cast_devices"] = casts.Devices
		}
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d devices:\n\n", len(devices.Devices))
	for i, device := range devices.Devices {
		marker := ""
		if device.IsActive {
			marker = " (active)"
		}
		r.writePlain("%d. %s%s\n", i+1, device.Name, marker)
		r.writePlain("   Type: %s\n", device.Type)
		r.writePlain("   Volume: %d%%\n\n", device.VolumePercent)
	}

	if casts != nil {
		r.writePlain("Found %d cast devices:\n\n", len(casts.Devices))
		for i, device := range casts.Devices {
			r.writePlain("%d. %s (%s)\n", i+1, device.FriendlyName, device.Model)
		}
	}

	return nil
}

// Player shows the current playback snapshot.
func (r *Runner) Player(ctx context.Context, cmd *cli.Command) error {
	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	player, err := gw.FetchPlayer(ctx, cmd.String("account"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(player, cmd.Bool("pretty"))
	}

	state := player.State
	if state.Item == nil {
		r.writePlain("Nothing playing\n")
		return nil
	}

	verb := "Paused"
	if state.IsPlaying {
		verb = "Playing"
	}

	names := make([]string, len(state.Item.Artists))
	for i, artist := range state.Item.Artists {
		names[i] = artist.Name
	}

	r.writePlain("%s: %s\n", verb, state.Item.Name)
	if len(names) > 0 {
		r.writePlain("Artists: %s\n", strings.Join(names, ", "))
	}
	if state.Item.Album.Name != "" {
		r.writePlain("Album: %s\n", state.Item.Album.Name)
	}
	r.writePlain("Progress: %s / %s\n", shared.FormatDuration(state.ProgressMS), shared.FormatDuration(state.Item.DurationMS))
	if state.Device != nil {
		r.writePlain("Device: %s\n", state.Device.Name)
	}

	return nil
}

// View lists a browsing view, filtered to playable entries unless --all is set.
func (r *Runner) View(ctx context.Context, cmd *cli.Command) error {
	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	url := cmd.String("url")
	if url == "" {
		url = r.config.Widget.ViewURL
	}
	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Widget.ViewLimit
	}

	view, err := gw.FetchView(ctx, cmd.String("account"), url, limit)
	if err != nil {
		return err
	}
	if !cmd.Bool("all") {
		view = engine.FilterView(view)
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d entries in %s:\n\n", len(view.Playlists), url)
	r.writeEntries(view.Playlists)
	return nil
}

// Categories lists the browse categories.
func (r *Runner) Categories(ctx context.Context, cmd *cli.Command) error {
	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	categories, err := gw.FetchCategories(ctx, cmd.String("account"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d categories:\n\n", len(categories.Categories))
	for i, category := range categories.Categories {
		r.writePlain("%d. %s (%s)\n", i+1, category.Name, category.ID)
	}
	return nil
}

// CategoryPlaylists lists the playlists of one browse category.
func (r *Runner) CategoryPlaylists(ctx context.Context, cmd *cli.Command) error {
	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	playlists, err := gw.FetchPlaylists(ctx, cmd.String("account"), cmd.String("category"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists.Playlists))
	r.writeEntries(playlists.Playlists)
	return nil
}

// Search queries the catalog for tracks or playlists.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	results, err := gw.Search(ctx, cmd.String("account"), query, cmd.String("type"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if len(results.Tracks) > 0 {
		r.writePlain("Tracks:\n\n")
		for i, track := range results.Tracks {
			names := make([]string, len(track.Artists))
			for n, artist := range track.Artists {
				names[n] = artist.Name
			}
			r.writePlain("%d. %s - %s\n", i+1, strings.Join(names, ", "), track.Name)
			r.writePlain("   URI: %s\n", track.URI)
		}
		r.writePlain("\n")
	}

	if len(results.Playlists) > 0 {
		r.writePlain("Playlists:\n\n")
		r.writeEntries(results.Playlists)
	}

	if len(results.Tracks) == 0 && len(results.Playlists) == 0 {
		r.writePlain("No results for %q\n", query)
	}

	return nil
}

// Play starts playback of a uri on the account's active device.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	uri := cmd.StringArg("uri")
	if uri == "" {
		return fmt.Errorf("%w: a Spotify URI is required", shared.ErrMissingArgument)
	}

	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	if err := gw.PlayMedia(ctx, uri, cmd.String("account")); err != nil {
		return err
	}

	r.writePlain("✓ Play command sent for %s\n", uri)
	return nil
}

// Like saves a track to the library.
func (r *Runner) Like(ctx context.Context, cmd *cli.Command) error {
	uri := cmd.StringArg("uri")
	if uri == "" {
		return fmt.Errorf("%w: a Spotify URI is required", shared.ErrMissingArgument)
	}

	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	if err := gw.LikeMedia(ctx, []string{uri}); err != nil {
		return err
	}

	r.writePlain("✓ Saved %s\n", uri)
	return nil
}

func (r *Runner) writeEntries(entries []models.PlaylistEntry) {
	for i, entry := range entries {
		r.writePlain("%d. %s\n", i+1, entry.Name)
		if entry.Description != "" {
			r.writePlain("   Description: %s\n", entry.Description)
		}
		r.writePlain("   ID: %s\n", entry.ID)
		r.writePlain("   URI: %s\n\n", entry.URI)
	}
}
