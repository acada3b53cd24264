package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotsync/internal/formatter"
	"github.com/desertthunder/spotsync/internal/gateway"
	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export fetches a playlist's tracks and writes them in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")
	format := cmd.String("format")
	output := cmd.String("output")
	account := cmd.String("account")

	gw, closer, err := r.openGateway(ctx)
	if err != nil {
		return err
	}
	defer closer()

	tracks, err := gw.FetchTracks(ctx, account, playlistID)
	if err != nil {
		return err
	}

	playlist := r.lookupEntry(ctx, gw, account, playlistID)

	r.logger.Infof("exporting playlist %v with %v tracks", playlistID, len(tracks.Tracks))

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(playlist, tracks.Tracks, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Tracks exported to %s\n", result.TracksFile)
		r.writePlain("✓ Metadata exported to %s\n", result.MetadataFile)

	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(playlist, tracks.Tracks, output, playlist.Icon)
		if err != nil {
			return err
		}
		r.writePlain("✓ Playlist exported to %s\n", result.Directory)
		for _, file := range result.Files {
			r.writePlain("  %s\n", file)
		}

	case "text", "txt":
		path, err := formatter.WriteTextExport(playlist, tracks.Tracks, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Tracks exported to %s\n", path)

	case "json":
		data, err := shared.MarshalJSON(map[string]any{"playlist": playlist, "tracks": tracks.Tracks}, true)
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}
		if output == "" {
			output = fmt.Sprintf("%s.json", playlist.ID)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		r.writePlain("✓ Playlist exported to %s\n", output)

	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	return nil
}

// lookupEntry resolves playlist metadata from the browsing view. Playlists
// outside the view still export, with the id standing in for the name.
func (r *Runner) lookupEntry(ctx context.Context, gw gateway.Gateway, account, playlistID string) models.PlaylistEntry {
	view, err := gw.FetchView(ctx, account, r.config.Widget.ViewURL, r.config.Widget.ViewLimit)
	if err == nil {
		for _, entry := range view.Playlists {
			if entry.ID == playlistID {
				return entry
			}
		}
	}
	return models.PlaylistEntry{ID: playlistID, Name: playlistID}
}
