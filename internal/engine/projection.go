package engine

import (
	"strings"

	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
)

// BuildTable maps a listing plus a fresh player snapshot into display rows,
// preserving input order. Exactly one listing shape must be present; anything
// else is an upstream contract violation and fails.
func BuildTable(listing models.Listing, player *models.PlayerResponse, liked *models.LikedMedia) ([]models.TableRow, error) {
	itemURI := player.ItemURI()
	contextURI := player.ContextURI()

	switch {
	case listing.Tracks != nil:
		rows := make([]models.TableRow, 0, len(listing.Tracks))
		for _, track := range listing.Tracks {
			rows = append(rows, trackRow(track, itemURI, liked))
		}
		return rows, nil

	case listing.Playlists != nil:
		rows := make([]models.TableRow, 0, len(listing.Playlists))
		for _, entry := range listing.Playlists {
			rows = append(rows, playlistRow(entry, contextURI))
		}
		return rows, nil

	default:
		return nil, shared.ErrInvalidListing
	}
}

func trackRow(track models.Track, activeItemURI string, liked *models.LikedMedia) models.TableRow {
	img := ""
	if len(track.Album.Images) > 0 {
		img = track.Album.Images[0].URL
	}

	names := make([]string, len(track.Artists))
	for i, artist := range track.Artists {
		names[i] = artist.Name
	}

	return models.TableRow{
		ID:          track.ID,
		Name:        track.Name,
		ImageURL:    img,
		Description: strings.Join(names, ", "),
		URI:         track.URI,
		IsActive:    track.URI != "" && track.URI == activeItemURI,
		Liked:       liked.Contains(track.URI),
		Action:      models.RowActionPlay,
	}
}

func playlistRow(entry models.PlaylistEntry, activeContextURI string) models.TableRow {
	active := entry.URI != "" && entry.URI == activeContextURI
	return models.TableRow{
		ID:          entry.ID,
		Name:        entry.Name,
		ImageURL:    entry.Icon,
		Description: entry.Description,
		URI:         entry.URI,
		IsActive:    active,
		Playing:     active,
		Action:      models.RowActionOpen,
	}
}

// FilterView narrows a browsing view to entries referencing a playable
// playlist or saved collection. Views may carry placeholder entries (for
// example an empty-history notice) that must not render as rows.
func FilterView(view *models.ViewResponse) *models.ViewResponse {
	filtered := &models.ViewResponse{Playlists: []models.PlaylistEntry{}}
	if view == nil {
		return filtered
	}
	for _, entry := range view.Playlists {
		if strings.Contains(entry.URI, "playlist") || strings.Contains(entry.URI, "collection") {
			filtered.Playlists = append(filtered.Playlists, entry)
		}
	}
	return filtered
}
