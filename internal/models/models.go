// package models defines the data model for the media widget sync core
package models

import "slices"

// Account represents a Spotify account known to the Spotcast integration.
type Account struct {
	EntryID   string `json:"entry_id"`
	SpotifyID string `json:"spotify_id"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

// AccountsResponse is the payload of a spotcast/accounts call.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// DefaultAccount returns the account flagged as default, or nil when none is.
func (r *AccountsResponse) DefaultAccount() *Account {
	if r == nil {
		return nil
	}
	for i := range r.Accounts {
		if r.Accounts[i].IsDefault {
			return &r.Accounts[i]
		}
	}
	return nil
}

// Image represents album or playlist art.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a Spotify artist reference on a track.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album represents a Spotify album reference on a track.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
	URI    string  `json:"uri"`
}

// Track represents a Spotify track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms"`
	URI        string   `json:"uri"`
}

// PlaylistEntry represents a playlist-like entry of a browsing view:
// a playlist, a saved collection, or a placeholder the view filter discards.
type PlaylistEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// ViewResponse is the payload of a spotcast/view call.
type ViewResponse struct {
	Playlists []PlaylistEntry `json:"playlists"`
}

// TracksResponse is the payload of a spotcast/tracks call.
type TracksResponse struct {
	Tracks []Track `json:"tracks"`
}

// Device represents a Spotify Connect playback device.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent int    `json:"volume_percent"`
}

// DevicesResponse is the payload of a spotcast/devices call.
type DevicesResponse struct {
	Devices []Device `json:"devices"`
}

// CastDevice represents a cast-capable device discovered by the integration.
type CastDevice struct {
	UUID         string `json:"uuid"`
	FriendlyName string `json:"friendly_name"`
	Model        string `json:"model_name"`
}

// CastDevicesResponse is the payload of a spotcast/castdevices call.
type CastDevicesResponse struct {
	Devices []CastDevice `json:"devices"`
}

// PlayerContext identifies the browsing container currently playing, e.g. a playlist.
type PlayerContext struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

// PlayerState is the inner state of a player snapshot.
type PlayerState struct {
	Item       *Track         `json:"item"`
	Context    *PlayerContext `json:"context"`
	Device     *Device        `json:"device"`
	IsPlaying  bool           `json:"is_playing"`
	ProgressMS int            `json:"progress_ms"`
}

// PlayerResponse is the payload of a spotcast/player call.
//
// Derived fresh from the gateway on every settle, never cached across settles.
type PlayerResponse struct {
	State PlayerState `json:"state"`
}

// ItemURI returns the uri of the currently playing item, or "".
func (p *PlayerResponse) ItemURI() string {
	if p == nil || p.State.Item == nil {
		return ""
	}
	return p.State.Item.URI
}

// ContextURI returns the uri of the currently playing context, or "".
func (p *PlayerResponse) ContextURI() string {
	if p == nil || p.State.Context == nil {
		return ""
	}
	return p.State.Context.URI
}

// ActiveTrack pairs the playing item with the play/pause flag for the store.
type ActiveTrack struct {
	Track     *Track `json:"track"`
	IsPlaying bool   `json:"is_playing"`
}

// LikedMedia is the payload of a spotcast/liked_media call: a total count and
// the ordered uris of liked items.
type LikedMedia struct {
	Total  int      `json:"total"`
	Tracks []string `json:"tracks"`
}

// Contains reports whether uri is in the liked set.
func (l *LikedMedia) Contains(uri string) bool {
	return l != nil && slices.Contains(l.Tracks, uri)
}

// WithLiked returns a copy of the set with uri appended and the total incremented.
// The receiver is never mutated; rows hold the previous slice.
func (l *LikedMedia) WithLiked(uri string) *LikedMedia {
	next := LikedMedia{Total: 1, Tracks: []string{uri}}
	if l != nil {
		next.Total = l.Total + 1
		next.Tracks = append(append([]string{}, l.Tracks...), uri)
	}
	return &next
}

// Category represents a browse category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CategoriesResponse is the payload of a spotcast/categories call.
type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}

// PlaylistsResponse is the payload of a spotcast/playlists call.
type PlaylistsResponse struct {
	Playlists []PlaylistEntry `json:"playlists"`
}

// SearchResponse is the payload of a spotcast/search call.
type SearchResponse struct {
	Playlists []PlaylistEntry `json:"playlists"`
	Tracks    []Track         `json:"tracks"`
}
