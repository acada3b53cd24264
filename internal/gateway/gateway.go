package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/desertthunder/spotsync/internal/store"
)

// DefaultViewURL is the browsing view fetched when none is configured.
const DefaultViewURL = "recently-played"

// DefaultViewLimit bounds browsing view entries per fetch.
const DefaultViewLimit = 20

// Gateway defines the remote data operations the sync engine consumes.
//
// Account ids are optional everywhere: an empty string tells the backend to
// use its default account.
type Gateway interface {
	FetchAccounts(ctx context.Context) (*models.AccountsResponse, error)
	FetchDevices(ctx context.Context, account string) (*models.DevicesResponse, error)
	FetchCastDevices(ctx context.Context) (*models.CastDevicesResponse, error)
	FetchPlayer(ctx context.Context, account string) (*models.PlayerResponse, error)
	FetchView(ctx context.Context, account, url string, limit int) (*models.ViewResponse, error)
	FetchTracks(ctx context.Context, account, playlistID string) (*models.TracksResponse, error)
	FetchLikedMedia(ctx context.Context, account string) (*models.LikedMedia, error)
	FetchCategories(ctx context.Context, account string) (*models.CategoriesResponse, error)
	FetchPlaylists(ctx context.Context, account, category string) (*models.PlaylistsResponse, error)
	Search(ctx context.Context, account, query, searchType string) (*models.SearchResponse, error)

	// Fire-and-forget commands.
	PlayMedia(ctx context.Context, uri, account string) error
	LikeMedia(ctx context.Context, uris []string) error
}

// Caller issues typed websocket commands. hass.Session satisfies it.
type Caller interface {
	Call(ctx context.Context, msgType string, payload map[string]any) (json.RawMessage, error)
	CallService(ctx context.Context, domain, service string, data map[string]any) error
}

// SpotcastGateway implements [Gateway] over a [Caller].
type SpotcastGateway struct {
	caller Caller
	// Optional: two read paths mirror into the store when attached.
	store *store.Store
}

var _ Gateway = (*SpotcastGateway)(nil)

// New creates a gateway over the given caller. st may be nil.
func New(caller Caller, st *store.Store) *SpotcastGateway {
	return &SpotcastGateway{caller: caller, store: st}
}

// call issues op and decodes the result into dest, wrapping failures with the
// operation name and payload.
func call[T any](ctx context.Context, g *SpotcastGateway, op string, payload map[string]any) (*T, error) {
	raw, err := g.caller.Call(ctx, op, payload)
	if err != nil {
		return nil, wrapCallError(op, payload, err)
	}

	var dest T
	if err := json.Unmarshal(raw, &dest); err != nil {
		return nil, wrapCallError(op, payload, err)
	}

	return &dest, nil
}

func wrapCallError(op string, payload map[string]any, err error) error {
	data, _ := json.Marshal(payload)
	return fmt.Errorf("%w: %s (payload: %s): %v", shared.ErrGatewayCall, op, data, err)
}

// accountPayload builds the common optional-account payload.
func accountPayload(account string, extra map[string]any) map[string]any {
	payload := make(map[string]any, len(extra)+1)
	if account != "" {
		payload["account"] = account
	}
	for k, v := range extra {
		payload[k] = v
	}
	return payload
}

// FetchAccounts lists the connected accounts and mirrors them into the store.
func (g *SpotcastGateway) FetchAccounts(ctx context.Context) (*models.AccountsResponse, error) {
	resp, err := call[models.AccountsResponse](ctx, g, "spotcast/accounts", nil)
	if err != nil {
		return nil, err
	}

	if g.store != nil {
		g.store.SetState(func(prev store.State) store.State {
			prev.Accounts = resp.Accounts
			return prev
		})
	}

	return resp, nil
}

// FetchDevices lists the account's Spotify Connect devices.
func (g *SpotcastGateway) FetchDevices(ctx context.Context, account string) (*models.DevicesResponse, error) {
	return call[models.DevicesResponse](ctx, g, "spotcast/devices", accountPayload(account, nil))
}

// FetchCastDevices lists the cast-capable devices known to the integration.
func (g *SpotcastGateway) FetchCastDevices(ctx context.Context) (*models.CastDevicesResponse, error) {
	return call[models.CastDevicesResponse](ctx, g, "spotcast/castdevices", nil)
}

// FetchPlayer returns a fresh player snapshot.
func (g *SpotcastGateway) FetchPlayer(ctx context.Context, account string) (*models.PlayerResponse, error) {
	return call[models.PlayerResponse](ctx, g, "spotcast/player", accountPayload(account, nil))
}

// FetchView returns the browsing view at url and mirrors it into the store.
func (g *SpotcastGateway) FetchView(ctx context.Context, account, url string, limit int) (*models.ViewResponse, error) {
	if url == "" {
		url = DefaultViewURL
	}
	if limit <= 0 {
		limit = DefaultViewLimit
	}

	resp, err := call[models.ViewResponse](ctx, g, "spotcast/view", accountPayload(account, map[string]any{
		"url":   url,
		"limit": limit,
	}))
	if err != nil {
		return nil, err
	}

	if g.store != nil {
		g.store.SetState(func(prev store.State) store.State {
			prev.View = resp
			return prev
		})
	}

	return resp, nil
}

// FetchTracks returns the full track listing of a playlist.
func (g *SpotcastGateway) FetchTracks(ctx context.Context, account, playlistID string) (*models.TracksResponse, error) {
	return call[models.TracksResponse](ctx, g, "spotcast/tracks", accountPayload(account, map[string]any{
		"playlistId": playlistID,
	}))
}

// FetchLikedMedia returns the account's liked media set.
func (g *SpotcastGateway) FetchLikedMedia(ctx context.Context, account string) (*models.LikedMedia, error) {
	return call[models.LikedMedia](ctx, g, "spotcast/liked_media", accountPayload(account, nil))
}

// FetchCategories returns the browse categories.
func (g *SpotcastGateway) FetchCategories(ctx context.Context, account string) (*models.CategoriesResponse, error) {
	return call[models.CategoriesResponse](ctx, g, "spotcast/categories", accountPayload(account, nil))
}

// FetchPlaylists returns the playlists of a browse category.
func (g *SpotcastGateway) FetchPlaylists(ctx context.Context, account, category string) (*models.PlaylistsResponse, error) {
	return call[models.PlaylistsResponse](ctx, g, "spotcast/playlists", accountPayload(account, map[string]any{
		"category": category,
	}))
}

// Search queries the backend for playlists or tracks.
func (g *SpotcastGateway) Search(ctx context.Context, account, query, searchType string) (*models.SearchResponse, error) {
	if searchType == "" {
		searchType = "playlist"
	}
	return call[models.SearchResponse](ctx, g, "spotcast/search", accountPayload(account, map[string]any{
		"query":      query,
		"searchType": searchType,
	}))
}

// PlayMedia starts playback of uri on the account's active device.
// Fire-and-forget: the player does not confirm synchronously.
func (g *SpotcastGateway) PlayMedia(ctx context.Context, uri, account string) error {
	data := map[string]any{"uri": uri}
	if account != "" {
		data["account"] = account
	}
	if err := g.caller.CallService(ctx, "spotcast", "play_media", data); err != nil {
		return wrapCallError("spotcast.play_media", data, err)
	}
	return nil
}

// LikeMedia saves the given uris to the user's liked media. Fire-and-forget.
func (g *SpotcastGateway) LikeMedia(ctx context.Context, uris []string) error {
	data := map[string]any{"uris": uris}
	if err := g.caller.CallService(ctx, "spotcast", "like_media", data); err != nil {
		return wrapCallError("spotcast.like_media", data, err)
	}
	return nil
}
