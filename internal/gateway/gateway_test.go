package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/desertthunder/spotsync/internal/store"
)

// scriptedCaller returns canned raw payloads keyed by message type.
type scriptedCaller struct {
	results  map[string]string
	err      error
	calls    []string
	services []string
	payloads []map[string]any
}

func (c *scriptedCaller) Call(ctx context.Context, msgType string, payload map[string]any) (json.RawMessage, error) {
	c.calls = append(c.calls, msgType)
	c.payloads = append(c.payloads, payload)
	if c.err != nil {
		return nil, c.err
	}
	raw, ok := c.results[msgType]
	if !ok {
		raw = "{}"
	}
	return json.RawMessage(raw), nil
}

func (c *scriptedCaller) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	c.services = append(c.services, domain+"."+service)
	c.payloads = append(c.payloads, data)
	return c.err
}

func TestSpotcastGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("FetchAccounts Mirrors Into Store", func(t *testing.T) {
		caller := &scriptedCaller{results: map[string]string{
			"spotcast/accounts": `{"accounts":[{"entry_id":"e1","spotify_id":"u1","is_default":true}]}`,
		}}
		st := store.New()
		g := New(caller, st)

		resp, err := g.FetchAccounts(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if def := resp.DefaultAccount(); def == nil || def.EntryID != "e1" {
			t.Errorf("expected default account e1, got %+v", def)
		}

		if got := st.State().Accounts; len(got) != 1 || got[0].EntryID != "e1" {
			t.Errorf("expected accounts mirrored into store, got %+v", got)
		}
	})

	t.Run("FetchView", func(t *testing.T) {
		t.Run("Applies Defaults And Mirrors", func(t *testing.T) {
			caller := &scriptedCaller{results: map[string]string{
				"spotcast/view": `{"playlists":[{"id":"p1","uri":"spotify:playlist:1"}]}`,
			}}
			st := store.New()
			g := New(caller, st)

			resp, err := g.FetchView(ctx, "", "", 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(resp.Playlists) != 1 {
				t.Fatalf("expected one playlist, got %d", len(resp.Playlists))
			}

			payload := caller.payloads[0]
			if payload["url"] != DefaultViewURL {
				t.Errorf("expected default url, got %v", payload["url"])
			}
			if payload["limit"] != DefaultViewLimit {
				t.Errorf("expected default limit, got %v", payload["limit"])
			}
			if _, ok := payload["account"]; ok {
				t.Error("empty account must be omitted from payload")
			}

			if st.State().View == nil {
				t.Error("expected view mirrored into store")
			}
		})

		t.Run("Passes Account Through", func(t *testing.T) {
			caller := &scriptedCaller{}
			g := New(caller, nil)

			if _, err := g.FetchView(ctx, "e1", "made-for-you", 5); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			payload := caller.payloads[0]
			if payload["account"] != "e1" || payload["url"] != "made-for-you" || payload["limit"] != 5 {
				t.Errorf("unexpected payload %+v", payload)
			}
		})
	})

	t.Run("FetchTracks Sends Playlist ID", func(t *testing.T) {
		caller := &scriptedCaller{results: map[string]string{
			"spotcast/tracks": `{"tracks":[{"id":"t1","uri":"spotify:track:1"}]}`,
		}}
		g := New(caller, nil)

		resp, err := g.FetchTracks(ctx, "e1", "p9")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(resp.Tracks) != 1 || resp.Tracks[0].ID != "t1" {
			t.Errorf("unexpected tracks %+v", resp.Tracks)
		}

		if caller.payloads[0]["playlistId"] != "p9" {
			t.Errorf("expected playlistId p9, got %v", caller.payloads[0]["playlistId"])
		}
	})

	t.Run("Errors Wrap Operation And Payload", func(t *testing.T) {
		caller := &scriptedCaller{err: errors.New("boom")}
		g := New(caller, nil)

		_, err := g.FetchTracks(ctx, "e1", "p9")
		if !errors.Is(err, shared.ErrGatewayCall) {
			t.Fatalf("expected ErrGatewayCall, got %v", err)
		}
		for _, want := range []string{"spotcast/tracks", "p9", "boom"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("expected error to contain %q, got %v", want, err)
			}
		}
	})

	t.Run("Malformed Result Fails", func(t *testing.T) {
		caller := &scriptedCaller{results: map[string]string{
			"spotcast/player": `{"state":`,
		}}
		g := New(caller, nil)

		if _, err := g.FetchPlayer(ctx, ""); !errors.Is(err, shared.ErrGatewayCall) {
			t.Errorf("expected ErrGatewayCall for malformed result, got %v", err)
		}
	})

	t.Run("PlayMedia Issues Service Call", func(t *testing.T) {
		caller := &scriptedCaller{}
		g := New(caller, nil)

		if err := g.PlayMedia(ctx, "spotify:track:1", "e1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(caller.services) != 1 || caller.services[0] != "spotcast.play_media" {
			t.Errorf("unexpected service calls %v", caller.services)
		}
		if caller.payloads[0]["uri"] != "spotify:track:1" || caller.payloads[0]["account"] != "e1" {
			t.Errorf("unexpected service data %+v", caller.payloads[0])
		}
	})

	t.Run("LikeMedia Issues Service Call", func(t *testing.T) {
		caller := &scriptedCaller{}
		g := New(caller, nil)

		if err := g.LikeMedia(ctx, []string{"spotify:track:1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(caller.services) != 1 || caller.services[0] != "spotcast.like_media" {
			t.Errorf("unexpected service calls %v", caller.services)
		}
	})

	t.Run("Search Defaults To Playlist Type", func(t *testing.T) {
		caller := &scriptedCaller{}
		g := New(caller, nil)

		if _, err := g.Search(ctx, "", "lofi", ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if caller.payloads[0]["searchType"] != "playlist" {
			t.Errorf("expected searchType playlist, got %v", caller.payloads[0]["searchType"])
		}
	})
}
