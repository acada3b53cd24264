package hass

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// fakeHost runs a minimal Home Assistant websocket endpoint for tests.
// handle receives each post-auth message and may write replies on conn.
func fakeHost(t *testing.T, token string, handle func(conn *websocket.Conn, msg map[string]any)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		if err := conn.WriteJSON(map[string]any{"type": "auth_required", "ha_version": "2024.1.0"}); err != nil {
			return
		}

		var auth map[string]any
		if err := conn.ReadJSON(&auth); err != nil {
			return
		}
		if auth["access_token"] != token {
			conn.WriteJSON(map[string]any{"type": "auth_invalid", "message": "bad token"})
			return
		}
		if err := conn.WriteJSON(map[string]any{"type": "auth_ok"}); err != nil {
			return
		}

		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			handle(conn, msg)
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func resultFor(msg map[string]any, result any) map[string]any {
	return map[string]any{
		"id":      msg["id"],
		"type":    "result",
		"success": true,
		"result":  result,
	}
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Connect", func(t *testing.T) {
		t.Run("Handshake Succeeds", func(t *testing.T) {
			srv := fakeHost(t, "tok", func(conn *websocket.Conn, msg map[string]any) {})
			defer srv.Close()

			s, err := Connect(ctx, wsURL(srv), "tok", Options{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer s.Close()
		})

		t.Run("Rejects Bad Token", func(t *testing.T) {
			srv := fakeHost(t, "tok", func(conn *websocket.Conn, msg map[string]any) {})
			defer srv.Close()

			_, err := Connect(ctx, wsURL(srv), "wrong", Options{})
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("Rejects Empty Token", func(t *testing.T) {
			if _, err := Connect(ctx, "ws://unused", "", Options{}); !errors.Is(err, shared.ErrMissingToken) {
				t.Errorf("expected ErrMissingToken, got %v", err)
			}
		})
	})

	t.Run("Call", func(t *testing.T) {
		t.Run("Correlates Result By ID", func(t *testing.T) {
			srv := fakeHost(t, "tok", func(conn *websocket.Conn, msg map[string]any) {
				if msg["type"] == "spotcast/accounts" {
					conn.WriteJSON(resultFor(msg, map[string]any{
						"accounts": []map[string]any{{"entry_id": "e1", "is_default": true}},
					}))
				}
			})
			defer srv.Close()

			s, err := Connect(ctx, wsURL(srv), "tok", Options{})
			if err != nil {
				t.Fatalf("connect failed: %v", err)
			}
			defer s.Close()

			raw, err := s.Call(ctx, "spotcast/accounts", nil)
			if err != nil {
				t.Fatalf("call failed: %v", err)
			}

			var resp models.AccountsResponse
			if err := json.Unmarshal(raw, &resp); err != nil {
				t.Fatalf("failed to decode result: %v", err)
			}
			if len(resp.Accounts) != 1 || resp.Accounts[0].EntryID != "e1" {
				t.Errorf("unexpected accounts %+v", resp.Accounts)
			}
		})

		t.Run("Surfaces Host Error", func(t *testing.T) {
			srv := fakeHost(t, "tok", func(conn *websocket.Conn, msg map[string]any) {
				conn.WriteJSON(map[string]any{
					"id":      msg["id"],
					"type":    "result",
					"success": false,
					"error":   map[string]any{"code": "unknown_command", "message": "nope"},
				})
			})
			defer srv.Close()

			s, err := Connect(ctx, wsURL(srv), "tok", Options{})
			if err != nil {
				t.Fatalf("connect failed: %v", err)
			}
			defer s.Close()

			if _, err := s.Call(ctx, "spotcast/bogus", nil); err == nil {
				t.Error("expected error from failed result")
			} else if !strings.Contains(err.Error(), "unknown_command") {
				t.Errorf("expected host error code in message, got %v", err)
			}
		})

		t.Run("Context Cancellation", func(t *testing.T) {
			srv := fakeHost(t, "tok", func(conn *websocket.Conn, msg map[string]any) {
				// never reply
			})
			defer srv.Close()

			s, err := Connect(ctx, wsURL(srv), "tok", Options{})
			if err != nil {
				t.Fatalf("connect failed: %v", err)
			}
			defer s.Close()

			cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()

			if _, err := s.Call(cctx, "spotcast/player", nil); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected deadline exceeded, got %v", err)
			}
		})
	})

	t.Run("Fire Does Not Await Result", func(t *testing.T) {
		got := make(chan map[string]any, 1)
		srv := fakeHost(t, "tok", func(conn *websocket.Conn, msg map[string]any) {
			if msg["type"] == "call_service" {
				got <- msg
				conn.WriteJSON(resultFor(msg, nil))
			}
		})
		defer srv.Close()

		s, err := Connect(ctx, wsURL(srv), "tok", Options{})
		if err != nil {
			t.Fatalf("connect failed: %v", err)
		}
		defer s.Close()

		if err := s.CallService(ctx, "spotcast", "start", map[string]any{"uri": "spotify:track:1"}); err != nil {
			t.Fatalf("fire failed: %v", err)
		}

		select {
		case msg := <-got:
			if msg["domain"] != "spotcast" || msg["service"] != "start" {
				t.Errorf("unexpected service call %+v", msg)
			}
		case <-time.After(time.Second):
			t.Fatal("host never received service call")
		}
	})

	t.Run("SubscribeStates Delivers Pushes", func(t *testing.T) {
		srv := fakeHost(t, "tok", func(conn *websocket.Conn, msg map[string]any) {
			if msg["type"] == "subscribe_events" {
				conn.WriteJSON(resultFor(msg, nil))
				conn.WriteJSON(map[string]any{
					"id":   msg["id"],
					"type": "event",
					"event": map[string]any{
						"event_type": "state_changed",
						"data": map[string]any{
							"entity_id": "media_player.spotify_a",
							"new_state": map[string]any{
								"entity_id":  "media_player.spotify_a",
								"state":      "playing",
								"attributes": map[string]any{"media_title": "Song"},
							},
						},
					},
				})
			}
		})
		defer srv.Close()

		s, err := Connect(ctx, wsURL(srv), "tok", Options{})
		if err != nil {
			t.Fatalf("connect failed: %v", err)
		}
		defer s.Close()

		states := make(chan models.EntityState, 1)
		if err := s.SubscribeStates(ctx, func(st models.EntityState) { states <- st }); err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}

		select {
		case st := <-states:
			if st.EntityID != "media_player.spotify_a" || st.State != "playing" {
				t.Errorf("unexpected state %+v", st)
			}
		case <-time.After(time.Second):
			t.Fatal("state push never delivered")
		}
	})

	t.Run("Pending Calls Fail On Teardown", func(t *testing.T) {
		srv := fakeHost(t, "tok", func(conn *websocket.Conn, msg map[string]any) {
			conn.Close()
		})
		defer srv.Close()

		s, err := Connect(ctx, wsURL(srv), "tok", Options{})
		if err != nil {
			t.Fatalf("connect failed: %v", err)
		}
		defer s.Close()

		if _, err := s.Call(ctx, "spotcast/player", nil); !errors.Is(err, shared.ErrSessionDown) {
			t.Errorf("expected ErrSessionDown, got %v", err)
		}
	})
}
