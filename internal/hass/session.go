package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// StateHandler receives one entity state per state_changed push.
type StateHandler func(st models.EntityState)

// Options configures a [Session].
type Options struct {
	Logger *log.Logger
	// Outbound calls per second. Zero means unlimited.
	RateLimit float64
	Dialer    *websocket.Dialer
}

// Session is an authenticated Home Assistant websocket connection.
type Session struct {
	conn    *websocket.Conn
	log     *log.Logger
	limiter *rate.Limiter

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan callResult
	handler StateHandler

	closeOnce sync.Once
	closed    chan struct{}
}

type callResult struct {
	result json.RawMessage
	err    error
}

// envelope is the wire shape of every message in both directions.
type envelope struct {
	ID        int64           `json:"id,omitempty"`
	Type      string          `json:"type"`
	Success   *bool           `json:"success,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *apiError       `json:"error,omitempty"`
	Event     *eventPayload   `json:"event,omitempty"`
	Message   string          `json:"message,omitempty"`
	HAVersion string          `json:"ha_version,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type eventPayload struct {
	EventType string `json:"event_type"`
	Data      struct {
		EntityID string              `json:"entity_id"`
		NewState *models.EntityState `json:"new_state"`
	} `json:"data"`
}

// Connect dials url, runs the auth handshake with the long-lived token, and
// starts the read pump. The context bounds the dial and handshake only.
func Connect(ctx context.Context, url, token string, opts Options) (*Session, error) {
	if token == "" {
		return nil, shared.ErrMissingToken
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	if err := handshake(conn, token); err != nil {
		conn.Close()
		return nil, err
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	s := &Session{
		conn:    conn,
		log:     opts.Logger,
		limiter: rate.NewLimiter(limit, 1),
		pending: make(map[int64]chan callResult),
		closed:  make(chan struct{}),
	}

	go s.readPump()
	return s, nil
}

// handshake consumes auth_required, sends the token, and expects auth_ok.
func handshake(conn *websocket.Conn, token string) error {
	var hello envelope
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("failed to read host greeting: %w", err)
	}
	if hello.Type != "auth_required" {
		return fmt.Errorf("%w: unexpected greeting %q", shared.ErrAuthFailed, hello.Type)
	}

	if err := conn.WriteJSON(map[string]string{"type": "auth", "access_token": token}); err != nil {
		return fmt.Errorf("failed to send auth: %w", err)
	}

	var verdict envelope
	if err := conn.ReadJSON(&verdict); err != nil {
		return fmt.Errorf("failed to read auth result: %w", err)
	}
	if verdict.Type != "auth_ok" {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, verdict.Message)
	}

	return nil
}

// Call sends a typed command and blocks until its correlated result, ctx
// cancellation, or session teardown.
func (s *Session) Call(ctx context.Context, msgType string, payload map[string]any) (json.RawMessage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	id, ch, err := s.send(msgType, payload, true)
	if err != nil {
		return nil, err
	}

	select {
	case res := <-ch:
		return res.result, res.err
	case <-ctx.Done():
		s.forget(id)
		return nil, ctx.Err()
	case <-s.closed:
		return nil, shared.ErrSessionDown
	}
}

// Fire sends a typed command without awaiting its result. The host still
// responds; the read pump drops the reply for the unregistered id.
func (s *Session) Fire(ctx context.Context, msgType string, payload map[string]any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, _, err := s.send(msgType, payload, false)
	return err
}

// CallService fires a Home Assistant service call and discards the result.
func (s *Session) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	return s.Fire(ctx, "call_service", map[string]any{
		"domain":       domain,
		"service":      service,
		"service_data": data,
	})
}

// SubscribeStates registers handler for every state_changed push. Only one
// handler is supported; the widget fans out through its own store.
func (s *Session) SubscribeStates(ctx context.Context, handler StateHandler) error {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()

	_, err := s.Call(ctx, "subscribe_events", map[string]any{"event_type": "state_changed"})
	if err != nil {
		return fmt.Errorf("failed to subscribe to state_changed: %w", err)
	}

	return nil
}

func (s *Session) send(msgType string, payload map[string]any, wait bool) (int64, chan callResult, error) {
	select {
	case <-s.closed:
		return 0, nil, shared.ErrSessionDown
	default:
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	var ch chan callResult
	if wait {
		ch = make(chan callResult, 1)
		s.pending[id] = ch
	}
	s.mu.Unlock()

	msg := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		msg[k] = v
	}
	msg["id"] = id
	msg["type"] = msgType

	s.writeMu.Lock()
	err := s.conn.WriteJSON(msg)
	s.writeMu.Unlock()

	if err != nil {
		s.forget(id)
		return 0, nil, fmt.Errorf("failed to send %s: %w", msgType, err)
	}

	return id, ch, nil
}

func (s *Session) forget(id int64) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// readPump owns all reads until the connection drops, then fails every
// pending call.
func (s *Session) readPump() {
	for {
		var env envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			s.teardown(err)
			return
		}

		switch env.Type {
		case "result":
			s.dispatchResult(env)
		case "event":
			s.dispatchEvent(env)
		case "pong":
			// keepalive, nothing to do
		default:
			s.log.Debug("unhandled message", "type", env.Type, "id", env.ID)
		}
	}
}

func (s *Session) dispatchResult(env envelope) {
	s.mu.Lock()
	ch, ok := s.pending[env.ID]
	delete(s.pending, env.ID)
	s.mu.Unlock()

	if !ok {
		// fire-and-forget reply; surface failures in the log at least
		if env.Success != nil && !*env.Success && env.Error != nil {
			s.log.Warn("discarded command failed", "id", env.ID, "code", env.Error.Code, "message", env.Error.Message)
		}
		return
	}

	if env.Success != nil && !*env.Success {
		code, message := "unknown", "unknown error"
		if env.Error != nil {
			code, message = env.Error.Code, env.Error.Message
		}
		ch <- callResult{err: fmt.Errorf("host rejected call %d: %s: %s", env.ID, code, message)}
		return
	}

	ch <- callResult{result: env.Result}
}

func (s *Session) dispatchEvent(env envelope) {
	if env.Event == nil || env.Event.EventType != "state_changed" || env.Event.Data.NewState == nil {
		return
	}

	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()

	if handler != nil {
		st := *env.Event.Data.NewState
		if st.EntityID == "" {
			st.EntityID = env.Event.Data.EntityID
		}
		handler(st)
	}
}

func (s *Session) teardown(err error) {
	s.closeOnce.Do(func() { close(s.closed) })

	s.mu.Lock()
	pending := s.pending
	s.pending = make(map[int64]chan callResult)
	s.mu.Unlock()

	for id, ch := range pending {
		ch <- callResult{err: fmt.Errorf("%w: call %d abandoned: %v", shared.ErrSessionDown, id, err)}
	}

	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		s.log.Warn("host connection dropped", "error", err)
	}
}

// Done is closed when the session ends, however it ends.
func (s *Session) Done() <-chan struct{} { return s.closed }

// Close tears the connection down. In-flight calls fail with ErrSessionDown.
func (s *Session) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })

	s.writeMu.Lock()
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.writeMu.Unlock()

	return s.conn.Close()
}
