// Package transport owns the single push connection to the dispatch
// backend. It multiplexes server-pushed events to typed callback
// registrations and re-establishes the connection with bounded
// exponential backoff when it drops unexpectedly.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/haresh-sai06/HackAura/models"
)

// Server-pushed event names.
const (
	EventNewCall         = "new_call"
	EventCallUpdate      = "call_update"
	EventNotification    = "notification"
	EventUserStatus      = "user_status"
	EventSystemUpdate    = "system_update"
	EventAnalyticsUpdate = "analytics_update"
	EventStatsUpdate     = "stats_update"
)

// Client-emitted event names.
const (
	EventSubscribeAnalytics = "subscribe_analytics"
	EventSubscribeCalls     = "subscribe_calls"
	EventJoinRoom           = "join_room"
	EventLeaveRoom          = "leave_room"
)

// envelope is the wire frame for both directions of the push channel.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type handlerEntry struct {
	id int
	cb func(json.RawMessage)
}

// Options tune the reconnect policy.
type Options struct {
	URL         string
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

func (o *Options) defaults() {
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
}

// Adapter maintains exactly one push connection per session. All methods
// are safe for concurrent use.
type Adapter struct {
	opts Options

	mu           sync.Mutex
	conn         *websocket.Conn
	connecting   bool
	status       models.ConnectionStatus
	attempts     int
	terminal     bool
	clientClosed bool
	token        string
	handlers     map[string][]handlerEntry
	nextHandler  int

	writeMu sync.Mutex

	// dial is swappable for tests
	dial func(url string, header http.Header) (*websocket.Conn, error)
}

// New builds an Adapter; it does not connect.
func New(opts Options) *Adapter {
	opts.defaults()
	return &Adapter{
		opts:     opts,
		status:   models.ConnectionDisconnected,
		handlers: make(map[string][]handlerEntry),
		dial: func(url string, header http.Header) (*websocket.Conn, error) {
			conn, _, err := websocket.DefaultDialer.Dial(url, header)
			return conn, err
		},
	}
}

// Connect establishes the push connection, retrying with exponential
// backoff up to the attempt bound. On success it sends the analytics and
// calls subscriptions (fire and forget) and starts the read loop. After
// the bound is exhausted the adapter is in a terminal state and will not
// auto-reconnect until Connect is called again.
func (a *Adapter) Connect(ctx context.Context, token string) error {
	a.mu.Lock()
	if a.conn != nil {
		a.mu.Unlock()
		return nil
	}
	a.clientClosed = false
	a.terminal = false
	a.attempts = 0
	a.token = token
	a.mu.Unlock()

	return a.connectLoop(ctx)
}

func (a *Adapter) connectLoop(ctx context.Context) error {
	// exactly one connect loop may be in flight; a second entry (Resume
	// racing the auto-reconnect, or two Resume calls) yields to it
	a.mu.Lock()
	if a.connecting || a.conn != nil {
		a.mu.Unlock()
		return nil
	}
	a.connecting = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.connecting = false
		a.mu.Unlock()
	}()

	for {
		a.mu.Lock()
		if a.clientClosed {
			a.mu.Unlock()
			return fmt.Errorf("connection closed by client")
		}
		attempt := a.attempts
		token := a.token
		a.mu.Unlock()

		if attempt >= a.opts.MaxAttempts {
			a.mu.Lock()
			a.terminal = true
			a.status = models.ConnectionDisconnected
			a.mu.Unlock()
			zap.S().Errorw("max reconnection attempts reached", "attempts", attempt)
			return fmt.Errorf("push connection failed after %d attempts", attempt)
		}

		if attempt > 0 {
			delay := a.backoff(attempt)
			zap.S().Infow("attempting to reconnect",
				"attempt", attempt,
				"max", a.opts.MaxAttempts,
				"delay", delay,
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		header := http.Header{}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}

		conn, err := a.dial(a.opts.URL, header)
		if err != nil {
			zap.S().Warnw("push connection error", "error", err)
			a.mu.Lock()
			a.attempts++
			a.status = models.ConnectionReconnecting
			a.mu.Unlock()
			continue
		}

		a.mu.Lock()
		a.conn = conn
		a.status = models.ConnectionConnected
		a.attempts = 0
		a.mu.Unlock()

		zap.S().Info("push channel connected")

		// subscriptions are fire and forget, no ack expected
		a.Emit(EventSubscribeAnalytics, struct{}{})
		a.Emit(EventSubscribeCalls, struct{}{})

		go a.readLoop(conn)
		return nil
	}
}

// backoff returns base × 2^(attempt−1), capped.
func (a *Adapter) backoff(attempt int) time.Duration {
	delay := a.opts.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= a.opts.MaxDelay {
			return a.opts.MaxDelay
		}
	}
	if delay > a.opts.MaxDelay {
		delay = a.opts.MaxDelay
	}
	return delay
}

// readLoop pumps frames from one connection until it drops. Unexpected
// drops trigger the auto-reconnect path.
func (a *Adapter) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			a.mu.Lock()
			intentional := a.clientClosed
			if a.conn == conn {
				a.conn = nil
				a.status = models.ConnectionDisconnected
			}
			a.mu.Unlock()

			if intentional {
				return
			}
			zap.S().Warnw("push channel disconnected", "error", err)
			a.mu.Lock()
			a.status = models.ConnectionReconnecting
			a.attempts = 1
			a.mu.Unlock()
			if err := a.connectLoop(context.Background()); err != nil {
				zap.S().Errorw("push channel gave up reconnecting", "error", err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			zap.S().Warnw("dropping malformed push frame", "error", err)
			continue
		}
		a.dispatch(env.Event, env.Data)
	}
}

// dispatch fans an event out to every registered callback, in
// registration order.
func (a *Adapter) dispatch(event string, data json.RawMessage) {
	a.mu.Lock()
	entries := make([]handlerEntry, len(a.handlers[event]))
	copy(entries, a.handlers[event])
	a.mu.Unlock()

	for _, entry := range entries {
		entry.cb(data)
	}
}

// Disconnect tears the connection down. Idempotent, and it suppresses
// auto-reconnect until the next Connect call.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	a.clientClosed = true
	conn := a.conn
	a.conn = nil
	a.status = models.ConnectionDisconnected
	a.mu.Unlock()

	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}
}

// Resume reconnects opportunistically, for "regained network" or
// "regained foreground" signals from the host environment. It is a no-op
// when already connected, after an explicit Disconnect, or in the
// terminal state.
func (a *Adapter) Resume(ctx context.Context) {
	a.mu.Lock()
	skip := a.conn != nil || a.clientClosed || a.terminal
	if !skip {
		a.attempts = 0
		a.status = models.ConnectionReconnecting
	}
	a.mu.Unlock()
	if skip {
		return
	}
	if err := a.connectLoop(ctx); err != nil {
		zap.S().Warnw("opportunistic reconnect failed", "error", err)
	}
}

// IsConnected reports the connection status. Never blocks on I/O.
func (a *Adapter) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn != nil
}

// State returns a snapshot of the connection state.
func (a *Adapter) State() models.ConnectionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return models.ConnectionState{
		Status:            a.status,
		ReconnectAttempts: a.attempts,
		MaxReconnects:     a.opts.MaxAttempts,
		Terminal:          a.terminal,
	}
}

// Emit sends one event to the server. Failures are logged, not
// returned; push emissions are advisory.
func (a *Adapter) Emit(event string, payload interface{}) {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()
	if conn == nil {
		zap.S().Debugw("emit skipped, not connected", "event", event)
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		zap.S().Warnw("failed to marshal emit payload", "event", event, "error", err)
		return
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if err := conn.WriteJSON(envelope{Event: event, Data: data}); err != nil {
		zap.S().Warnw("failed to emit event", "event", event, "error", err)
	}
}

// on registers a raw callback for an event and returns a function that
// removes exactly that registration. All callbacks registered for the
// same event are invoked, not just the last one.
func (a *Adapter) on(event string, cb func(json.RawMessage)) func() {
	a.mu.Lock()
	a.nextHandler++
	id := a.nextHandler
	a.handlers[event] = append(a.handlers[event], handlerEntry{id: id, cb: cb})
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		entries := a.handlers[event]
		for i, entry := range entries {
			if entry.id == id {
				a.handlers[event] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

// RemoveAllListeners drops every registered callback.
func (a *Adapter) RemoveAllListeners() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers = make(map[string][]handlerEntry)
}
