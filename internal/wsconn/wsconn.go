// Package wsconn provides a WebSocket broadcast hub built on coder/websocket.
package wsconn

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/fd1az/optrack/internal/logger"
)

// State represents a subscriber connection state.
type State string

const (
	StateConnected State = "connected"
	StateDropped   State = "dropped"
	StateClosed    State = "closed"
)

// Config holds hub configuration.
type Config struct {
	SendBuffer   int
	WriteTimeout time.Duration
	PingInterval time.Duration // 0 disables pings
	// OriginPatterns are passed to websocket.Accept. Empty allows same-origin only.
	OriginPatterns []string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   16,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

type subscriber struct {
	conn  *websocket.Conn
	send  chan []byte
	state State
}

// Hub fans messages out to every connected subscriber. A subscriber whose
// buffer is full is dropped rather than slowing the others.
type Hub struct {
	config Config
	logger logger.LoggerInterface

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	closed      bool
}

// NewHub creates an empty hub.
func NewHub(config Config, log logger.LoggerInterface) *Hub {
	if config.SendBuffer <= 0 {
		config.SendBuffer = 1
	}
	return &Hub{
		config:      config,
		logger:      log,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request and streams broadcasts until the peer goes
// away or the hub is closed. Messages the peer sends are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.config.OriginPatterns})
	if err != nil {
		h.logger.Warn(r.Context(), "websocket accept failed", "error", err)
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, h.config.SendBuffer), state: StateConnected}
	if !h.add(sub) {
		conn.Close(websocket.StatusGoingAway, "hub closed")
		return
	}
	defer h.remove(sub)

	ctx := conn.CloseRead(r.Context())
	h.logger.Debug(ctx, "subscriber connected", "remote", r.RemoteAddr)

	if err := h.writeLoop(ctx, sub); err != nil {
		h.logger.Debug(ctx, "subscriber disconnected", "remote", r.RemoteAddr, "error", err)
	}
}

func (h *Hub) writeLoop(ctx context.Context, sub *subscriber) error {
	var ping <-chan time.Time
	if h.config.PingInterval > 0 {
		t := time.NewTicker(h.config.PingInterval)
		defer t.Stop()
		ping = t.C
	}

	for {
		select {
		case msg, ok := <-sub.send:
			if !ok {
				return sub.conn.Close(closeCode(sub.state), string(sub.state))
			}
			if err := h.write(ctx, sub.conn, msg); err != nil {
				return err
			}
		case <-ping:
			pctx, cancel := context.WithTimeout(ctx, h.config.WriteTimeout)
			err := sub.conn.Ping(pctx)
			cancel()
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.WriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}

// Broadcast queues msg for every subscriber and returns how many accepted it.
func (h *Hub) Broadcast(msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for sub := range h.subscribers {
		select {
		case sub.send <- msg:
			n++
		default:
			h.drop(sub, StateDropped)
		}
	}
	return n
}

// BroadcastJSON encodes v and broadcasts it.
func (h *Hub) BroadcastJSON(v any) (int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return h.Broadcast(b), nil
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for sub := range h.subscribers {
		h.drop(sub, StateClosed)
	}
}

func (h *Hub) add(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subscribers[sub] = struct{}{}
	return true
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
}

// drop must be called with h.mu held.
func (h *Hub) drop(sub *subscriber, state State) {
	sub.state = state
	delete(h.subscribers, sub)
	close(sub.send)
}

func closeCode(s State) websocket.StatusCode {
	if s == StateDropped {
		return websocket.StatusPolicyViolation
	}
	return websocket.StatusGoingAway
}
