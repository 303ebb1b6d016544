// Package wsfeed provides a WebSocket broadcast hub for streaming events
// to external subscribers.
package wsfeed

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/mglvn/swappool/internal/logger"
)

// Config holds feed configuration.
type Config struct {
	SendBuffer   int           // per-client queued messages before drops
	WriteTimeout time.Duration // per-message write deadline
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   64,
		WriteTimeout: 5 * time.Second,
	}
}

type client struct {
	send chan []byte
}

// Feed fans broadcast messages out to all connected WebSocket clients.
// Slow clients get messages dropped rather than stalling the publisher.
type Feed struct {
	cfg    Config
	logger logger.LoggerInterface

	mu        sync.Mutex
	clients   map[*client]struct{}
	closed    bool
	onClients func(int)
}

// New creates a feed.
func New(cfg Config, log logger.LoggerInterface) *Feed {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultConfig().SendBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	return &Feed{
		cfg:     cfg,
		logger:  log,
		clients: make(map[*client]struct{}),
	}
}

// OnClientsChange registers a callback invoked with the client count after
// every connect and disconnect.
func (f *Feed) OnClientsChange(fn func(int)) {
	f.mu.Lock()
	f.onClients = fn
	f.mu.Unlock()
}

// Clients returns the number of connected subscribers.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Broadcast queues msg for every connected client. Returns the number of
// clients the message was queued for.
func (f *Feed) Broadcast(msg []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for c := range f.clients {
		select {
		case c.send <- msg:
			n++
		default:
			// client too slow, drop this message for it
		}
	}
	return n
}

func (f *Feed) add(c *client) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.clients[c] = struct{}{}
	if f.onClients != nil {
		go f.onClients(len(f.clients))
	}
	return true
}

func (f *Feed) remove(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; !ok {
		return
	}
	delete(f.clients, c)
	close(c.send)
	if f.onClients != nil {
		go f.onClients(len(f.clients))
	}
}

// Handler returns the HTTP handler that upgrades connections and serves the
// feed until the client disconnects.
func (f *Feed) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			f.logger.Warn(r.Context(), "feed accept failed", "error", err)
			return
		}

		c := &client{send: make(chan []byte, f.cfg.SendBuffer)}
		if !f.add(c) {
			conn.Close(websocket.StatusGoingAway, "feed shutting down")
			return
		}
		f.logger.Debug(r.Context(), "feed client connected", "clients", f.Clients())

		ctx := r.Context()
		go f.readLoop(ctx, conn, c)
		f.writeLoop(ctx, conn, c)

		f.remove(c)
		conn.Close(websocket.StatusNormalClosure, "")
		f.logger.Debug(r.Context(), "feed client disconnected", "clients", f.Clients())
	})
}

// readLoop drains incoming frames so pings are answered; the feed is
// broadcast-only and ignores client payloads.
func (f *Feed) readLoop(ctx context.Context, conn *websocket.Conn, c *client) {
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func (f *Feed) writeLoop(ctx context.Context, conn *websocket.Conn, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, f.cfg.WriteTimeout)
			err := conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// Close disconnects all clients and rejects new ones.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	for c := range f.clients {
		delete(f.clients, c)
		close(c.send)
	}
	return nil
}
